package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/filter"
	"github.com/enhancekit/enhancekit/internal/pixel"
)

func init() {
	cmd := &cobra.Command{
		Use:   "batch <input_dir> <output_dir>",
		Short: "Enhance every image in a directory",
		Long:  "Enhance all images in a directory, writing results to the output directory\nwith an 'enhanced_' prefix.",
		Args:  cobra.ExactArgs(2),
		Run:   runBatch,
	}

	addParamFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runBatch(cmd *cobra.Command, args []string) {
	entries, err := os.ReadDir(args[0])
	if err != nil {
		exitErr("read input dir", err)
	}
	if err := os.MkdirAll(args[1], 0o755); err != nil {
		exitErr("create output dir", err)
	}

	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	total, successful := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !pixel.IsImageFile(entry.Name()) {
			continue
		}
		total++

		inPath := filepath.Join(args[0], entry.Name())
		buf, err := pixel.ReadFile(inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), err)
			continue
		}

		params, err := resolveParams(cmd, t, buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), err)
			continue
		}

		out, err := filter.Enhance(buf, params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), err)
			continue
		}

		outPath := filepath.Join(args[1], "enhanced_"+entry.Name())
		if err := pixel.WriteFile(outPath, out); err != nil {
			fmt.Fprintf(os.Stderr, "skip %s: %v\n", entry.Name(), err)
			continue
		}
		successful++
	}

	if total == 0 {
		fmt.Printf("No image files found in %s\n", args[0])
		return
	}
	fmt.Printf("Batch processing completed: %d/%d images enhanced\n", successful, total)
}
