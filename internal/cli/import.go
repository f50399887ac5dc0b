package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import trainer state from JSON",
		Long:  "Import trainer state from stdin. Expects the format produced by export.\nReplaces all existing state.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	if err := t.Import(cmd.Context(), data); err != nil {
		exitErr("import", err)
	}

	perf := t.Performance()
	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", perf.TotalSamples)
}
