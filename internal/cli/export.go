package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trainer state as JSON",
		Long:  "Export the full trainer state (samples, performance, version) as JSON.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	blob, err := t.Export()
	if err != nil {
		exitErr("export", err)
	}
	fmt.Println(string(blob))
}
