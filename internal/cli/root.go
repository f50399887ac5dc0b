// Package cli implements the enhancekit CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/trainer"
)

var (
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "enhancekit",
	Short: "Local image enhancement with feedback-trained parameters",
	Long: "Enhance images with a local deblur/sharpen/denoise pipeline whose parameters\n" +
		"are tuned from accumulated user feedback. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Training database path (default: $ENHANCEKIT_DB or ~/.enhancekit/training.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// emit prints v as indented JSON, or runs the text renderer when
// --format=text is set.
func emit(v interface{}, text func()) {
	if formatFlag == "text" && text != nil {
		text()
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("ENHANCEKIT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".enhancekit", "training.db")
}

// openTrainer opens the SQLite-backed trainer. The caller closes the
// returned store.
func openTrainer() (*trainer.Trainer, *trainer.SQLiteStore, error) {
	store, err := trainer.NewSQLiteStore(getDBPath())
	if err != nil {
		return nil, nil, err
	}
	t, err := trainer.New(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return t, store, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
