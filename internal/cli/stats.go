package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show training statistics and model performance",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsResult struct {
	DBPath      string            `json:"db_path"`
	Version     string            `json:"version"`
	Performance model.Performance `json:"performance"`
}

func runStats(cmd *cobra.Command, args []string) {
	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	res := statsResult{
		DBPath:      getDBPath(),
		Version:     t.Version(),
		Performance: t.Performance(),
	}
	emit(res, func() {
		p := res.Performance
		fmt.Printf("db: %s\nversion: %s\nsamples: %d\naverage rating: %.2f\nsuccess rate: %.0f%%\n",
			res.DBPath, res.Version, p.TotalSamples, p.AverageRating, p.SuccessRate*100)
		for _, issue := range p.CommonIssues {
			fmt.Printf("issue: %s\n", issue)
		}
	})
}
