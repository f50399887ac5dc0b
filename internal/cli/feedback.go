package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/analyze"
	"github.com/enhancekit/enhancekit/internal/model"
	"github.com/enhancekit/enhancekit/internal/pixel"
)

func init() {
	cmd := &cobra.Command{
		Use:   "feedback <original> <rating>",
		Short: "Record a quality rating for an enhancement",
		Long: "Record a 1-5 rating for an enhancement of the original image. The rating and\n" +
			"issue flags feed future parameter recommendations.",
		Args: cobra.ExactArgs(2),
		Run:  runFeedback,
	}

	cmd.Flags().Bool("too-blurry", false, "Result was too blurry")
	cmd.Flags().Bool("too-sharp", false, "Result was over-sharpened")
	cmd.Flags().Bool("too-bright", false, "Result was too bright")
	cmd.Flags().Bool("too-dark", false, "Result was too dark")
	cmd.Flags().Bool("artifacts", false, "Result had visible artifacts")
	cmd.Flags().Bool("good", false, "Result had good overall quality")

	RootCmd.AddCommand(cmd)
}

func runFeedback(cmd *cobra.Command, args []string) {
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		exitErr("parse rating", err)
	}
	if err := model.ValidateRating(rating); err != nil {
		exitErr("invalid rating", err)
	}

	buf, err := pixel.ReadFile(args[0])
	if err != nil {
		exitErr("read original", err)
	}

	chars, err := analyze.New().Analyze(buf)
	if err != nil {
		exitErr("analyze", err)
	}

	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	var flags model.FeedbackFlags
	flags.TooBlurry, _ = cmd.Flags().GetBool("too-blurry")
	flags.TooSharp, _ = cmd.Flags().GetBool("too-sharp")
	flags.TooBright, _ = cmd.Flags().GetBool("too-bright")
	flags.TooDark, _ = cmd.Flags().GetBool("too-dark")
	flags.Artifacts, _ = cmd.Flags().GetBool("artifacts")
	flags.GoodQuality, _ = cmd.Flags().GetBool("good")

	// The parameters on record are the ones the trainer would have
	// recommended for this image, matching the enhance default path.
	params := t.Recommend(chars)

	if err := t.RecordFeedback(cmd.Context(), chars, params, rating, flags); err != nil {
		exitErr("record feedback", err)
	}

	perf := t.Performance()
	fmt.Printf(`{"ok":true,"samples":%d,"average_rating":%.2f,"version":%q}`+"\n",
		perf.TotalSamples, perf.AverageRating, t.Version())
}
