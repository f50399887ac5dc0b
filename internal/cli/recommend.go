package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/analyze"
	"github.com/enhancekit/enhancekit/internal/pixel"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recommend <input>",
		Short: "Recommend processing parameters for an image",
		Long:  "Print the trained parameter recommendation for an image without enhancing it.",
		Args:  cobra.ExactArgs(1),
		Run:   runRecommend,
	}

	cmd.Flags().Int64("seed", 0, "Fix the noise-sampling seed for reproducible output")
	cmd.Flags().Bool("stride", false, "Use deterministic stride sampling for noise estimation")

	RootCmd.AddCommand(cmd)
}

func runRecommend(cmd *cobra.Command, args []string) {
	buf, err := pixel.ReadFile(args[0])
	if err != nil {
		exitErr("read input", err)
	}

	chars, err := analyze.New(analyzeOptions(cmd)...).Analyze(buf)
	if err != nil {
		exitErr("analyze", err)
	}

	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	p := t.Recommend(chars)
	emit(p, func() {
		fmt.Printf("sharpen: %.3f\ncontrast: %.3f\nbrightness: %.3f\nsaturation: %.3f\ndenoise: %v\nscale: %d\n",
			p.Sharpen, p.Contrast, p.Brightness, p.Saturation, p.Denoise, p.Scale)
	})
}

// analyzeOptions builds analyzer options from the shared --seed/--stride
// flags.
func analyzeOptions(cmd *cobra.Command) []analyze.Option {
	var opts []analyze.Option
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		opts = append(opts, analyze.WithSeed(seed))
	}
	if stride, _ := cmd.Flags().GetBool("stride"); stride {
		opts = append(opts, analyze.WithStrideSampling())
	}
	return opts
}
