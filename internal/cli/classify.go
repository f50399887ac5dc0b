package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/analyze"
	"github.com/enhancekit/enhancekit/internal/model"
	"github.com/enhancekit/enhancekit/internal/pixel"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify <input>",
		Short: "Analyze image quality and recommend parameters",
		Args:  cobra.ExactArgs(1),
		Run:   runClassify,
	}

	cmd.Flags().Int64("seed", 0, "Fix the noise-sampling seed for reproducible output")
	cmd.Flags().Bool("stride", false, "Use deterministic stride sampling for noise estimation")

	RootCmd.AddCommand(cmd)
}

type classifyResult struct {
	Width           int                   `json:"width"`
	Height          int                   `json:"height"`
	Characteristics model.Characteristics `json:"characteristics"`
	Recommended     model.Parameters      `json:"recommended"`
}

func runClassify(cmd *cobra.Command, args []string) {
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

	res := classifyResult{
		Width:           buf.Width,
		Height:          buf.Height,
		Characteristics: chars,
		Recommended:     t.Recommend(chars),
	}
	emit(res, func() {
		c, p := res.Characteristics, res.Recommended
		fmt.Printf("size: %dx%d\nbrightness: %.3f\ncontrast: %.3f\nsharpness: %.3f\nnoise: %.3f\n",
			res.Width, res.Height, c.Brightness, c.Contrast, c.Sharpness, c.NoiseLevel)
		fmt.Printf("recommended: sharpen %.3f, contrast %.3f, brightness %.3f, saturation %.3f, denoise %v, scale %d\n",
			p.Sharpen, p.Contrast, p.Brightness, p.Saturation, p.Denoise, p.Scale)
	})
}
