package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enhancekit/enhancekit/internal/analyze"
	"github.com/enhancekit/enhancekit/internal/filter"
	"github.com/enhancekit/enhancekit/internal/model"
	"github.com/enhancekit/enhancekit/internal/pixel"
	"github.com/enhancekit/enhancekit/internal/trainer"
)

func init() {
	cmd := &cobra.Command{
		Use:   "enhance <input> <output>",
		Short: "Enhance a single image",
		Long:  "Enhance an image with the local pipeline. Parameters come from the trained\nrecommendation for this image; individual flags override the recommendation.",
		Args:  cobra.ExactArgs(2),
		Run:   runEnhance,
	}

	addParamFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Int("scale", 0, "Upscale factor (>= 1)")
	cmd.Flags().Float64("sharpen", 0, "Sharpen intensity (>= 0)")
	cmd.Flags().Float64("contrast", 0, "Contrast factor (> 0)")
	cmd.Flags().Float64("brightness", 0, "Brightness factor (> 0)")
	cmd.Flags().Float64("saturation", 0, "Saturation factor (>= 0)")
	cmd.Flags().Bool("denoise", false, "Apply median denoise")
}

// resolveParams blends the trainer's recommendation for the image with
// any explicitly set flags.
func resolveParams(cmd *cobra.Command, t *trainer.Trainer, buf *pixel.Buffer) (model.Parameters, error) {
	chars, err := analyze.New().Analyze(buf)
	if err != nil {
		return model.Parameters{}, err
	}
	p := t.Recommend(chars)

	flags := cmd.Flags()
	if flags.Changed("scale") {
		p.Scale, _ = flags.GetInt("scale")
	}
	if flags.Changed("sharpen") {
		p.Sharpen, _ = flags.GetFloat64("sharpen")
	}
	if flags.Changed("contrast") {
		p.Contrast, _ = flags.GetFloat64("contrast")
	}
	if flags.Changed("brightness") {
		p.Brightness, _ = flags.GetFloat64("brightness")
	}
	if flags.Changed("saturation") {
		p.Saturation, _ = flags.GetFloat64("saturation")
	}
	if flags.Changed("denoise") {
		p.Denoise, _ = flags.GetBool("denoise")
	}
	return p, nil
}

func runEnhance(cmd *cobra.Command, args []string) {
	buf, err := pixel.ReadFile(args[0])
	if err != nil {
		exitErr("read input", err)
	}

	t, store, err := openTrainer()
	if err != nil {
		exitErr("open trainer", err)
	}
	defer store.Close()

	params, err := resolveParams(cmd, t, buf)
	if err != nil {
		exitErr("analyze", err)
	}

	out, err := filter.Enhance(buf, params)
	if err != nil {
		exitErr("enhance", err)
	}

	if err := pixel.WriteFile(args[1], out); err != nil {
		exitErr("write output", err)
	}
	fmt.Printf("Image enhanced successfully: %s (%dx%d -> %dx%d)\n",
		args[1], buf.Width, buf.Height, out.Width, out.Height)
}
