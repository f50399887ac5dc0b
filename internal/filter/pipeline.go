// Package filter implements the local enhancement pipeline: a fixed
// sequence of pixel-buffer transforms used when the remote enhancement
// service is unavailable. Every stage is pure, returns a fresh buffer,
// clamps channel values to [0, 255], and copies alpha through unchanged.
// Gradient and neighborhood stages skip the 1-pixel border.
package filter

import (
	"fmt"

	"github.com/enhancekit/enhancekit/internal/model"
	"github.com/enhancekit/enhancekit/internal/pixel"
)

// Enhance runs the full pipeline over src. Stage order is fixed: upscale,
// deblur composite, contrast/brightness, saturation, then optional median
// denoise. Later stages assume earlier stages already ran.
func Enhance(src *pixel.Buffer, p model.Parameters) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	out := Upscale(src, p.Scale)
	out = Deblur(out, p.Sharpen)
	out = AdjustContrastBrightness(out, p.Contrast, p.Brightness)
	out = AdjustSaturation(out, p.Saturation)
	if p.Denoise {
		out = MedianDenoise(out)
	}
	return out, nil
}

// Upscale replicates each source pixel into a scale x scale block.
// Nearest-neighbor is deliberate: fast, predictable pixel boundaries, and
// the remote service is the expected path for high-quality upscaling.
// scale must already be validated to be >= 1; scale 1 returns a copy.
func Upscale(src *pixel.Buffer, scale int) *pixel.Buffer {
	if scale == 1 {
		return src.Clone()
	}

	out := pixel.New(src.Width*scale, src.Height*scale)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			si := src.Offset(x, y)
			for dy := 0; dy < scale; dy++ {
				row := out.Offset(x*scale, y*scale+dy)
				for dx := 0; dx < scale; dx++ {
					di := row + dx*pixel.Channels
					out.Data[di] = src.Data[si]
					out.Data[di+1] = src.Data[si+1]
					out.Data[di+2] = src.Data[si+2]
					out.Data[di+3] = src.Data[si+3]
				}
			}
		}
	}
	return out
}
