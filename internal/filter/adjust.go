package filter

import "github.com/enhancekit/enhancekit/internal/pixel"

// AdjustContrastBrightness scales each RGB channel around mid-gray by the
// contrast factor, then multiplies by the brightness factor. Contrast is
// applied first; swapping the order changes the result.
func AdjustContrastBrightness(src *pixel.Buffer, contrast, brightness float64) *pixel.Buffer {
	out := src.Clone()
	for i := 0; i < len(src.Data); i += pixel.Channels {
		for c := 0; c < 3; c++ {
			v := float64(src.Data[i+c])
			v = ((v/255-0.5)*contrast + 0.5) * 255
			v *= brightness
			out.Data[i+c] = pixel.Clamp255(v)
		}
	}
	return out
}

// AdjustSaturation moves each RGB channel toward or away from the pixel's
// Rec.601 luminance. A factor of 1 is an identity, 0 desaturates fully.
func AdjustSaturation(src *pixel.Buffer, saturation float64) *pixel.Buffer {
	out := src.Clone()
	for i := 0; i < len(src.Data); i += pixel.Channels {
		lum := 0.299*float64(src.Data[i]) + 0.587*float64(src.Data[i+1]) + 0.114*float64(src.Data[i+2])
		for c := 0; c < 3; c++ {
			v := float64(src.Data[i+c])
			out.Data[i+c] = pixel.Clamp255(lum + (v-lum)*saturation)
		}
	}
	return out
}
