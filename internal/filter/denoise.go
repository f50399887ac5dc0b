package filter

import (
	"sort"

	"github.com/enhancekit/enhancekit/internal/pixel"
)

// MedianDenoise replaces each interior RGB channel value with the median
// of its 3x3 neighborhood. It runs last in the pipeline so it softens the
// sharpening stages as little as possible.
func MedianDenoise(src *pixel.Buffer) *pixel.Buffer {
	out := src.Clone()
	var window [9]int
	for y := 1; y < src.Height-1; y++ {
		for x := 1; x < src.Width-1; x++ {
			i := src.Offset(x, y)
			for c := 0; c < 3; c++ {
				k := 0
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						window[k] = int(src.Data[src.Offset(x+kx, y+ky)+c])
						k++
					}
				}
				vals := window[:]
				sort.Ints(vals)
				out.Data[i+c] = uint8(vals[4])
			}
		}
	}
	return out
}
