// Package pixel defines the raw RGBA buffer the enhancement pipeline operates on.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Channels is the number of interleaved channels per pixel (R, G, B, A).
const Channels = 4

// ErrEmptyBuffer is returned when a buffer has no pixel data.
var ErrEmptyBuffer = errors.New("empty pixel buffer")

// Buffer is an in-memory RGBA image. Data is row-major, 4 bytes per pixel.
// Transforms treat buffers as immutable and return fresh copies.
type Buffer struct {
	Width  int
	Height int
	Data   []uint8
}

// New allocates a zeroed buffer of the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Data:   make([]uint8, width*height*Channels),
	}
}

// Validate checks that the buffer has positive dimensions and a matching
// data length.
func (b *Buffer) Validate() error {
	if b == nil || len(b.Data) == 0 || b.Width <= 0 || b.Height <= 0 {
		return ErrEmptyBuffer
	}
	if want := b.Width * b.Height * Channels; len(b.Data) != want {
		return fmt.Errorf("%w: data length %d, want %d", ErrEmptyBuffer, len(b.Data), want)
	}
	return nil
}

// Offset returns the index of the red channel of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Data: make([]uint8, len(b.Data))}
	copy(out.Data, b.Data)
	return out
}

// Luminance returns the Rec.601 luminance of pixel (x, y) in the 0-255 range.
func (b *Buffer) Luminance(x, y int) float64 {
	i := b.Offset(x, y)
	return 0.299*float64(b.Data[i]) + 0.587*float64(b.Data[i+1]) + 0.114*float64(b.Data[i+2])
}

// FromImage converts any image.Image into a Buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == w*Channels {
		copy(out.Data, nrgba.Pix)
		return out
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// NRGBAModel un-premultiplies alpha, so translucent pixels
			// from premultiplied sources keep their true channel values.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Data[i] = c.R
			out.Data[i+1] = c.G
			out.Data[i+2] = c.B
			out.Data[i+3] = c.A
			i += Channels
		}
	}
	return out
}

// ToImage converts the buffer into an *image.NRGBA sharing no memory with it.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Data)
	return img
}

// Clamp255 rounds v to the nearest integer and clamps to [0, 255].
// Rounding rather than truncating keeps neutral-parameter stages exact
// identities despite floating-point dust.
func Clamp255(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
