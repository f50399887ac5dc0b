package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestValidate(t *testing.T) {
	if err := New(4, 4).Validate(); err != nil {
		t.Errorf("valid buffer rejected: %v", err)
	}

	var nilBuf *Buffer
	if err := nilBuf.Validate(); err == nil {
		t.Error("expected error for nil buffer")
	}
	if err := (&Buffer{}).Validate(); err == nil {
		t.Error("expected error for empty buffer")
	}
	bad := &Buffer{Width: 2, Height: 2, Data: make([]uint8, 3)}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for mismatched data length")
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := New(2, 2)
	b.Data[0] = 42

	c := b.Clone()
	c.Data[0] = 99

	if b.Data[0] != 42 {
		t.Errorf("clone mutated original: got %d", b.Data[0])
	}
}

func TestImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 200})

	b := FromImage(img)
	if b.Width != 3 || b.Height != 2 {
		t.Fatalf("expected 3x2, got %dx%d", b.Width, b.Height)
	}

	out := b.ToImage()
	got := out.NRGBAAt(1, 1)
	if got != (color.NRGBA{R: 10, G: 20, B: 30, A: 200}) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestFromImagePremultipliedSource(t *testing.T) {
	// image.RGBA stores premultiplied channels; conversion must recover
	// the straight (unpremultiplied) values for translucent pixels.
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	b := FromImage(img)
	if b.Data[3] != 128 {
		t.Fatalf("alpha = %d, want 128", b.Data[3])
	}
	want := [3]int{200, 100, 50}
	for c := 0; c < 3; c++ {
		got := int(b.Data[c])
		if got < want[c]-2 || got > want[c]+2 {
			t.Errorf("channel %d = %d, want ~%d (premultiplied values leaked through)", c, got, want[c])
		}
	}
}

func TestClamp255(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{-5, 0},
		{0, 0},
		{127.6, 128},
		{127.999999, 128},
		{128.4, 128},
		{255, 255},
		{300, 255},
	}
	for _, c := range cases {
		if got := Clamp255(c.in); got != c.want {
			t.Errorf("Clamp255(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
