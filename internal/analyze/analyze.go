// Package analyze derives summary characteristics from a pixel buffer.
// The result feeds the parameter trainer's similarity search.
package analyze

import (
	"math"
	"math/rand"
	"time"

	"github.com/enhancekit/enhancekit/internal/model"
	"github.com/enhancekit/enhancekit/internal/pixel"
)

// maxNoiseSamples caps how many interior pixels the noise estimate visits.
const maxNoiseSamples = 1000

// Analyzer computes image characteristics. The zero value is not usable;
// construct with New.
type Analyzer struct {
	rng    *rand.Rand
	stride bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSeed fixes the noise-sampling random seed for reproducible runs.
func WithSeed(seed int64) Option {
	return func(a *Analyzer) { a.rng = rand.New(rand.NewSource(seed)) }
}

// WithStrideSampling replaces random noise sampling with a deterministic
// stride over the interior, for callers that need exact repeatability.
func WithStrideSampling() Option {
	return func(a *Analyzer) { a.stride = true }
}

// New creates an Analyzer. By default noise estimation samples random
// interior pixels, so repeated runs over the same image may differ
// slightly; use WithSeed or WithStrideSampling for reproducibility.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes brightness, contrast, sharpness, and noise level for
// the buffer. Characteristics are computed fresh per image and never
// cached.
func (a *Analyzer) Analyze(b *pixel.Buffer) (model.Characteristics, error) {
	if err := b.Validate(); err != nil {
		return model.Characteristics{}, err
	}

	brightness, contrast := luminanceStats(b)
	return model.Characteristics{
		Brightness: brightness,
		Contrast:   contrast,
		Sharpness:  meanGradient(b),
		NoiseLevel: a.noiseLevel(b),
	}, nil
}

// luminanceStats returns the mean and population standard deviation of
// normalized luminance over all pixels.
func luminanceStats(b *pixel.Buffer) (mean, stddev float64) {
	n := float64(b.Width * b.Height)
	var sum, sumSq float64
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			l := b.Luminance(x, y) / 255
			sum += l
			sumSq += l * l
		}
	}
	mean = sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// meanGradient returns the mean central-difference gradient magnitude of
// luminance over interior pixels, normalized by 255. Images smaller than
// 3x3 have no interior and report zero sharpness.
func meanGradient(b *pixel.Buffer) float64 {
	if b.Width < 3 || b.Height < 3 {
		return 0
	}
	var sum float64
	count := 0
	for y := 1; y < b.Height-1; y++ {
		for x := 1; x < b.Width-1; x++ {
			gx := b.Luminance(x+1, y) - b.Luminance(x-1, y)
			gy := b.Luminance(x, y+1) - b.Luminance(x, y-1)
			sum += math.Sqrt(gx*gx + gy*gy)
			count++
		}
	}
	return sum / float64(count) / 255
}

// noiseLevel estimates noise as the mean absolute deviation of sampled
// interior pixels from their 3x3 neighborhood average, normalized by 255.
func (a *Analyzer) noiseLevel(b *pixel.Buffer) float64 {
	if b.Width < 3 || b.Height < 3 {
		return 0
	}
	interiorW := b.Width - 2
	interiorH := b.Height - 2
	total := interiorW * interiorH

	var sum float64
	count := 0
	visit := func(x, y int) {
		var neighborhood float64
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				neighborhood += b.Luminance(x+kx, y+ky)
			}
		}
		neighborhood /= 9
		sum += math.Abs(b.Luminance(x, y) - neighborhood)
		count++
	}

	switch {
	case total <= maxNoiseSamples:
		for y := 1; y < b.Height-1; y++ {
			for x := 1; x < b.Width-1; x++ {
				visit(x, y)
			}
		}
	case a.stride:
		step := total / maxNoiseSamples
		if step < 1 {
			step = 1
		}
		for i := 0; i < total && count < maxNoiseSamples; i += step {
			visit(1+i%interiorW, 1+i/interiorW)
		}
	default:
		for i := 0; i < maxNoiseSamples; i++ {
			visit(1+a.rng.Intn(interiorW), 1+a.rng.Intn(interiorH))
		}
	}

	return sum / float64(count) / 255
}
