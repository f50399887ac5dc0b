// Package model defines the core enhancement data types.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRating is returned when a user rating is outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ErrInvalidScale is returned when an upscale factor is below 1.
var ErrInvalidScale = errors.New("scale must be at least 1")

// Parameters is one processing parameter set for the filter pipeline.
type Parameters struct {
	Sharpen    float64 `json:"sharpen"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Saturation float64 `json:"saturation"`
	Denoise    bool    `json:"denoise"`
	Scale      int     `json:"scale"`
}

// DefaultParameters are the built-in parameters used before any feedback
// has been collected.
func DefaultParameters() Parameters {
	return Parameters{
		Sharpen:    0.8,
		Contrast:   1.2,
		Brightness: 1.1,
		Saturation: 1.1,
		Denoise:    false,
		Scale:      2,
	}
}

// Validate checks parameter ranges.
func (p Parameters) Validate() error {
	if p.Scale < 1 {
		return ErrInvalidScale
	}
	if p.Sharpen < 0 || p.Saturation < 0 {
		return fmt.Errorf("sharpen and saturation must be non-negative")
	}
	if p.Contrast <= 0 || p.Brightness <= 0 {
		return fmt.Errorf("contrast and brightness must be positive")
	}
	return nil
}

// Characteristics summarizes an input image. All values are normalized:
// brightness and contrast come from 0-1 luminance, sharpness is the mean
// gradient magnitude over 255, and noise level the mean neighborhood
// deviation over 255.
type Characteristics struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Sharpness  float64 `json:"sharpness"`
	NoiseLevel float64 `json:"noise_level"`
}

// FeedbackFlags are the per-rating issue checkboxes a user can set.
type FeedbackFlags struct {
	TooBlurry   bool `json:"too_blurry,omitempty"`
	TooSharp    bool `json:"too_sharp,omitempty"`
	TooBright   bool `json:"too_bright,omitempty"`
	TooDark     bool `json:"too_dark,omitempty"`
	Artifacts   bool `json:"artifacts,omitempty"`
	GoodQuality bool `json:"good_quality,omitempty"`
}

// FlagNames are the feedback flag identifiers in reporting order.
var FlagNames = []string{"tooBlurry", "tooSharp", "tooBright", "tooDark", "artifacts", "goodQuality"}

// Set reports whether the named flag is set.
func (f FeedbackFlags) Set(name string) bool {
	switch name {
	case "tooBlurry":
		return f.TooBlurry
	case "tooSharp":
		return f.TooSharp
	case "tooBright":
		return f.TooBright
	case "tooDark":
		return f.TooDark
	case "artifacts":
		return f.Artifacts
	case "goodQuality":
		return f.GoodQuality
	}
	return false
}

// Sample is one recorded enhancement outcome. Samples are immutable once
// created; the collection of samples is the trainer's entire state.
type Sample struct {
	ID              string          `json:"id"`
	Characteristics Characteristics `json:"characteristics"`
	Params          Parameters      `json:"params"`
	Rating          int             `json:"rating"`
	Flags           FeedbackFlags   `json:"flags"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ValidateRating checks a user rating at the boundary, before a sample is
// constructed.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	return nil
}

// Performance is the aggregate view over all samples. It is a pure
// projection: recomputed from the sample set on every mutation, never
// stored as independent truth.
type Performance struct {
	AverageRating    float64    `json:"average_rating"`
	TotalSamples     int        `json:"total_samples"`
	SuccessRate      float64    `json:"success_rate"`
	BestParams       Parameters `json:"best_params"`
	CommonIssues     []string   `json:"common_issues,omitempty"`
	ImprovementTrend []float64  `json:"improvement_trend,omitempty"`
}
