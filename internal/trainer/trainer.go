// Package trainer recommends processing parameters from accumulated user
// feedback and tracks aggregate model performance.
package trainer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/enhancekit/enhancekit/internal/model"
)

const (
	// similarityThreshold is the maximum dissimilarity for a past sample
	// to contribute to a recommendation.
	similarityThreshold = 0.2

	// retrainInterval is how many samples trigger a version bump and a
	// forced persist.
	retrainInterval = 50

	// trendWindow and trendPoints bound the improvement trend: a moving
	// mean over the last trendWindow ratings, keeping trendPoints points.
	trendWindow = 10
	trendPoints = 20

	// issueIncidence is the fraction of samples a feedback flag must
	// exceed to count as a common issue.
	issueIncidence = 0.10

	// denoiseNoiseLevel is the noise level above which the fallback
	// recommendation enables denoising.
	denoiseNoiseLevel = 0.3

	initialVersion = "1.0.0"
)

// Trainer owns the mutable sample set and its derived performance view.
// All mutation goes through RecordFeedback and Import; both hold the
// mutex for the full append-and-recompute unit.
type Trainer struct {
	mu      sync.Mutex
	store   Store
	entropy *rand.Rand

	samples []model.Sample
	perf    model.Performance
	version string
}

// New creates a Trainer backed by the given store, loading any previously
// persisted state. A nil store keeps state in memory only.
func New(store Store) (*Trainer, error) {
	if store == nil {
		store = NewMemStore()
	}
	t := &Trainer{
		store:   store,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		version: initialVersion,
		perf:    model.Performance{BestParams: model.DefaultParameters()},
	}

	state, err := store.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load trainer state: %w", err)
	}
	if state != nil {
		t.samples = state.Samples
		if state.Version != "" {
			t.version = state.Version
		}
		t.perf = recompute(t.samples, t.perf)
	}
	return t, nil
}

func (t *Trainer) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), t.entropy).String()
}

// Recommend produces parameters for an image with the given
// characteristics by similarity-weighted averaging of past samples. With
// no sufficiently similar samples it falls back to the best known
// parameters, enabling denoise for noisy inputs.
func (t *Trainer) Recommend(c model.Characteristics) model.Parameters {
	t.mu.Lock()
	defer t.mu.Unlock()

	similar := t.similarSamples(c)
	if len(similar) == 0 {
		p := t.perf.BestParams
		p.Denoise = c.NoiseLevel > denoiseNoiseLevel
		p.Scale = 2
		return p
	}

	var wSum, sharpen, contrast, brightness, saturation, denoise, scale float64
	for _, s := range similar {
		w := float64(s.Rating) / 5
		wSum += w
		sharpen += w * s.Params.Sharpen
		contrast += w * s.Params.Contrast
		brightness += w * s.Params.Brightness
		saturation += w * s.Params.Saturation
		if s.Params.Denoise {
			denoise += w
		}
		scale += w * float64(s.Params.Scale)
	}

	p := model.Parameters{
		Sharpen:    sharpen / wSum,
		Contrast:   contrast / wSum,
		Brightness: brightness / wSum,
		Saturation: saturation / wSum,
		Denoise:    denoise/wSum > 0.5,
		Scale:      int(math.Round(scale / wSum)),
	}
	if p.Scale < 1 {
		p.Scale = 1
	}
	return p
}

// similarSamples returns samples whose stored characteristics are within
// the similarity threshold of c. Caller holds the mutex.
func (t *Trainer) similarSamples(c model.Characteristics) []model.Sample {
	var similar []model.Sample
	for _, s := range t.samples {
		if dissimilarity(c, s.Characteristics) < similarityThreshold {
			similar = append(similar, s)
		}
	}
	return similar
}

// dissimilarity is the mean absolute difference across the four
// normalized characteristic dimensions.
func dissimilarity(a, b model.Characteristics) float64 {
	return (math.Abs(a.Brightness-b.Brightness) +
		math.Abs(a.Contrast-b.Contrast) +
		math.Abs(a.Sharpness-b.Sharpness) +
		math.Abs(a.NoiseLevel-b.NoiseLevel)) / 4
}

// RecordFeedback appends one rated outcome and synchronously recomputes
// the performance view. Every retrainInterval-th sample bumps the patch
// version. The updated state is persisted before returning.
func (t *Trainer) RecordFeedback(ctx context.Context, c model.Characteristics, p model.Parameters, rating int, flags model.FeedbackFlags) error {
	if err := model.ValidateRating(rating); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = append(t.samples, model.Sample{
		ID:              t.newID(),
		Characteristics: c,
		Params:          p,
		Rating:          rating,
		Flags:           flags,
		CreatedAt:       time.Now().UTC(),
	})
	t.perf = recompute(t.samples, t.perf)

	if len(t.samples)%retrainInterval == 0 {
		t.version = bumpPatch(t.version)
	}

	if err := t.store.Save(ctx, t.state()); err != nil {
		return fmt.Errorf("persist trainer state: %w", err)
	}
	return nil
}

// Performance returns the current aggregate view.
func (t *Trainer) Performance() model.Performance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perf
}

// Version returns the current model version.
func (t *Trainer) Version() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// state snapshots the trainer for persistence. Caller holds the mutex.
func (t *Trainer) state() *State {
	samples := make([]model.Sample, len(t.samples))
	copy(samples, t.samples)
	return &State{Version: t.version, Samples: samples, Performance: t.perf}
}

// recompute rebuilds the performance projection from the full sample set.
// BestParams carries over unchanged until at least one sample rates >= 4.
func recompute(samples []model.Sample, prev model.Performance) model.Performance {
	perf := model.Performance{
		TotalSamples: len(samples),
		BestParams:   prev.BestParams,
	}
	if len(samples) == 0 {
		return perf
	}

	var ratingSum float64
	successes := 0
	flagCounts := map[string]int{}
	for _, s := range samples {
		ratingSum += float64(s.Rating)
		if s.Rating >= 4 {
			successes++
		}
		for _, name := range model.FlagNames {
			if s.Flags.Set(name) {
				flagCounts[name]++
			}
		}
	}
	perf.AverageRating = ratingSum / float64(len(samples))
	perf.SuccessRate = float64(successes) / float64(len(samples))

	if successes > 0 {
		perf.BestParams = meanParams(samples)
	}
	perf.CommonIssues = commonIssues(flagCounts, len(samples))
	perf.ImprovementTrend = improvementTrend(samples)
	return perf
}

// meanParams averages parameters across samples rated >= 4. Denoise is
// majority-voted and scale rounded to the nearest integer.
func meanParams(samples []model.Sample) model.Parameters {
	var n, sharpen, contrast, brightness, saturation, denoise, scale float64
	for _, s := range samples {
		if s.Rating < 4 {
			continue
		}
		n++
		sharpen += s.Params.Sharpen
		contrast += s.Params.Contrast
		brightness += s.Params.Brightness
		saturation += s.Params.Saturation
		if s.Params.Denoise {
			denoise++
		}
		scale += float64(s.Params.Scale)
	}
	p := model.Parameters{
		Sharpen:    sharpen / n,
		Contrast:   contrast / n,
		Brightness: brightness / n,
		Saturation: saturation / n,
		Denoise:    denoise/n > 0.5,
		Scale:      int(math.Round(scale / n)),
	}
	if p.Scale < 1 {
		p.Scale = 1
	}
	return p
}

// commonIssues returns flag names whose incidence exceeds issueIncidence,
// most frequent first.
func commonIssues(counts map[string]int, total int) []string {
	var issues []string
	for _, name := range model.FlagNames {
		if float64(counts[name]) > issueIncidence*float64(total) {
			issues = append(issues, name)
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return counts[issues[i]] > counts[issues[j]]
	})
	return issues
}

// improvementTrend rebuilds the trailing moving-average series: one point
// per sample, each the mean of the trendWindow most recent ratings at
// that time, truncated to the last trendPoints points.
func improvementTrend(samples []model.Sample) []float64 {
	trend := make([]float64, 0, trendPoints)
	start := 0
	if len(samples) > trendPoints {
		start = len(samples) - trendPoints
	}
	for i := start; i < len(samples); i++ {
		lo := i + 1 - trendWindow
		if lo < 0 {
			lo = 0
		}
		var sum float64
		for _, s := range samples[lo : i+1] {
			sum += float64(s.Rating)
		}
		trend = append(trend, sum/float64(i+1-lo))
	}
	return trend
}

// bumpPatch increments the patch component of a semantic version string.
// An unparseable version is returned unchanged rather than reset, so
// retrain history is never silently discarded.
func bumpPatch(version string) string {
	var major, minor, patch int
	if _, err := fmt.Sscanf(version, "%d.%d.%d", &major, &minor, &patch); err != nil {
		return version
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch+1)
}
