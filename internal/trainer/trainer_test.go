package trainer

import (
	"context"
	"math"
	"testing"

	"github.com/enhancekit/enhancekit/internal/model"
)

func newTestTrainer(t *testing.T) *Trainer {
	t.Helper()
	tr, err := New(NewMemStore())
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	return tr
}

func midChars() model.Characteristics {
	return model.Characteristics{Brightness: 0.5, Contrast: 0.2, Sharpness: 0.1, NoiseLevel: 0.05}
}

func TestRecommendEmptyReturnsDefaults(t *testing.T) {
	tr := newTestTrainer(t)

	p := tr.Recommend(midChars())
	want := model.DefaultParameters()
	if p.Sharpen != want.Sharpen || p.Contrast != want.Contrast ||
		p.Brightness != want.Brightness || p.Saturation != want.Saturation {
		t.Errorf("got %+v, want defaults %+v", p, want)
	}
	if p.Scale != 2 {
		t.Errorf("fallback scale = %d, want 2", p.Scale)
	}
	if p.Denoise {
		t.Error("denoise should be off for low-noise input")
	}
}

func TestRecommendFallbackEnablesDenoiseForNoisyInput(t *testing.T) {
	tr := newTestTrainer(t)

	c := midChars()
	c.NoiseLevel = 0.4
	if p := tr.Recommend(c); !p.Denoise {
		t.Error("expected denoise for noise level above 0.3")
	}
}

func TestRecommendBlendsSimilarSamples(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()
	c := midChars()

	low := model.Parameters{Sharpen: 0.4, Contrast: 1.0, Brightness: 1.0, Saturation: 1.0, Denoise: false, Scale: 2}
	high := model.Parameters{Sharpen: 1.2, Contrast: 1.4, Brightness: 1.2, Saturation: 1.3, Denoise: true, Scale: 2}

	if err := tr.RecordFeedback(ctx, c, low, 2, model.FeedbackFlags{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := tr.RecordFeedback(ctx, c, high, 5, model.FeedbackFlags{}); err != nil {
		t.Fatalf("record: %v", err)
	}

	p := tr.Recommend(c)

	// Blend must stay inside the contributing samples' bounds.
	if p.Sharpen < 0.4 || p.Sharpen > 1.2 {
		t.Errorf("sharpen %v outside [0.4, 1.2]", p.Sharpen)
	}
	if p.Contrast < 1.0 || p.Contrast > 1.4 {
		t.Errorf("contrast %v outside [1.0, 1.4]", p.Contrast)
	}
	// The 5-rated sample carries more weight, so the blend leans high.
	mid := (0.4 + 1.2) / 2
	if p.Sharpen <= mid {
		t.Errorf("sharpen %v should lean toward the higher-rated sample", p.Sharpen)
	}
	// Weighted denoise: (0 * 2/5 + 1 * 5/5) / (7/5) = 0.714 > 0.5.
	if !p.Denoise {
		t.Error("expected weighted denoise to round to true")
	}
	if p.Scale != 2 {
		t.Errorf("scale = %d, want 2", p.Scale)
	}
}

func TestRecommendIgnoresDissimilarSamples(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()

	far := model.Characteristics{Brightness: 0.95, Contrast: 0.9, Sharpness: 0.9, NoiseLevel: 0.9}
	odd := model.Parameters{Sharpen: 0.01, Contrast: 0.01, Brightness: 0.01, Saturation: 0.01, Denoise: true, Scale: 4}
	// Rated 2, so the sample never becomes part of best params either.
	if err := tr.RecordFeedback(ctx, far, odd, 2, model.FeedbackFlags{}); err != nil {
		t.Fatalf("record: %v", err)
	}

	// A dark, flat image shares nothing with the stored sample, so the
	// recommendation falls back to the default parameters.
	p := tr.Recommend(model.Characteristics{Brightness: 0.1, Contrast: 0.05, Sharpness: 0.02, NoiseLevel: 0.01})
	if p.Sharpen == odd.Sharpen {
		t.Error("dissimilar sample leaked into recommendation")
	}
	if p.Scale != 2 {
		t.Errorf("fallback scale = %d, want 2", p.Scale)
	}
}

func TestRecordFeedbackRejectsBadRating(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		err := tr.RecordFeedback(ctx, midChars(), model.DefaultParameters(), rating, model.FeedbackFlags{})
		if err == nil {
			t.Errorf("rating %d accepted", rating)
		}
	}
	if tr.Performance().TotalSamples != 0 {
		t.Error("rejected rating still created a sample")
	}
}

func TestPerformanceAggregates(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()
	p := model.DefaultParameters()

	ratings := []int{5, 4, 3, 2, 4}
	for _, r := range ratings {
		if err := tr.RecordFeedback(ctx, midChars(), p, r, model.FeedbackFlags{}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	perf := tr.Performance()
	if perf.TotalSamples != 5 {
		t.Errorf("total = %d, want 5", perf.TotalSamples)
	}
	if math.Abs(perf.AverageRating-3.6) > 1e-9 {
		t.Errorf("average = %v, want 3.6", perf.AverageRating)
	}
	if math.Abs(perf.SuccessRate-0.6) > 1e-9 {
		t.Errorf("success rate = %v, want 0.6", perf.SuccessRate)
	}
}

func TestBestParamsFromSuccessfulSamples(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()

	good := model.Parameters{Sharpen: 1.0, Contrast: 1.2, Brightness: 1.0, Saturation: 1.0, Denoise: true, Scale: 2}
	bad := model.Parameters{Sharpen: 0.1, Contrast: 0.5, Brightness: 0.5, Saturation: 0.5, Denoise: false, Scale: 1}

	tr.RecordFeedback(ctx, midChars(), bad, 1, model.FeedbackFlags{})
	tr.RecordFeedback(ctx, midChars(), good, 5, model.FeedbackFlags{})

	best := tr.Performance().BestParams
	if best.Sharpen != 1.0 || best.Contrast != 1.2 || !best.Denoise || best.Scale != 2 {
		t.Errorf("best params should come from the 5-rated sample only: %+v", best)
	}
}

func TestBestParamsUnchangedWithoutSuccesses(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()

	tr.RecordFeedback(ctx, midChars(), model.DefaultParameters(), 2, model.FeedbackFlags{})

	if got, want := tr.Performance().BestParams, model.DefaultParameters(); got != want {
		t.Errorf("best params drifted without any successful sample: %+v", got)
	}
}

func TestCommonIssues(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()
	p := model.DefaultParameters()

	// 3 of 10 too blurry (30% > 10%), 1 of 10 too dark (10%, not > 10%).
	for i := 0; i < 10; i++ {
		flags := model.FeedbackFlags{}
		if i < 3 {
			flags.TooBlurry = true
		}
		if i == 5 {
			flags.TooDark = true
		}
		tr.RecordFeedback(ctx, midChars(), p, 3, flags)
	}

	issues := tr.Performance().CommonIssues
	if len(issues) != 1 || issues[0] != "tooBlurry" {
		t.Errorf("common issues = %v, want [tooBlurry]", issues)
	}
}

func TestImprovementTrend(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()
	p := model.DefaultParameters()

	for i := 0; i < 30; i++ {
		rating := 2
		if i >= 15 {
			rating = 5
		}
		tr.RecordFeedback(ctx, midChars(), p, rating, model.FeedbackFlags{})
	}

	trend := tr.Performance().ImprovementTrend
	if len(trend) != 20 {
		t.Fatalf("trend length = %d, want 20", len(trend))
	}
	// Final point is the mean of the last 10 ratings, all 5s.
	if trend[len(trend)-1] != 5 {
		t.Errorf("last trend point = %v, want 5", trend[len(trend)-1])
	}
	if trend[0] >= trend[len(trend)-1] {
		t.Error("trend should rise as ratings improve")
	}
}

func TestRetrainBumpsVersionEveryFiftiethSample(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()
	p := model.DefaultParameters()

	for i := 1; i <= 49; i++ {
		tr.RecordFeedback(ctx, midChars(), p, 4, model.FeedbackFlags{})
	}
	if v := tr.Version(); v != "1.0.0" {
		t.Errorf("version bumped early: %s", v)
	}

	tr.RecordFeedback(ctx, midChars(), p, 4, model.FeedbackFlags{})
	if v := tr.Version(); v != "1.0.1" {
		t.Errorf("version after 50 samples = %s, want 1.0.1", v)
	}

	for i := 51; i <= 100; i++ {
		tr.RecordFeedback(ctx, midChars(), p, 4, model.FeedbackFlags{})
	}
	if v := tr.Version(); v != "1.0.2" {
		t.Errorf("version after 100 samples = %s, want 1.0.2", v)
	}
}

func TestBumpPatch(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1.0.0", "1.0.1"},
		{"1.0.9", "1.0.10"},
		{"2.3.4", "2.3.5"},
		// Unparseable versions pass through unchanged instead of being
		// reset, so retrain history is never discarded.
		{"experimental", "experimental"},
		{"1.0", "1.0"},
	}
	for _, c := range cases {
		if got := bumpPatch(c.in); got != c.want {
			t.Errorf("bumpPatch(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConcurrentFeedback(t *testing.T) {
	tr := newTestTrainer(t)
	ctx := context.Background()
	p := model.DefaultParameters()

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 25; i++ {
				tr.RecordFeedback(ctx, midChars(), p, 4, model.FeedbackFlags{})
			}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	perf := tr.Performance()
	if perf.TotalSamples != 100 {
		t.Errorf("total = %d, want 100", perf.TotalSamples)
	}
	if v := tr.Version(); v != "1.0.2" {
		t.Errorf("version = %s, want 1.0.2 after two retrain boundaries", v)
	}
}
