package trainer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/enhancekit/enhancekit/internal/model"
)

// ErrBadState is returned when an import blob cannot be parsed or fails
// validation. The existing state is left untouched.
var ErrBadState = errors.New("malformed trainer state")

// Export serializes the full trainer state as a JSON blob suitable for
// Import on any other trainer instance.
func (t *Trainer) Export() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, err := json.MarshalIndent(t.state(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trainer state: %w", err)
	}
	return b, nil
}

// Import replaces all trainer state with the contents of an exported
// blob. The blob is parsed and validated fully before any state changes,
// so a malformed blob never partially mutates the trainer. The imported
// state is persisted before returning.
func (t *Trainer) Import(ctx context.Context, blob []byte) error {
	var state State
	if err := json.Unmarshal(blob, &state); err != nil {
		return fmt.Errorf("%w: %v", ErrBadState, err)
	}
	for i, s := range state.Samples {
		if err := model.ValidateRating(s.Rating); err != nil {
			return fmt.Errorf("%w: sample %d: %v", ErrBadState, i, err)
		}
		if err := s.Params.Validate(); err != nil {
			return fmt.Errorf("%w: sample %d: %v", ErrBadState, i, err)
		}
	}
	if state.Version == "" {
		state.Version = initialVersion
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = state.Samples
	t.version = state.Version
	t.perf = recompute(t.samples, model.Performance{BestParams: model.DefaultParameters()})

	if err := t.store.Save(ctx, t.state()); err != nil {
		return fmt.Errorf("persist imported state: %w", err)
	}
	return nil
}
