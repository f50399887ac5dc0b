package trainer

import (
	"context"

	"github.com/enhancekit/enhancekit/internal/model"
)

// State is the trainer's full persisted state: the sample set, the model
// version, and the derived performance view. Samples and version are the
// source of truth; performance is rebuilt from samples on load.
type State struct {
	Version     string            `json:"version"`
	Samples     []model.Sample    `json:"samples"`
	Performance model.Performance `json:"performance"`
}

// Store persists trainer state. The trainer loads once at construction
// and saves after every mutation; any backing medium can implement it.
type Store interface {
	// Load returns the persisted state, or nil if nothing was saved yet.
	Load(ctx context.Context) (*State, error)

	// Save replaces the persisted state with the given snapshot.
	Save(ctx context.Context, state *State) error

	// Close releases store resources.
	Close() error
}

// MemStore keeps state in memory. Used for tests and for embeddings that
// manage persistence themselves through Export/Import.
type MemStore struct {
	state *State
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Load(ctx context.Context) (*State, error) {
	return m.state, nil
}

func (m *MemStore) Save(ctx context.Context, state *State) error {
	m.state = state
	return nil
}

func (m *MemStore) Close() error { return nil }
