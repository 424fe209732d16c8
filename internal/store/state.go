package store

import (
	"context"
	"sync"

	"github.com/kapu/voicebot-go/internal/domain"
)

// State owns the live configuration. All reads and writes go through View and
// Update so that mutations are serialized and persisted one at a time.
type State struct {
	mu    sync.Mutex
	cfg   *domain.Configuration
	store Store
}

// NewState loads the configuration from store.
func NewState(ctx context.Context, store Store) *State {
	cfg := store.Load(ctx)
	if cfg == nil {
		cfg = domain.NewConfiguration()
	}
	return &State{cfg: cfg, store: store}
}

// View runs fn with read access to the configuration. fn must not retain cfg.
func (s *State) View(fn func(cfg *domain.Configuration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cfg)
}

// Snapshot returns a deep copy of the current configuration.
func (s *State) Snapshot() *domain.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Update runs fn with write access. When fn reports a change the whole
// configuration is saved; the save error, if any, is returned.
func (s *State) Update(ctx context.Context, fn func(cfg *domain.Configuration) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn(s.cfg) {
		return nil
	}
	return s.store.Save(ctx, s.cfg)
}
