// Package settings persists the wallet UI preferences and derives the theme
// variables the UI document applies.
package settings

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/kvstore"
)

// Applier receives the settings after every successful write.
type Applier interface {
	Apply(s Settings)
}

type Store struct {
	mu      sync.Mutex
	kv      kvstore.Store
	applier Applier
	key     string
}

// NewStore wraps kv. applier may be nil.
func NewStore(kv kvstore.Store, applier Applier) *Store {
	return &Store{
		kv:      kv,
		applier: applier,
		key:     constants.SettingsKey,
	}
}

// Get returns the stored settings merged onto the defaults. Read and parse
// failures are logged and yield the defaults.
func (s *Store) Get(ctx context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Update merges patch onto the current settings and persists the result.
func (s *Store) Update(ctx context.Context, patch Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.load(ctx))
	if err := s.save(ctx, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// Reset overwrites the stored settings with the defaults.
func (s *Store) Reset(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := Defaults()
	if err := s.save(ctx, def); err != nil {
		return Settings{}, err
	}
	return def, nil
}

// ApplyCurrent pushes the current settings to the applier without writing.
func (s *Store) ApplyCurrent(ctx context.Context) {
	cur := s.Get(ctx)
	if s.applier != nil {
		s.applier.Apply(cur)
	}
}

func (s *Store) load(ctx context.Context) Settings {
	out := Defaults()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Error("settings: read failed, using defaults", "error", err)
		}
		return out
	}

	// decoding onto the defaults fills every key the stored object lacks
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("settings: parse failed, using defaults", "error", err)
		return Defaults()
	}
	return out
}

func (s *Store) save(ctx context.Context, v Settings) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}
	if err := s.kv.Set(ctx, s.key, b); err != nil {
		return errors.Wrap(err, "persist settings")
	}
	if s.applier != nil {
		s.applier.Apply(v)
	}
	return nil
}
