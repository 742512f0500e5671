// Package registry holds the active catalog provider selection. The Selector
// is an explicit, injectable object (tests run several side by side) and
// provider switching is a method call, not ambient global mutation.
package registry

import (
	"context"
	"sync"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

// PreferenceStore persists the active-provider choice across process
// restarts. ActiveProvider returns an empty ID (and no error) when no
// preference has been recorded yet.
type PreferenceStore interface {
	ActiveProvider(ctx context.Context) (catalog.ProviderID, error)
	SetActiveProvider(ctx context.Context, id catalog.ProviderID) error
}

// AdapterFactory constructs the adapter for a provider ID. Construction
// never fails for supported IDs; adapters need no upfront initialization.
type AdapterFactory func(id catalog.ProviderID) (catalog.Service, error)

// Selector tracks the active provider and hands out its adapter. Adapters
// are constructed lazily on first use and cached per provider, so callers
// holding an adapter across a switch keep a working reference; their
// in-flight queries complete against the provider they started on.
type Selector struct {
	mu       sync.RWMutex
	prefs    PreferenceStore
	factory  AdapterFactory
	activeID catalog.ProviderID
	adapters map[catalog.ProviderID]catalog.Service
}

// New creates a Selector. The persisted preference is loaded on first
// Active/SwitchTo call, not here; a missing preference falls back to
// catalog.DefaultProviderID.
func New(prefs PreferenceStore, factory AdapterFactory) *Selector {
	return &Selector{
		prefs:    prefs,
		factory:  factory,
		adapters: make(map[catalog.ProviderID]catalog.Service),
	}
}

// Active returns the active provider ID and its adapter, constructing the
// adapter if needed.
func (s *Selector) Active(ctx context.Context) (catalog.ProviderID, catalog.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		s.activeID = s.loadPreference(ctx)
	}

	adapter, err := s.adapterLocked(s.activeID)
	if err != nil {
		return "", nil, err
	}
	return s.activeID, adapter, nil
}

// SwitchTo makes the given provider active and persists the choice. A switch
// to the already-active provider is a no-op. The swap is atomic to callers:
// queries started before the switch complete against the old adapter, calls
// to Active afterwards see the new one.
func (s *Selector) SwitchTo(ctx context.Context, id catalog.ProviderID) error {
	if !id.Valid() {
		return &errors.ValidationError{Field: "provider", Value: id, Message: "unknown provider"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		s.activeID = s.loadPreference(ctx)
	}
	if s.activeID == id {
		return nil
	}

	if _, err := s.adapterLocked(id); err != nil {
		return err
	}
	s.activeID = id

	if err := s.prefs.SetActiveProvider(ctx, id); err != nil {
		// The in-memory switch stands; only durability failed.
		logging.Ctx(ctx).Warn().Err(err).Str("provider", id.String()).Msg("failed to persist provider preference")
		return errors.WrapStorage("update", "provider_preference", id.String(), err)
	}

	logging.Ctx(ctx).Info().Str("provider", id.String()).Msg("switched active catalog provider")
	return nil
}

// loadPreference reads the persisted choice, falling back to the default on
// absence or storage failure. Must be called with the lock held.
func (s *Selector) loadPreference(ctx context.Context) catalog.ProviderID {
	id, err := s.prefs.ActiveProvider(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to load provider preference, using default")
		return catalog.DefaultProviderID
	}
	if !id.Valid() {
		return catalog.DefaultProviderID
	}
	return id
}

// adapterLocked returns the cached adapter for id, constructing it on first
// use. Must be called with the lock held.
func (s *Selector) adapterLocked(id catalog.ProviderID) (catalog.Service, error) {
	if adapter, ok := s.adapters[id]; ok {
		return adapter, nil
	}
	adapter, err := s.factory(id)
	if err != nil {
		return nil, err
	}
	s.adapters[id] = adapter
	return adapter, nil
}
