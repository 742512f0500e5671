// Package idmap translates card identifiers between the two providers' ID
// spaces. Collection records store raw IDs captured under whichever provider
// was active at add-time; this layer keeps them resolvable after a provider
// switch. Absent mappings are the default state, not an error; the
// normalizer then falls back to identity.
package idmap

import (
	"context"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
)

// Mapping is one translation record between the two providers' IDs for the
// same physical card. At most one row exists per (PTCGID, TCGdexID) pair.
type Mapping struct {
	PTCGID     string
	TCGdexID   string
	SetID      string
	CardNumber string
	CardName   string
}

// other returns the counterpart ID for the given provider's space.
func (m *Mapping) other(target catalog.ProviderID) string {
	if target == catalog.ProviderIDTCGdex {
		return m.TCGdexID
	}
	return m.PTCGID
}

// MappingStore persists Mapping rows. Lookup matches an ID against either
// provider column and returns an error satisfying errors.IsNotFound when no
// row matches. Upsert is idempotent on the ID pair.
type MappingStore interface {
	Lookup(ctx context.Context, id string) (*Mapping, error)
	Upsert(ctx context.Context, m Mapping) error
}

// Normalizer resolves IDs across provider spaces through a MappingStore.
// Reads are side-effect-free: a lookup never creates a mapping.
type Normalizer struct {
	store MappingStore
}

// New creates a Normalizer over the given store.
func New(store MappingStore) *Normalizer {
	return &Normalizer{store: store}
}

// Translate maps an ID from whichever space it was captured in to the target
// provider's space. With no mapping on file the ID is returned unchanged;
// the stored ID is treated as canonical by default, which keeps collections
// intact (if only best-effort resolvable) across provider switches.
func (n *Normalizer) Translate(ctx context.Context, id string, target catalog.ProviderID) (string, error) {
	m, err := n.store.Lookup(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return id, nil
		}
		return id, errors.WrapStorage("query", "id_mapping", id, err)
	}

	if counterpart := m.other(target); counterpart != "" {
		return counterpart, nil
	}
	return id, nil
}

// RecordMapping upserts a mapping row. Recording the same pair again is a
// no-op success.
func (n *Normalizer) RecordMapping(ctx context.Context, m Mapping) error {
	if m.PTCGID == "" || m.TCGdexID == "" {
		return &errors.ValidationError{Field: "mapping", Message: "both provider IDs are required"}
	}
	if err := n.store.Upsert(ctx, m); err != nil {
		return errors.WrapStorage("upsert", "id_mapping", m.PTCGID, err)
	}
	return nil
}

// BackfillMappings will populate the mapping table by matching cards across
// providers on (set equivalent, card number, fuzzy name). The matching job
// is not built yet; callers depend only on MappingStore, so it can land
// without interface changes.
//
// TODO: implement the batch matcher once set-level correspondence data for
// the two providers is curated.
func (n *Normalizer) BackfillMappings(ctx context.Context, a, b catalog.Service) error {
	return errors.ErrNotImplemented
}
