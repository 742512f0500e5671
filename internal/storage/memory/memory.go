// Package memory provides in-memory implementations of the storage
// interfaces. They back the CLI's no-database mode and the test suites; the
// postgres package provides the durable equivalents.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/export"
	"github.com/cardbinder/cardbinder/pkg/idmap"
)

// OwnedCardStore is an in-memory collection.OwnedCardStore.
type OwnedCardStore struct {
	mu      sync.RWMutex
	records map[string][]collection.OwnedCardRecord // userID -> insertion order
}

// NewOwnedCardStore creates an empty store.
func NewOwnedCardStore() *OwnedCardStore {
	return &OwnedCardStore{records: make(map[string][]collection.OwnedCardRecord)}
}

// List returns the user's records in insertion order.
func (s *OwnedCardStore) List(_ context.Context, userID string) ([]collection.OwnedCardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[userID]
	out := make([]collection.OwnedCardRecord, len(records))
	copy(out, records)
	return out, nil
}

// Add inserts a record; inserting an existing (user, card) pair is a no-op
// success.
func (s *OwnedCardStore) Add(_ context.Context, rec collection.OwnedCardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records[rec.UserID] {
		if existing.CardID == rec.CardID {
			return nil
		}
	}
	s.records[rec.UserID] = append(s.records[rec.UserID], rec)
	return nil
}

// Remove deletes by exact pair; an absent pair is a no-op success.
func (s *OwnedCardStore) Remove(_ context.Context, userID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records[userID]
	for i, rec := range records {
		if rec.CardID == cardID {
			s.records[userID] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

// MappingStore is an in-memory idmap.MappingStore.
type MappingStore struct {
	mu       sync.RWMutex
	mappings []idmap.Mapping
}

// NewMappingStore creates an empty store.
func NewMappingStore() *MappingStore {
	return &MappingStore{}
}

// Lookup matches an ID against either provider column.
func (s *MappingStore) Lookup(_ context.Context, id string) (*idmap.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.mappings {
		if s.mappings[i].PTCGID == id || s.mappings[i].TCGdexID == id {
			m := s.mappings[i]
			return &m, nil
		}
	}
	return nil, errors.NewNotFoundError("id_mapping", id)
}

// Upsert inserts or replaces the row for the mapping's ID pair.
func (s *MappingStore) Upsert(_ context.Context, m idmap.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.mappings {
		if s.mappings[i].PTCGID == m.PTCGID && s.mappings[i].TCGdexID == m.TCGdexID {
			s.mappings[i] = m
			return nil
		}
	}
	s.mappings = append(s.mappings, m)
	return nil
}

// ExportStore is an in-memory export.Store.
type ExportStore struct {
	mu        sync.RWMutex
	snapshots map[string]export.Snapshot
}

// NewExportStore creates an empty store.
func NewExportStore() *ExportStore {
	return &ExportStore{snapshots: make(map[string]export.Snapshot)}
}

// Insert records a snapshot.
func (s *ExportStore) Insert(_ context.Context, snap export.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.ID] = snap
	return nil
}

// Get returns a snapshot by ID.
func (s *ExportStore) Get(_ context.Context, id string) (*export.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return nil, errors.NewNotFoundError("export", id)
	}
	return &snap, nil
}

// ListByUser returns the user's snapshots, newest first.
func (s *ExportStore) ListByUser(_ context.Context, userID string) ([]export.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []export.Snapshot
	for _, snap := range s.snapshots {
		if snap.UserID == userID {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a snapshot row; an absent row is a no-op success.
func (s *ExportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}

// PreferenceStore is an in-memory registry.PreferenceStore.
type PreferenceStore struct {
	mu     sync.RWMutex
	active catalog.ProviderID
}

// NewPreferenceStore creates a store with no recorded preference.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{}
}

// ActiveProvider returns the recorded preference, or empty when none exists.
func (s *PreferenceStore) ActiveProvider(_ context.Context) (catalog.ProviderID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, nil
}

// SetActiveProvider records the preference.
func (s *PreferenceStore) SetActiveProvider(_ context.Context, id catalog.ProviderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	return nil
}
