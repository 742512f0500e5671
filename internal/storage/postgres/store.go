package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/export"
	"github.com/cardbinder/cardbinder/pkg/idmap"
)

// Store implements collection.OwnedCardStore, idmap.MappingStore,
// export.Store, and registry.PreferenceStore on one connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// preferenceScope keys the single provider-preference row. The preference is
// client-local, not per-user.
const preferenceScope = "local"

// List returns the user's owned-card records in insertion order.
func (s *Store) List(ctx context.Context, userID string) ([]collection.OwnedCardRecord, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT user_id, card_id, derived_set_id, added_at FROM owned_cards WHERE user_id=$1 ORDER BY added_at, card_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying owned cards: %w", err)
	}
	defer rows.Close()

	var records []collection.OwnedCardRecord
	for rows.Next() {
		var rec collection.OwnedCardRecord
		if err := rows.Scan(&rec.UserID, &rec.CardID, &rec.DerivedSetID, &rec.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning owned card row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Add inserts an owned-card record; a duplicate (user, card) pair is a no-op
// success.
func (s *Store) Add(ctx context.Context, rec collection.OwnedCardRecord) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO owned_cards (user_id, card_id, derived_set_id, added_at) VALUES ($1, $2, $3, $4) ON CONFLICT (user_id, card_id) DO NOTHING",
		rec.UserID, rec.CardID, rec.DerivedSetID, rec.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting owned card: %w", err)
	}
	return nil
}

// Remove deletes by exact pair; an absent pair is a no-op success.
func (s *Store) Remove(ctx context.Context, userID, cardID string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM owned_cards WHERE user_id=$1 AND card_id=$2",
		userID, cardID,
	)
	if err != nil {
		return fmt.Errorf("deleting owned card: %w", err)
	}
	return nil
}

// Lookup matches an ID against either provider column of the mapping table.
func (s *Store) Lookup(ctx context.Context, id string) (*idmap.Mapping, error) {
	var m idmap.Mapping
	err := s.pool.QueryRow(ctx,
		"SELECT ptcg_id, tcgdex_id, set_id, card_number, card_name FROM id_mappings WHERE ptcg_id=$1 OR tcgdex_id=$1",
		id,
	).Scan(&m.PTCGID, &m.TCGdexID, &m.SetID, &m.CardNumber, &m.CardName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.NewNotFoundError("id_mapping", id)
		}
		return nil, fmt.Errorf("querying id mapping: %w", err)
	}
	return &m, nil
}

// Upsert inserts or replaces the mapping row for the ID pair.
func (s *Store) Upsert(ctx context.Context, m idmap.Mapping) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO id_mappings (ptcg_id, tcgdex_id, set_id, card_number, card_name)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ptcg_id, tcgdex_id)
		 DO UPDATE SET set_id=EXCLUDED.set_id, card_number=EXCLUDED.card_number, card_name=EXCLUDED.card_name`,
		m.PTCGID, m.TCGdexID, m.SetID, m.CardNumber, m.CardName,
	)
	if err != nil {
		return fmt.Errorf("upserting id mapping: %w", err)
	}
	return nil
}

// UpsertMappings batches mapping upserts, for the eventual cross-provider
// backfill job.
func (s *Store) UpsertMappings(ctx context.Context, mappings []idmap.Mapping) error {
	batch := &pgx.Batch{}
	sql := `INSERT INTO id_mappings (ptcg_id, tcgdex_id, set_id, card_number, card_name)
	        VALUES ($1, $2, $3, $4, $5)
	        ON CONFLICT (ptcg_id, tcgdex_id)
	        DO UPDATE SET set_id=EXCLUDED.set_id, card_number=EXCLUDED.card_number, card_name=EXCLUDED.card_name`
	for _, m := range mappings {
		batch.Queue(sql, m.PTCGID, m.TCGdexID, m.SetID, m.CardNumber, m.CardName)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("executing mapping batch: %w", err)
		}
	}
	return nil
}

// Insert records an export snapshot.
func (s *Store) Insert(ctx context.Context, snap export.Snapshot) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO exports (id, user_id, name, file_type, card_count, file_path, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		snap.ID, snap.UserID, snap.Name, string(snap.Format), snap.CardCount, snap.FilePath, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting export: %w", err)
	}
	return nil
}

// Get returns an export snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (*export.Snapshot, error) {
	var snap export.Snapshot
	var fileType string
	err := s.pool.QueryRow(ctx,
		"SELECT id, user_id, name, file_type, card_count, file_path, created_at FROM exports WHERE id=$1",
		id,
	).Scan(&snap.ID, &snap.UserID, &snap.Name, &fileType, &snap.CardCount, &snap.FilePath, &snap.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.NewNotFoundError("export", id)
		}
		return nil, fmt.Errorf("querying export: %w", err)
	}
	snap.Format = export.Format(fileType)
	return &snap, nil
}

// ListByUser returns the user's export snapshots, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]export.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, user_id, name, file_type, card_count, file_path, created_at FROM exports WHERE user_id=$1 ORDER BY created_at DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	var snapshots []export.Snapshot
	for rows.Next() {
		var snap export.Snapshot
		var fileType string
		if err := rows.Scan(&snap.ID, &snap.UserID, &snap.Name, &fileType, &snap.CardCount, &snap.FilePath, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		snap.Format = export.Format(fileType)
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// Delete removes an export row; an absent row is a no-op success.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM exports WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("deleting export: %w", err)
	}
	return nil
}

// ActiveProvider returns the persisted provider preference, or empty when
// none has been recorded.
func (s *Store) ActiveProvider(ctx context.Context) (catalog.ProviderID, error) {
	var provider string
	err := s.pool.QueryRow(ctx,
		"SELECT provider FROM preferences WHERE user_scope=$1", preferenceScope,
	).Scan(&provider)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("querying provider preference: %w", err)
	}
	return catalog.ProviderID(provider), nil
}

// SetActiveProvider persists the provider preference.
func (s *Store) SetActiveProvider(ctx context.Context, id catalog.ProviderID) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO preferences (user_scope, provider) VALUES ($1, $2) ON CONFLICT (user_scope) DO UPDATE SET provider=EXCLUDED.provider",
		preferenceScope, string(id),
	)
	if err != nil {
		return fmt.Errorf("persisting provider preference: %w", err)
	}
	return nil
}
