package collection

import (
	"context"
	"time"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// OwnedCardRecord is a user's claim of possessing one card. CardID is the
// raw provider-native ID at time of addition; the record itself is
// provider-independent and survives provider switches untouched.
type OwnedCardRecord struct {
	UserID       string    `json:"userId"`
	CardID       string    `json:"cardId"`
	DerivedSetID string    `json:"derivedSetId"` // catalog.DeriveSetID(CardID), captured at add-time
	AddedAt      time.Time `json:"addedAt"`
}

// NewOwnedCardRecord builds a record for a user/card pair, deriving the set
// ID by the documented convention.
func NewOwnedCardRecord(userID, cardID string) OwnedCardRecord {
	return OwnedCardRecord{
		UserID:       userID,
		CardID:       cardID,
		DerivedSetID: catalog.DeriveSetID(cardID),
		AddedAt:      time.Now().UTC(),
	}
}

// OwnedCardStore persists OwnedCardRecords keyed by (UserID, CardID).
//
// List returns records in insertion order. Add is idempotent: inserting an
// existing pair is a success that leaves exactly one record. Remove deletes
// by exact pair and is a no-op success when the pair is absent. The
// reconciler only ever reads; mutation happens through Add/Remove alone.
type OwnedCardStore interface {
	List(ctx context.Context, userID string) ([]OwnedCardRecord, error)
	Add(ctx context.Context, rec OwnedCardRecord) error
	Remove(ctx context.Context, userID, cardID string) error
}
