// Package collection tracks which cards a user owns and reconciles that
// ownership list against whichever catalog provider is active. Ownership is
// a set of opaque card IDs; card metadata is fetched independently and may
// fail independently, so reconciliation reports partial results structurally
// instead of failing whole.
package collection

import (
	"context"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/idmap"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

// Resolution is the outcome of reconciling an ownership list against the
// active provider. Every distinct owned ID lands in exactly one of the two
// slots: ResolvedCards for IDs the provider resolved, UnresolvedIDs (raw
// stored IDs) for upstream deletions, provider mismatches, and transient
// failures. len(ResolvedCards)+len(UnresolvedIDs) always equals the distinct
// owned-ID count.
type Resolution struct {
	ResolvedCards []catalog.Card `json:"resolvedCards"`
	UnresolvedIDs []string       `json:"unresolvedIds"`
}

// Reconciler resolves ownership lists and owns the collection's write side.
type Reconciler struct {
	store      OwnedCardStore
	normalizer *idmap.Normalizer
}

// New creates a Reconciler over the given store and normalizer.
func New(store OwnedCardStore, normalizer *idmap.Normalizer) *Reconciler {
	return &Reconciler{store: store, normalizer: normalizer}
}

// ResolveCollection fetches the user's owned IDs, translates each into the
// active provider's ID space, and bulk-resolves them through the adapter.
// An empty collection returns immediately with both slots empty and no
// network traffic.
func (r *Reconciler) ResolveCollection(ctx context.Context, userID string, adapter catalog.Service) (*Resolution, error) {
	records, err := r.store.List(ctx, userID)
	if err != nil {
		return nil, errors.WrapStorage("query", "owned_card", userID, err)
	}

	resolution := &Resolution{
		ResolvedCards: []catalog.Card{},
		UnresolvedIDs: []string{},
	}
	if len(records) == 0 {
		return resolution, nil
	}

	// Distinct raw IDs in insertion order. The store's pair uniqueness
	// should make this a no-op; it guards the counting guarantee anyway.
	rawIDs := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.CardID]; dup {
			continue
		}
		seen[rec.CardID] = struct{}{}
		rawIDs = append(rawIDs, rec.CardID)
	}

	// Translate each stored ID into the active provider's space. rawByNorm
	// maps back so unresolved IDs are reported as stored.
	target := adapter.ID()
	normIDs := make([]string, 0, len(rawIDs))
	rawByNorm := make(map[string][]string, len(rawIDs))
	for _, raw := range rawIDs {
		norm, err := r.normalizer.Translate(ctx, raw, target)
		if err != nil {
			// Mapping lookup failed; fall through on the identity so the
			// ID still participates in resolution.
			logging.Ctx(ctx).Warn().Err(err).Str("card_id", raw).Msg("id translation failed, using identity")
			norm = raw
		}
		if _, ok := rawByNorm[norm]; !ok {
			normIDs = append(normIDs, norm)
		}
		rawByNorm[norm] = append(rawByNorm[norm], raw)
	}

	cards, err := adapter.CardsByIDs(ctx, normIDs)
	if err != nil {
		// Adapters tolerate partial failure internally; a bulk-level error
		// still leaves every owned ID accounted for as unresolved.
		logging.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("bulk card resolution failed")
		cards = nil
	}

	resolvedNorm := make(map[string]struct{}, len(cards))
	for i := range cards {
		norm := adapter.NormalizeID(cards[i].ID)
		if _, expected := rawByNorm[norm]; !expected {
			// A card we never asked for would break the count guarantee.
			logging.Ctx(ctx).Warn().Str("card_id", cards[i].ID).Msg("dropping unexpected card from bulk resolution")
			continue
		}
		if _, dup := resolvedNorm[norm]; dup {
			continue
		}
		resolvedNorm[norm] = struct{}{}
		resolution.ResolvedCards = append(resolution.ResolvedCards, cards[i])
	}

	for _, norm := range normIDs {
		raws := rawByNorm[norm]
		if _, ok := resolvedNorm[norm]; ok {
			// Several raw IDs collapsing onto one provider ID yield one
			// resolved card; the extra raw IDs stay visible as unresolved.
			raws = raws[1:]
		}
		resolution.UnresolvedIDs = append(resolution.UnresolvedIDs, raws...)
	}

	return resolution, nil
}

// AddCard records ownership of a card. Adding an already-owned card is a
// success, not a conflict.
func (r *Reconciler) AddCard(ctx context.Context, userID, cardID string) error {
	if userID == "" || cardID == "" {
		return &errors.ValidationError{Field: "owned_card", Message: "user ID and card ID are required"}
	}
	if err := r.store.Add(ctx, NewOwnedCardRecord(userID, cardID)); err != nil {
		return errors.WrapStorage("insert", "owned_card", cardID, err)
	}
	return nil
}

// RemoveCard deletes ownership of a card by exact (user, card) pair.
// Removing a card the user never owned is a no-op success.
func (r *Reconciler) RemoveCard(ctx context.Context, userID, cardID string) error {
	if userID == "" || cardID == "" {
		return &errors.ValidationError{Field: "owned_card", Message: "user ID and card ID are required"}
	}
	if err := r.store.Remove(ctx, userID, cardID); err != nil {
		return errors.WrapStorage("delete", "owned_card", cardID, err)
	}
	return nil
}
