package catalog

import "context"

// ProviderID identifies one upstream catalog data source.
type ProviderID string

// The closed set of supported catalog providers. Adding a provider means
// adding an ID here and an adapter implementing Service; callers never
// subclass or duck-type around this set.
const (
	// ProviderIDPTCG is the pricing-rich provider: dollar and euro market
	// pricing blocks on every card, native bulk lookup.
	ProviderIDPTCG ProviderID = "ptcg"

	// ProviderIDTCGdex is the multilingual provider: localized card data,
	// no pricing, no bulk endpoint.
	ProviderIDTCGdex ProviderID = "tcgdex"
)

// DefaultProviderID is used when no provider preference has been persisted.
var DefaultProviderID = ProviderIDPTCG

// Valid reports whether the ID names a supported provider.
func (id ProviderID) Valid() bool {
	return id == ProviderIDPTCG || id == ProviderIDTCGdex
}

// String returns the provider ID as a string.
func (id ProviderID) String() string { return string(id) }

// Service is the uniform catalog contract implemented by every provider
// adapter. All read operations translate upstream transport or non-2xx
// failures into pkg/errors values (ErrProviderUnavailable, ErrNotFound) at
// the adapter boundary; no raw upstream error crosses this interface.
type Service interface {
	// ID returns the provider this adapter fronts.
	ID() ProviderID

	// ListSets returns all sets, sorted newest-release-first. On upstream
	// failure it returns an empty list alongside an error satisfying
	// errors.IsProviderUnavailable.
	ListSets(ctx context.Context) ([]CardSet, error)

	// ListSetsBySeries groups ListSets output by series. Sets missing a
	// series land in the UnknownSeries bucket, never dropped.
	ListSetsBySeries(ctx context.Context) (map[string][]CardSet, error)

	// SearchCardsByName matches cards by name per the provider's native
	// search semantics. Empty or whitespace-only queries return an empty
	// list without calling upstream.
	SearchCardsByName(ctx context.Context, query string) ([]Card, error)

	// CardSuggestions is SearchCardsByName capped at MaxSuggestions and
	// reduced to typeahead fields. Queries shorter than
	// MinSuggestionQueryLen return empty without a network call.
	CardSuggestions(ctx context.Context, query string) ([]CardSuggestion, error)

	// SetByID fetches one set plus its full card list. Returns an error
	// satisfying errors.IsNotFound when the set does not exist.
	SetByID(ctx context.Context, id string) (*CardSet, error)

	// CardByID fetches one card. Returns an error satisfying
	// errors.IsNotFound when the card does not exist.
	CardByID(ctx context.Context, id string) (*Card, error)

	// CardsByIDs bulk-resolves cards. Individual resolution failures are
	// tolerated: a batch that partially fails returns the subset that
	// succeeded and no error. Output order is unspecified.
	CardsByIDs(ctx context.Context, ids []string) ([]Card, error)

	// NormalizeID maps a provider-native ID to the shared canonical form.
	// DenormalizeID is its inverse. Identity for providers whose native ID
	// space already is the canonical one.
	NormalizeID(id string) string
	DenormalizeID(id string) string
}
