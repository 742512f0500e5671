// Package tcgdex implements the catalog.Service adapter for the multilingual
// provider. Its upstream serves localized card data with no pricing blocks
// and no bulk lookup endpoint, so bulk resolution fans out per ID.
package tcgdex

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cardbinder/cardbinder/internal/transport"
	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

// DefaultBaseURL is the production endpoint, already scoped to a language.
const DefaultBaseURL = "https://api.tcgdex.net/v2/en"

// bulkConcurrency bounds the per-ID fan-out in CardsByIDs.
const bulkConcurrency = 8

const providerName = string(catalog.ProviderIDTCGdex)

// Client implements catalog.Service against the multilingual provider.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithTransport replaces the transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.transport = t }
}

// New creates a new multilingual provider adapter. The upstream requires no
// authentication.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		transport: transport.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the provider this adapter fronts.
func (c *Client) ID() catalog.ProviderID { return catalog.ProviderIDTCGdex }

// ListSets returns all sets, newest-release-first.
func (c *Client) ListSets(ctx context.Context) ([]catalog.CardSet, error) {
	var result []setBrief
	if err := c.get(ctx, c.baseURL+"/sets", &result); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("provider", providerName).Msg("failed to list sets")
		return []catalog.CardSet{}, errors.WrapAPI(providerName, 0, err)
	}

	sets := make([]catalog.CardSet, 0, len(result))
	for _, s := range result {
		sets = append(sets, s.toSet())
	}
	catalog.SortSetsByReleaseDesc(sets)
	return sets, nil
}

// ListSetsBySeries groups ListSets output by series. Sets whose upstream
// record lacks a serie land in the Unknown bucket.
func (c *Client) ListSetsBySeries(ctx context.Context) (map[string][]catalog.CardSet, error) {
	sets, err := c.ListSets(ctx)
	if err != nil {
		return map[string][]catalog.CardSet{}, err
	}
	return catalog.GroupSetsBySeries(sets), nil
}

// SearchCardsByName matches cards by name substring, the upstream's native
// search semantics.
func (c *Client) SearchCardsByName(ctx context.Context, query string) ([]catalog.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []catalog.Card{}, nil
	}

	searchURL := c.baseURL + "/cards?name=" + url.QueryEscape(query)
	var result []cardBrief
	if err := c.get(ctx, searchURL, &result); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("provider", providerName).Str("query", query).Msg("card search failed")
		return []catalog.Card{}, errors.WrapAPI(providerName, 0, err)
	}

	cards := make([]catalog.Card, 0, len(result))
	for _, cb := range result {
		cards = append(cards, cb.toCard())
	}
	return cards, nil
}

// CardSuggestions returns up to MaxSuggestions lightweight matches.
func (c *Client) CardSuggestions(ctx context.Context, query string) ([]catalog.CardSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < catalog.MinSuggestionQueryLen {
		return []catalog.CardSuggestion{}, nil
	}

	cards, err := c.SearchCardsByName(ctx, query)
	if err != nil {
		return []catalog.CardSuggestion{}, err
	}

	if len(cards) > catalog.MaxSuggestions {
		cards = cards[:catalog.MaxSuggestions]
	}
	suggestions := make([]catalog.CardSuggestion, 0, len(cards))
	for i := range cards {
		suggestions = append(suggestions, cards[i].Suggestion())
	}
	return suggestions, nil
}

// SetByID fetches one set plus its card list in a single upstream call.
func (c *Client) SetByID(ctx context.Context, id string) (*catalog.CardSet, error) {
	var result setFull
	if err := c.get(ctx, c.baseURL+"/sets/"+url.PathEscape(id), &result); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("set", id)
		}
		return nil, errors.WrapAPI(providerName, 0, err)
	}

	set := result.setBrief.toSet()
	set.Cards = make([]catalog.Card, 0, len(result.Cards))
	for _, cb := range result.Cards {
		card := cb.toCard()
		card.SetID = set.ID
		card.SetName = set.Name
		card.ReleaseDate = set.ReleaseDate
		set.Cards = append(set.Cards, card)
	}
	return &set, nil
}

// CardByID fetches one card.
func (c *Client) CardByID(ctx context.Context, id string) (*catalog.Card, error) {
	var result cardFull
	if err := c.get(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &result); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("card", id)
		}
		return nil, errors.WrapAPI(providerName, 0, err)
	}
	card := result.toCard()
	return &card, nil
}

// CardsByIDs resolves cards one by one because the upstream has no bulk
// endpoint. Lookups fan out concurrently; each is awaited independently and
// a failing lookup never aborts its siblings; the failed ID is simply
// absent from the result.
func (c *Client) CardsByIDs(ctx context.Context, ids []string) ([]catalog.Card, error) {
	if len(ids) == 0 {
		return []catalog.Card{}, nil
	}

	var (
		mu    sync.Mutex
		cards = make([]catalog.Card, 0, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			card, err := c.CardByID(gctx, id)
			if err != nil {
				logging.Ctx(ctx).Debug().Err(err).Str("card_id", id).Msg("card resolution failed")
				return nil // fold into the missing set, do not abort siblings
			}
			mu.Lock()
			cards = append(cards, *card)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return cards, nil
}

// NormalizeID is currently the identity. TCGdex IDs share the set-prefix
// shape of the canonical space but are not guaranteed to coincide with it;
// a real transform depends on the cross-provider mapping backfill handled by
// the idmap layer.
func (c *Client) NormalizeID(id string) string { return id }

// DenormalizeID is the identity counterpart of NormalizeID.
func (c *Client) DenormalizeID(id string) string { return id }

func (c *Client) get(ctx context.Context, url string, target any) error {
	resp, err := c.transport.Get(ctx, url)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(providerName, resp, target)
}
