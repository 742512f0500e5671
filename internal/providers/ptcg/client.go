// Package ptcg implements the catalog.Service adapter for the pricing-rich
// provider. Its upstream speaks an enveloped JSON schema with a query
// language for search and a native bulk lookup, and decorates cards with
// both dollar- and euro-market pricing blocks.
package ptcg

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cardbinder/cardbinder/internal/transport"
	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

// DefaultBaseURL is the production endpoint for the pricing-rich provider.
const DefaultBaseURL = "https://api.pokemontcg.io/v2"

// apiKeyHeader carries the optional API key. Unauthenticated requests are
// accepted at a lower rate limit.
const apiKeyHeader = "X-Api-Key"

const providerName = string(catalog.ProviderIDPTCG)

// Client implements catalog.Service against the pricing-rich provider.
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

// New creates a new pricing-rich provider adapter. An empty apiKey is
// allowed; the upstream then serves throttled anonymous traffic.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		transport: transport.New(transport.WithAPIKey(apiKeyHeader, apiKey)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the provider this adapter fronts.
func (c *Client) ID() catalog.ProviderID { return catalog.ProviderIDPTCG }

// ListSets returns all sets, newest-release-first.
func (c *Client) ListSets(ctx context.Context) ([]catalog.CardSet, error) {
	listURL := c.baseURL + "/sets?orderBy=-releaseDate&pageSize=250"
	var result setListResponse
	if err := c.get(ctx, listURL, &result); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("provider", providerName).Msg("failed to list sets")
		return []catalog.CardSet{}, errors.WrapAPI(providerName, 0, err)
	}

	sets := make([]catalog.CardSet, 0, len(result.Data))
	for _, s := range result.Data {
		sets = append(sets, s.toSet())
	}
	catalog.SortSetsByReleaseDesc(sets)
	return sets, nil
}

// ListSetsBySeries groups ListSets output by series.
func (c *Client) ListSetsBySeries(ctx context.Context) (map[string][]catalog.CardSet, error) {
	sets, err := c.ListSets(ctx)
	if err != nil {
		return map[string][]catalog.CardSet{}, err
	}
	return catalog.GroupSetsBySeries(sets), nil
}

// SearchCardsByName matches cards whose name starts with the query, using
// the upstream query language.
func (c *Client) SearchCardsByName(ctx context.Context, query string) ([]catalog.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []catalog.Card{}, nil
	}

	searchURL := fmt.Sprintf("%s/cards?q=%s&pageSize=250",
		c.baseURL, url.QueryEscape(fmt.Sprintf("name:%q", query+"*")))
	var result cardListResponse
	if err := c.get(ctx, searchURL, &result); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("provider", providerName).Str("query", query).Msg("card search failed")
		return []catalog.Card{}, errors.WrapAPI(providerName, 0, err)
	}

	return c.toCards(result.Data), nil
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

// SetByID fetches one set plus its full card list. Two upstream requests:
// the set record and the cards query scoped to it.
func (c *Client) SetByID(ctx context.Context, id string) (*catalog.CardSet, error) {
	var setResult setResponse
	if err := c.get(ctx, c.baseURL+"/sets/"+url.PathEscape(id), &setResult); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("set", id)
		}
		return nil, errors.WrapAPI(providerName, 0, err)
	}
	set := setResult.Data.toSet()

	cardsURL := fmt.Sprintf("%s/cards?q=%s&orderBy=number&pageSize=250",
		c.baseURL, url.QueryEscape("set.id:"+id))
	var cardsResult cardListResponse
	if err := c.get(ctx, cardsURL, &cardsResult); err != nil {
		// The set record stands on its own; an incomplete card list is
		// expected upstream behavior, not an error.
		logging.Ctx(ctx).Warn().Err(err).Str("set_id", id).Msg("failed to fetch cards for set")
	} else {
		set.Cards = c.toCards(cardsResult.Data)
	}

	return &set, nil
}

// CardByID fetches one card.
func (c *Client) CardByID(ctx context.Context, id string) (*catalog.Card, error) {
	var result cardResponse
	if err := c.get(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &result); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("card", id)
		}
		return nil, errors.WrapAPI(providerName, 0, err)
	}
	card := result.Data.toCard()
	return &card, nil
}

// bulkBatchSize bounds the OR'd id terms per bulk query. The upstream caps
// pages at 250, so a larger batch would silently truncate; batching also
// keeps the query string within URL length limits.
const bulkBatchSize = 250

// CardsByIDs bulk-resolves cards using OR'd id terms, one upstream query per
// batch of bulkBatchSize IDs. IDs that resolve to nothing are simply absent
// from the result, and a failing batch folds its IDs into the missing set
// without aborting the other batches.
func (c *Client) CardsByIDs(ctx context.Context, ids []string) ([]catalog.Card, error) {
	if len(ids) == 0 {
		return []catalog.Card{}, nil
	}

	cards := make([]catalog.Card, 0, len(ids))
	for start := 0; start < len(ids); start += bulkBatchSize {
		batch := ids[start:min(start+bulkBatchSize, len(ids))]

		terms := make([]string, 0, len(batch))
		for _, id := range batch {
			terms = append(terms, "id:"+id)
		}
		bulkURL := fmt.Sprintf("%s/cards?q=%s&pageSize=%d",
			c.baseURL, url.QueryEscape("("+strings.Join(terms, " OR ")+")"), bulkBatchSize)

		var result cardListResponse
		if err := c.get(ctx, bulkURL, &result); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("provider", providerName).Int("ids", len(batch)).Msg("bulk card resolution failed")
			continue
		}
		cards = append(cards, c.toCards(result.Data)...)
	}

	return cards, nil
}

// NormalizeID is the identity: this provider's ID space is the canonical one.
func (c *Client) NormalizeID(id string) string { return id }

// DenormalizeID is the identity counterpart of NormalizeID.
func (c *Client) DenormalizeID(id string) string { return id }

func (c *Client) toCards(data []cardData) []catalog.Card {
	cards := make([]catalog.Card, 0, len(data))
	for _, cd := range data {
		cards = append(cards, cd.toCard())
	}
	return cards
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	resp, err := c.transport.Get(ctx, url)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(providerName, resp, target)
}
