package catalog

// Card is the uniform representation of a single collectible card,
// regardless of which provider produced it.
//
// A Card's ID is unique only within the provider that produced it.
// Cross-provider equality requires the identifier normalizer.
// Cards are rebuilt from upstream on every catalog fetch and never persisted.
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"` // preview resolution URI
	Number      string   `json:"number"` // printed number, may carry suffixes like "TG12"
	Rarity      string   `json:"rarity,omitempty"`
	PrimaryType string   `json:"primaryType,omitempty"`
	SetID       string   `json:"setId"`
	SetName     string   `json:"setName"`
	ReleaseDate string   `json:"releaseDate,omitempty"` // YYYY-MM-DD, empty when unknown
	Pricing     *Pricing `json:"pricing,omitempty"`
}

// Pricing carries zero or more provider-dependent market pricing blocks.
// The multilingual provider returns no pricing at all; its cards carry a
// nil Pricing.
type Pricing struct {
	TCGMarket  *TCGMarketPrices  `json:"tcgMarket,omitempty"`
	EuroMarket *EuroMarketPrices `json:"euroMarket,omitempty"`
}

// TCGMarketPrices is the dollar-denominated pricing block.
type TCGMarketPrices struct {
	Low       float64 `json:"low,omitempty"`
	Mid       float64 `json:"mid,omitempty"`
	High      float64 `json:"high,omitempty"`
	Market    float64 `json:"market,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// EuroMarketPrices is the euro-denominated pricing block.
type EuroMarketPrices struct {
	Low       float64 `json:"low,omitempty"`
	Trend     float64 `json:"trend,omitempty"`
	Average   float64 `json:"average,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// TrendPrice returns the card's trend price and whether the card carries one.
// The euro-market trend is authoritative; the dollar market price is used as
// a fallback when only the TCG block is present. Cards without either report
// false and are excluded from valuation totals.
func (c *Card) TrendPrice() (float64, bool) {
	if c.Pricing == nil {
		return 0, false
	}
	if em := c.Pricing.EuroMarket; em != nil && em.Trend > 0 {
		return em.Trend, true
	}
	if tm := c.Pricing.TCGMarket; tm != nil && tm.Market > 0 {
		return tm.Market, true
	}
	return 0, false
}

// CardSuggestion is a lightweight card reference for typeahead rendering.
type CardSuggestion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

const (
	// MaxSuggestions caps CardSuggestions results for low-latency typeahead.
	MaxSuggestions = 10

	// MinSuggestionQueryLen is the minimum query length that triggers an
	// upstream call for suggestions. Shorter queries return empty without
	// touching the network.
	MinSuggestionQueryLen = 2
)

// Suggestion converts a Card to its typeahead form.
func (c *Card) Suggestion() CardSuggestion {
	return CardSuggestion{ID: c.ID, Name: c.Name, ImageURL: c.Image}
}
