package ptcg

import (
	"strings"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// The PTCG API wraps every payload in a data envelope.

type setListResponse struct {
	Data []setData `json:"data"`
}

type setResponse struct {
	Data setData `json:"data"`
}

type cardListResponse struct {
	Data []cardData `json:"data"`
}

type cardResponse struct {
	Data cardData `json:"data"`
}

type setData struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Series       string    `json:"series"`
	PrintedTotal int       `json:"printedTotal"`
	Total        int       `json:"total"`
	ReleaseDate  string    `json:"releaseDate"` // "2020/08/14"
	Images       setImages `json:"images"`
}

type setImages struct {
	Symbol string `json:"symbol"`
	Logo   string `json:"logo"`
}

type cardData struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Number     string      `json:"number"`
	Rarity     string      `json:"rarity"`
	Types      []string    `json:"types"`
	Set        setData     `json:"set"`
	Images     cardImages  `json:"images"`
	TCGPlayer  *tcgplayer  `json:"tcgplayer"`
	CardMarket *cardmarket `json:"cardmarket"`
}

type cardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type tcgplayer struct {
	UpdatedAt string                    `json:"updatedAt"`
	Prices    map[string]variantPrices `json:"prices"`
}

// variantPrices is one tcgplayer finish variant (normal, holofoil, ...).
type variantPrices struct {
	Low    float64 `json:"low"`
	Mid    float64 `json:"mid"`
	High   float64 `json:"high"`
	Market float64 `json:"market"`
}

type cardmarket struct {
	UpdatedAt string `json:"updatedAt"`
	Prices    struct {
		AverageSellPrice float64 `json:"averageSellPrice"`
		LowPrice         float64 `json:"lowPrice"`
		TrendPrice       float64 `json:"trendPrice"`
	} `json:"prices"`
}

// preferredVariants orders tcgplayer finish variants; the first present
// variant's prices represent the card.
var preferredVariants = []string{"normal", "holofoil", "reverseHolofoil", "1stEditionHolofoil", "1stEditionNormal"}

// toSet converts an upstream set record to the uniform shape.
func (s setData) toSet() catalog.CardSet {
	count := s.PrintedTotal
	if count == 0 {
		count = s.Total
	}
	return catalog.CardSet{
		ID:          s.ID,
		Name:        s.Name,
		Series:      s.Series,
		ReleaseDate: normalizeDate(s.ReleaseDate),
		Logo:        s.Images.Logo,
		Symbol:      s.Images.Symbol,
		CardCount:   count,
	}
}

// toCard converts an upstream card record to the uniform shape.
func (c cardData) toCard() catalog.Card {
	card := catalog.Card{
		ID:          c.ID,
		Name:        c.Name,
		Image:       c.Images.Small,
		Number:      c.Number,
		Rarity:      c.Rarity,
		SetID:       c.Set.ID,
		SetName:     c.Set.Name,
		ReleaseDate: normalizeDate(c.Set.ReleaseDate),
	}
	if len(c.Types) > 0 {
		card.PrimaryType = c.Types[0]
	}
	card.Pricing = c.pricing()
	return card
}

// pricing assembles the optional pricing blocks. A card may carry either,
// both, or neither.
func (c cardData) pricing() *catalog.Pricing {
	var p catalog.Pricing

	if c.TCGPlayer != nil {
		for _, variant := range preferredVariants {
			if vp, ok := c.TCGPlayer.Prices[variant]; ok {
				p.TCGMarket = &catalog.TCGMarketPrices{
					Low:       vp.Low,
					Mid:       vp.Mid,
					High:      vp.High,
					Market:    vp.Market,
					UpdatedAt: normalizeDate(c.TCGPlayer.UpdatedAt),
				}
				break
			}
		}
	}

	if c.CardMarket != nil {
		p.EuroMarket = &catalog.EuroMarketPrices{
			Low:       c.CardMarket.Prices.LowPrice,
			Trend:     c.CardMarket.Prices.TrendPrice,
			Average:   c.CardMarket.Prices.AverageSellPrice,
			UpdatedAt: normalizeDate(c.CardMarket.UpdatedAt),
		}
	}

	if p.TCGMarket == nil && p.EuroMarket == nil {
		return nil
	}
	return &p
}

// normalizeDate converts the upstream "2020/08/14" form to "2020-08-14".
func normalizeDate(d string) string {
	return strings.ReplaceAll(d, "/", "-")
}
