package tcgdex

import "github.com/cardbinder/cardbinder/pkg/catalog"

// The TCGdex API returns bare JSON (no envelope). List endpoints return
// brief records; detail endpoints return the full shape. Image fields hold a
// base path that needs a quality/extension suffix appended.

type setBrief struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Logo        string    `json:"logo"`
	Symbol      string    `json:"symbol"`
	ReleaseDate string    `json:"releaseDate"` // "2020-08-14"
	Serie       serieRef  `json:"serie"`
	CardCount   cardCount `json:"cardCount"`
}

type setFull struct {
	setBrief
	Cards []cardBrief `json:"cards"`
}

type serieRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type cardCount struct {
	Total    int `json:"total"`
	Official int `json:"official"`
}

type cardBrief struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
	Name    string `json:"name"`
	Image   string `json:"image"`
}

type cardFull struct {
	cardBrief
	Rarity string   `json:"rarity"`
	Types  []string `json:"types"`
	Set    setBrief `json:"set"`
}

// imageSuffix selects the preview resolution of a TCGdex image base path.
const imageSuffix = "/low.webp"

// imageURL appends the preview suffix to a base path; empty stays empty.
func imageURL(base string) string {
	if base == "" {
		return ""
	}
	return base + imageSuffix
}

// toSet converts an upstream set record to the uniform shape. The official
// count is the authoritative printed total; the raw total includes secret
// rares and promos beyond the printed numbering.
func (s setBrief) toSet() catalog.CardSet {
	count := s.CardCount.Official
	if count == 0 {
		count = s.CardCount.Total
	}
	return catalog.CardSet{
		ID:          s.ID,
		Name:        s.Name,
		Series:      s.Serie.Name,
		ReleaseDate: s.ReleaseDate,
		Logo:        imageURL(s.Logo),
		Symbol:      imageURL(s.Symbol),
		CardCount:   count,
	}
}

// toCard converts a brief record; only typeahead-grade fields are available.
func (c cardBrief) toCard() catalog.Card {
	return catalog.Card{
		ID:     c.ID,
		Name:   c.Name,
		Image:  imageURL(c.Image),
		Number: c.LocalID,
		SetID:  catalog.DeriveSetID(c.ID),
	}
}

// toCard converts a full record. TCGdex carries no pricing data, so the
// uniform card's Pricing stays nil.
func (c cardFull) toCard() catalog.Card {
	card := c.cardBrief.toCard()
	card.Rarity = c.Rarity
	if len(c.Types) > 0 {
		card.PrimaryType = c.Types[0]
	}
	if c.Set.ID != "" {
		card.SetID = c.Set.ID
		card.SetName = c.Set.Name
		card.ReleaseDate = c.Set.ReleaseDate
	}
	return card
}
