// Package stats derives collection statistics from a resolved collection and
// the full set catalog. Everything here is a pure function: fixed inputs
// produce identical outputs, with no clock or randomness involved (the
// date-seeded daily picks live in daily.go and vary by calendar day only).
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// SetProgress reports how far a user is into completing one set.
//
// Total comes from the catalog's authoritative printed count, not from how
// many cards a set-detail query happened to return. A set is complete only
// on exact equality; a collected count above the printed total indicates a
// counting bug upstream or locally and must not read as completion.
type SetProgress struct {
	SetID      string `json:"setId"`
	SetName    string `json:"setName"`
	Collected  int    `json:"collected"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Complete   bool   `json:"complete"`
}

// Progress computes per-set completion for every set appearing in the
// resolved collection. Output is ordered by set ID for reproducibility.
func Progress(resolved []catalog.Card, sets []catalog.CardSet) []SetProgress {
	totals := make(map[string]catalog.CardSet, len(sets))
	for _, s := range sets {
		totals[s.ID] = s
	}

	collected := make(map[string]map[string]struct{})
	for i := range resolved {
		card := &resolved[i]
		if card.SetID == "" {
			continue
		}
		if collected[card.SetID] == nil {
			collected[card.SetID] = make(map[string]struct{})
		}
		collected[card.SetID][card.ID] = struct{}{}
	}

	progress := make([]SetProgress, 0, len(collected))
	for setID, cardIDs := range collected {
		p := SetProgress{
			SetID:     setID,
			Collected: len(cardIDs),
		}
		if set, ok := totals[setID]; ok {
			p.SetName = set.Name
			p.Total = set.CardCount
		}
		if p.Total > 0 {
			p.Percentage = int(math.Round(100 * float64(p.Collected) / float64(p.Total)))
			p.Complete = p.Collected == p.Total
		}
		progress = append(progress, p)
	}

	sort.Slice(progress, func(i, j int) bool { return progress[i].SetID < progress[j].SetID })
	return progress
}

// Valuation sums trend prices across a resolved collection. Cards without
// price data are excluded from the total and from CardsWithPriceData, but
// counted in TotalCards, so callers disclose the coverage gap instead of
// presenting a misleadingly precise sum.
type Valuation struct {
	TotalValue         float64 `json:"totalValue"`
	CardsWithPriceData int     `json:"cardsWithPriceData"`
	TotalCards         int     `json:"totalCards"`
}

// Valuate computes the collection valuation triple.
func Valuate(resolved []catalog.Card) Valuation {
	v := Valuation{TotalCards: len(resolved)}
	for i := range resolved {
		if price, ok := resolved[i].TrendPrice(); ok {
			v.TotalValue += price
			v.CardsWithPriceData++
		}
	}
	return v
}

// GroupCardsBySet partitions resolved cards by set ID. Card order within a
// group preserves the input order.
func GroupCardsBySet(cards []catalog.Card) map[string][]catalog.Card {
	grouped := make(map[string][]catalog.Card)
	for _, c := range cards {
		grouped[c.SetID] = append(grouped[c.SetID], c)
	}
	return grouped
}

// FilterSetsByName keeps sets whose name contains the query,
// case-insensitively. A blank query keeps everything.
func FilterSetsByName(sets []catalog.CardSet, query string) []catalog.CardSet {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return sets
	}
	filtered := make([]catalog.CardSet, 0, len(sets))
	for _, s := range sets {
		if strings.Contains(strings.ToLower(s.Name), query) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// GroupFilteredSetsBySeries filters sets by name and groups the survivors by
// series. Series with zero matching sets are absent from the result rather
// than rendered as empty groups.
func GroupFilteredSetsBySeries(sets []catalog.CardSet, query string) map[string][]catalog.CardSet {
	return catalog.GroupSetsBySeries(FilterSetsByName(sets, query))
}
