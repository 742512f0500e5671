package catalog

import "sort"

// UnknownSeries is the bucket label for sets whose upstream record carries no
// recognizable series. Such sets are grouped here, never dropped.
const UnknownSeries = "Unknown"

// CardSet is a release grouping of Cards.
//
// Cards is populated only when a set is fetched individually; list views
// leave it nil. len(Cards) may be less than CardCount; upstream data
// incompleteness is expected, not an error.
type CardSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"` // YYYY-MM-DD, empty when unknown
	Logo        string `json:"logo,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	CardCount   int    `json:"cardCount"` // authoritative printed total
	Cards       []Card `json:"cards,omitempty"`
}

// SortSetsByReleaseDesc orders sets newest-release-first, in place.
// Sets without a release date sort last; ties break on ID for determinism.
func SortSetsByReleaseDesc(sets []CardSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i].ReleaseDate, sets[j].ReleaseDate
		if a == b {
			return sets[i].ID < sets[j].ID
		}
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a > b
	})
}

// GroupSetsBySeries partitions sets into buckets keyed by series label.
// Every input set lands in exactly one bucket; sets with a missing series
// land in the UnknownSeries bucket. Bucket order within a series preserves
// the input order.
func GroupSetsBySeries(sets []CardSet) map[string][]CardSet {
	grouped := make(map[string][]CardSet)
	for _, s := range sets {
		series := s.Series
		if series == "" {
			series = UnknownSeries
		}
		grouped[series] = append(grouped[series], s)
	}
	return grouped
}
