package stats

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// SetsOfTheDay picks n featured sets for the given calendar day. The pick is
// seeded by the date alone, so every caller sees the same selection all day
// and a fresh one the next. Returns all sets when n covers the catalog.
func SetsOfTheDay(sets []catalog.CardSet, day time.Time, n int) []catalog.CardSet {
	if n <= 0 || len(sets) == 0 {
		return []catalog.CardSet{}
	}
	if n >= len(sets) {
		out := make([]catalog.CardSet, len(sets))
		copy(out, sets)
		return out
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(day.Format("2006-01-02")))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	picks := rng.Perm(len(sets))[:n]
	out := make([]catalog.CardSet, 0, n)
	for _, idx := range picks {
		out = append(out, sets[idx])
	}
	return out
}
