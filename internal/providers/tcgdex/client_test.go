package tcgdex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
)

const setsPayload = `[
  {"id":"swsh3","name":"Darkness Ablaze","logo":"https://assets/swsh3/logo","symbol":"https://assets/swsh3/symbol",
   "releaseDate":"2020-08-14","serie":{"id":"swsh","name":"Sword & Shield"},"cardCount":{"total":201,"official":189}},
  {"id":"pmcg1","name":"Pokemon Card Game","logo":"","symbol":"",
   "releaseDate":"1996-10-20","serie":{"id":"","name":""},"cardCount":{"total":102,"official":102}}
]`

const cardPayload = `{
  "id":"swsh3-136","localId":"136","name":"Charizard VMAX","image":"https://assets/swsh3/136",
  "rarity":"Ultra Rare","types":["Fire"],
  "set":{"id":"swsh3","name":"Darkness Ablaze","releaseDate":"2020-08-14","serie":{"id":"swsh","name":"Sword & Shield"},"cardCount":{"total":201,"official":189}}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return New(WithBaseURL(server.URL)), &calls
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestListSets(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK, setsPayload))

	sets, err := client.ListSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "swsh3", sets[0].ID)
	assert.Equal(t, "Sword & Shield", sets[0].Series)
	assert.Equal(t, 189, sets[0].CardCount) // official count is authoritative
	assert.Equal(t, "https://assets/swsh3/logo/low.webp", sets[0].Logo)

	// Missing logo stays empty rather than gaining a suffix.
	assert.Equal(t, "", sets[1].Logo)
}

func TestListSetsBySeriesUnknownBucket(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK, setsPayload))

	grouped, err := client.ListSetsBySeries(context.Background())
	require.NoError(t, err)

	require.Len(t, grouped["Unknown"], 1)
	assert.Equal(t, "pmcg1", grouped["Unknown"][0].ID)

	total := 0
	for _, bucket := range grouped {
		total += len(bucket)
	}
	assert.Equal(t, 2, total)
}

func TestListSetsUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusServiceUnavailable, `{}`))

	sets, err := client.ListSets(context.Background())
	assert.Empty(t, sets)
	assert.True(t, errors.IsProviderUnavailable(err))
}

func TestSearchCardsByNameBlankQuery(t *testing.T) {
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, `[]`))

	for _, query := range []string{"", "   "} {
		cards, err := client.SearchCardsByName(context.Background(), query)
		require.NoError(t, err)
		assert.Empty(t, cards)
	}
	assert.Equal(t, int64(0), calls.Load(), "blank queries must not call upstream")
}

func TestSearchCardsByName(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK,
		`[{"id":"swsh3-136","localId":"136","name":"Charizard VMAX","image":"https://assets/swsh3/136"}]`))

	cards, err := client.SearchCardsByName(context.Background(), "charizard")
	require.NoError(t, err)
	require.Len(t, cards, 1)

	assert.Equal(t, "swsh3-136", cards[0].ID)
	assert.Equal(t, "swsh3", cards[0].SetID) // derived from the ID in brief records
	assert.Equal(t, "https://assets/swsh3/136/low.webp", cards[0].Image)
	assert.Nil(t, cards[0].Pricing, "this provider carries no pricing data")
}

func TestCardSuggestions(t *testing.T) {
	// More search hits than the suggestion cap.
	payload := `[`
	for i := 0; i < 15; i++ {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf(`{"id":"swsh3-%d","localId":"%d","name":"Charizard %d","image":"https://assets/swsh3/%d"}`, i, i, i, i)
	}
	payload += `]`
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, payload))

	// Short queries return empty without a network call.
	suggestions, err := client.CardSuggestions(context.Background(), "c")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Equal(t, int64(0), calls.Load())

	suggestions, err = client.CardSuggestions(context.Background(), "charizard")
	require.NoError(t, err)
	assert.Len(t, suggestions, catalog.MaxSuggestions)
	assert.Equal(t, "Charizard 0", suggestions[0].Name)
	assert.Equal(t, "https://assets/swsh3/0/low.webp", suggestions[0].ImageURL)
}

func TestCardByID(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK, cardPayload))

	card, err := client.CardByID(context.Background(), "swsh3-136")
	require.NoError(t, err)
	assert.Equal(t, "Charizard VMAX", card.Name)
	assert.Equal(t, "Fire", card.PrimaryType)
	assert.Equal(t, "Darkness Ablaze", card.SetName)
	assert.Nil(t, card.Pricing)
}

func TestCardsByIDsFanOutPartialFailure(t *testing.T) {
	// One ID resolves, one 404s, one 500s. The failing lookups must not
	// abort the others.
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/cards/swsh3-136"):
			_, _ = w.Write([]byte(cardPayload))
		case strings.HasSuffix(r.URL.Path, "/cards/gone-1"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	cards, err := client.CardsByIDs(context.Background(), []string{"swsh3-136", "gone-1", "broken-2"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "swsh3-136", cards[0].ID)
	assert.Equal(t, int64(3), calls.Load(), "one upstream lookup per ID")
}

func TestCardsByIDsEmptyInput(t *testing.T) {
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, `[]`))

	cards, err := client.CardsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, int64(0), calls.Load())
}

func TestSetByID(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK,
		`{"id":"swsh3","name":"Darkness Ablaze","releaseDate":"2020-08-14",
		  "serie":{"id":"swsh","name":"Sword & Shield"},"cardCount":{"total":201,"official":189},
		  "cards":[{"id":"swsh3-136","localId":"136","name":"Charizard VMAX","image":"https://assets/swsh3/136"}]}`))

	set, err := client.SetByID(context.Background(), "swsh3")
	require.NoError(t, err)
	assert.Equal(t, 189, set.CardCount)
	require.Len(t, set.Cards, 1)
	assert.Equal(t, "Darkness Ablaze", set.Cards[0].SetName)

	// Card list shorter than the authoritative count is not an error.
	assert.Less(t, len(set.Cards), set.CardCount)
}

func TestSetByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusNotFound, `{}`))

	_, err := client.SetByID(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))
}
