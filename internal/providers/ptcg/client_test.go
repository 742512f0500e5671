package ptcg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
)

const setsPayload = `{"data":[
  {"id":"base1","name":"Base","series":"Base","printedTotal":102,"total":102,
   "releaseDate":"1999/01/09","images":{"symbol":"https://img/base1/symbol.png","logo":"https://img/base1/logo.png"}},
  {"id":"swsh3","name":"Darkness Ablaze","series":"Sword & Shield","printedTotal":189,"total":201,
   "releaseDate":"2020/08/14","images":{"symbol":"https://img/swsh3/symbol.png","logo":"https://img/swsh3/logo.png"}}
]}`

const cardPayload = `{
  "id":"swsh3-136","name":"Charizard VMAX","number":"136","rarity":"Rare Holo VMAX",
  "types":["Fire"],
  "set":{"id":"swsh3","name":"Darkness Ablaze","series":"Sword & Shield","printedTotal":189,"releaseDate":"2020/08/14"},
  "images":{"small":"https://img/swsh3/136.png","large":"https://img/swsh3/136_hires.png"},
  "tcgplayer":{"updatedAt":"2024/01/02","prices":{"holofoil":{"low":60,"mid":80,"high":200,"market":84.5}}},
  "cardmarket":{"updatedAt":"2024/01/02","prices":{"averageSellPrice":70.1,"lowPrice":55,"trendPrice":75.25}}
}`

// newTestClient wires a client to an httptest server and counts requests.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return New("", WithBaseURL(server.URL)), &calls
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

	// Newest release first, dates normalized to ISO form.
	assert.Equal(t, "swsh3", sets[0].ID)
	assert.Equal(t, "2020-08-14", sets[0].ReleaseDate)
	assert.Equal(t, 189, sets[0].CardCount) // printed total is authoritative
	assert.Equal(t, "base1", sets[1].ID)
}

func TestListSetsUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusInternalServerError, `{"error":"boom"}`))

	sets, err := client.ListSets(context.Background())
	assert.NotNil(t, sets)
	assert.Empty(t, sets)
	assert.True(t, errors.IsProviderUnavailable(err))
}

func TestListSetsBySeries(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK, setsPayload))

	grouped, err := client.ListSetsBySeries(context.Background())
	require.NoError(t, err)

	total := 0
	for _, bucket := range grouped {
		total += len(bucket)
	}
	assert.Equal(t, 2, total)
	assert.Len(t, grouped["Sword & Shield"], 1)
	assert.Len(t, grouped["Base"], 1)
}

func TestSearchCardsByNameBlankQuery(t *testing.T) {
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, `{"data":[]}`))

	for _, query := range []string{"", "   ", "\t\n"} {
		cards, err := client.SearchCardsByName(context.Background(), query)
		require.NoError(t, err)
		assert.Empty(t, cards)
	}
	assert.Equal(t, int64(0), calls.Load(), "blank queries must not call upstream")
}

func TestSearchCardsByName(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusOK, `{"data":[`+cardPayload+`]}`))

	cards, err := client.SearchCardsByName(context.Background(), "Charizard")
	require.NoError(t, err)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, "swsh3-136", card.ID)
	assert.Equal(t, "Fire", card.PrimaryType)
	assert.Equal(t, "swsh3", card.SetID)
	assert.Equal(t, "https://img/swsh3/136.png", card.Image)

	require.NotNil(t, card.Pricing)
	require.NotNil(t, card.Pricing.EuroMarket)
	assert.Equal(t, 75.25, card.Pricing.EuroMarket.Trend)
	require.NotNil(t, card.Pricing.TCGMarket)
	assert.Equal(t, 84.5, card.Pricing.TCGMarket.Market)
}

func TestCardSuggestions(t *testing.T) {
	// Build a response with more cards than the suggestion cap.
	payload := `{"data":[`
	for i := 0; i < 15; i++ {
		if i > 0 {
			payload += ","
		}
		payload += cardPayload
	}
	payload += `]}`
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, payload))

	// Short queries return empty without a network call.
	suggestions, err := client.CardSuggestions(context.Background(), "c")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Equal(t, int64(0), calls.Load())

	suggestions, err = client.CardSuggestions(context.Background(), "charizard")
	require.NoError(t, err)
	assert.Len(t, suggestions, catalog.MaxSuggestions)
	assert.Equal(t, "Charizard VMAX", suggestions[0].Name)
	assert.Equal(t, "https://img/swsh3/136.png", suggestions[0].ImageURL)
}

func TestSetByID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/sets/swsh3" {
			_, _ = w.Write([]byte(`{"data":{"id":"swsh3","name":"Darkness Ablaze","series":"Sword & Shield","printedTotal":189,"releaseDate":"2020/08/14"}}`))
			return
		}
		// cards query
		_, _ = w.Write([]byte(`{"data":[` + cardPayload + `]}`))
	})

	set, err := client.SetByID(context.Background(), "swsh3")
	require.NoError(t, err)
	assert.Equal(t, "Darkness Ablaze", set.Name)
	assert.Equal(t, 189, set.CardCount)
	require.Len(t, set.Cards, 1)
	assert.Equal(t, "swsh3-136", set.Cards[0].ID)
}

func TestSetByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusNotFound, `{"error":"not found"}`))

	_, err := client.SetByID(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestCardByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusNotFound, `{"error":"not found"}`))

	_, err := client.CardByID(context.Background(), "nope-1")
	assert.True(t, errors.IsNotFound(err))
}

func TestCardsByIDsPartial(t *testing.T) {
	// Upstream resolves only one of the two requested IDs.
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, `{"data":[`+cardPayload+`]}`))

	cards, err := client.CardsByIDs(context.Background(), []string{"swsh3-136", "gone-1"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "swsh3-136", cards[0].ID)
	assert.Equal(t, int64(1), calls.Load(), "bulk resolution is a single upstream query")
}

func TestCardsByIDsEmptyInput(t *testing.T) {
	client, calls := newTestClient(t, jsonHandler(http.StatusOK, `{"data":[]}`))

	cards, err := client.CardsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, int64(0), calls.Load())
}

func TestCardsByIDsBatchesLargeCollections(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[` + cardPayload + `]}`))
	})

	ids := make([]string, 300)
	for i := range ids {
		ids[i] = fmt.Sprintf("swsh3-%d", i)
	}

	cards, err := client.CardsByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "300 IDs split across two bulk queries")
	assert.Len(t, cards, 2) // one upstream match per batch in this fixture

	require.Len(t, queries, 2)
	assert.Equal(t, 250, strings.Count(queries[0], "id:"))
	assert.Equal(t, 50, strings.Count(queries[1], "id:"))
}

func TestCardsByIDsBatchFailureTolerated(t *testing.T) {
	// First batch 502s, second batch resolves. The surviving batch's cards
	// come back; the failed batch's IDs are simply missing.
	var calls *atomic.Int64
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Load() == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[` + cardPayload + `]}`))
	})

	ids := make([]string, 300)
	for i := range ids {
		ids[i] = fmt.Sprintf("swsh3-%d", i)
	}

	cards, err := client.CardsByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
	require.Len(t, cards, 1)
	assert.Equal(t, "swsh3-136", cards[0].ID)
}

func TestCardsByIDsUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, jsonHandler(http.StatusBadGateway, `{}`))

	cards, err := client.CardsByIDs(context.Background(), []string{"swsh3-136"})
	require.NoError(t, err, "bulk resolution reports failure structurally, not as an error")
	assert.Empty(t, cards)
}

func TestNormalizeIDIdentity(t *testing.T) {
	client := New("")
	assert.Equal(t, "swsh3-136", client.NormalizeID("swsh3-136"))
	assert.Equal(t, "swsh3-136", client.DenormalizeID("swsh3-136"))
}
