package etoro

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlists(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/watchlists", r.URL.Path)
		assert.Equal(t, "200", r.URL.Query().Get("itemsPerPageForSingle"))
		w.Write([]byte(`{"watchlists":[
			{"WatchlistId":1,"Name":"Tech","Items":[{"ItemType":"Instrument","ItemId":5}]},
			{"WatchlistId":2,"Name":"People","Items":[{"ItemType":"User","ItemId":9}]}
		]}`))
	}))

	lists := c.Watchlists(context.Background(), testKeys)
	require.Len(t, lists, 1)
	assert.Equal(t, "Tech", lists[0].Name)
	assert.Equal(t, []int{5}, lists[0].InstrumentIDs)
}

func TestWatchlistsBareArray(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"watchlistId":"w1","name":"Crypto","items":[{"itemType":"Instrument","itemId":42}]}]`))
	}))

	lists := c.Watchlists(context.Background(), testKeys)
	require.Len(t, lists, 1)
	assert.Equal(t, "w1", lists[0].ID)
}

func TestWatchlistInstruments(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/market-data/instruments":
			w.Write([]byte(`{"instruments":[{"instrumentID":5,"symbolFull":"AAPL","instrumentDisplayName":"Apple"}]}`))
		case "/market-data/instruments/rates":
			w.Write([]byte(`{"rates":[{"instrumentID":5,"bid":110,"ask":111},{"instrumentID":6,"bid":50,"ask":51}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	snapshots := c.WatchlistInstruments(context.Background(), testKeys, []int{5, 6})
	require.Len(t, snapshots, 2)

	first := snapshots[0]
	assert.Equal(t, 5, first.InstrumentID)
	require.NotNil(t, first.Symbol)
	assert.Equal(t, "AAPL", *first.Symbol)
	require.NotNil(t, first.CurrentRate)
	assert.Equal(t, 110.0, *first.CurrentRate, "snapshots quote the bid")

	// Metadata missing for 6: the quote still comes through.
	second := snapshots[1]
	assert.Nil(t, second.Symbol)
	require.NotNil(t, second.CurrentRate)
	assert.Equal(t, 50.0, *second.CurrentRate)
}
