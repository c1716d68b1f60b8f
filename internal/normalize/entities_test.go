package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etoro-tools/portfolio-sync/internal/model"
)

func TestPositionCasingVariants(t *testing.T) {
	// The same position spelled the three ways the upstream actually emits
	// it must normalize to one identical value.
	variants := []string{
		`{"positionID":1,"instrumentID":5,"openRate":100,"units":10,"amount":1000,"isBuy":true,"openDateTime":"2024-01-02T00:00:00Z","leverage":1,"totalFees":2.5,"initialAmountInDollars":1000}`,
		`{"PositionID":1,"InstrumentID":5,"OpenRate":100,"Units":10,"Amount":1000,"IsBuy":true,"OpenDateTime":"2024-01-02T00:00:00Z","Leverage":1,"TotalFees":2.5,"InitialAmountInDollars":1000}`,
		`{"positionId":1,"instrumentId":5,"openRate":100,"units":10,"amount":1000,"isBuy":true,"openDateTime":"2024-01-02T00:00:00Z","leverage":1,"totalFees":2.5,"initialAmountInDollars":1000}`,
	}

	expected := model.Position{
		PositionID:             1,
		InstrumentID:           5,
		OpenRate:               100,
		Units:                  10,
		Amount:                 1000,
		IsBuy:                  true,
		OpenDateTime:           "2024-01-02T00:00:00Z",
		Leverage:               1,
		TotalFees:              2.5,
		InitialAmountInDollars: 1000,
	}

	for _, raw := range variants {
		p, ok := Position(decodeObj(t, raw))
		require.True(t, ok)
		assert.Equal(t, expected, p)
	}
}

func TestPositionDefaults(t *testing.T) {
	p, ok := Position(decodeObj(t, `{"instrumentID": 5}`))
	require.True(t, ok)

	assert.Equal(t, 5, p.InstrumentID)
	assert.True(t, p.IsBuy, "isBuy defaults to buy")
	assert.Equal(t, 1.0, p.Leverage, "leverage defaults to 1x")
	assert.Zero(t, p.OpenRate)
	assert.Zero(t, p.Amount)
}

func TestPositionsDropsMalformedItems(t *testing.T) {
	positions := Positions(decode(t, `[{"instrumentID":1},"not an object",42,{"instrumentID":2}]`))
	require.Len(t, positions, 2)
	assert.Equal(t, 1, positions[0].InstrumentID)
	assert.Equal(t, 2, positions[1].InstrumentID)
}

func TestInstrumentLogoWidthPriority(t *testing.T) {
	for _, tc := range []struct {
		name     string
		raw      string
		expected *string
	}{
		{
			name:     "width 50 wins",
			raw:      `{"instrumentID":1,"images":[{"width":35,"uri":"u35"},{"width":50,"uri":"u50"},{"width":90,"uri":"u90"}]}`,
			expected: strPtr("u50"),
		},
		{
			name:     "width 35 next",
			raw:      `{"instrumentID":1,"images":[{"width":90,"uri":"u90"},{"width":35,"uri":"u35"}]}`,
			expected: strPtr("u35"),
		},
		{
			name:     "first image as last resort",
			raw:      `{"instrumentID":1,"images":[{"width":90,"uri":"u90"},{"width":150,"uri":"u150"}]}`,
			expected: strPtr("u90"),
		},
		{
			name:     "no images",
			raw:      `{"instrumentID":1}`,
			expected: nil,
		},
		{
			name:     "empty images",
			raw:      `{"instrumentID":1,"images":[]}`,
			expected: nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			inst, ok := Instrument(decodeObj(t, tc.raw))
			require.True(t, ok)
			if tc.expected == nil {
				assert.Nil(t, inst.LogoURL)
			} else {
				require.NotNil(t, inst.LogoURL)
				assert.Equal(t, *tc.expected, *inst.LogoURL)
			}
		})
	}
}

func TestInstrumentOptionalFields(t *testing.T) {
	inst, ok := Instrument(decodeObj(t, `{"InstrumentID":9,"InstrumentDisplayName":"Apple","SymbolFull":"AAPL","StocksIndustryID":14}`))
	require.True(t, ok)

	assert.Equal(t, 9, inst.InstrumentID)
	require.NotNil(t, inst.DisplayName)
	assert.Equal(t, "Apple", *inst.DisplayName)
	require.NotNil(t, inst.Symbol)
	assert.Equal(t, "AAPL", *inst.Symbol)
	require.NotNil(t, inst.StocksIndustryID)
	assert.Equal(t, 14, *inst.StocksIndustryID)

	bare, ok := Instrument(decodeObj(t, `{"instrumentId":9}`))
	require.True(t, ok)
	assert.Nil(t, bare.DisplayName)
	assert.Nil(t, bare.Symbol)
	assert.Nil(t, bare.StocksIndustryID)
}

func TestRate(t *testing.T) {
	r, ok := Rate(decodeObj(t, `{"InstrumentID":5,"Ask":111,"Bid":110}`))
	require.True(t, ok)
	assert.Equal(t, model.Rate{InstrumentID: 5, Ask: 111, Bid: 110}, r)
}

func TestTradeLeadsLowercaseD(t *testing.T) {
	// Trade history payloads spell it positionId; both spellings present
	// means the lowercase-d one wins.
	tr, ok := Trade(decodeObj(t, `{"positionId":7,"PositionID":999,"instrumentId":5,"isBuy":false,"openRate":100,"closeRate":90,"investment":1000,"netProfit":100,"units":10,"leverage":2,"fees":1.5,"openTimestamp":"2024-01-02T00:00:00Z","closeTimestamp":"2024-02-02T00:00:00Z"}`))
	require.True(t, ok)

	assert.Equal(t, 7, tr.PositionID)
	assert.Equal(t, 5, tr.InstrumentID)
	assert.False(t, tr.IsBuy)
	assert.Equal(t, 2.0, tr.Leverage)
	assert.Equal(t, 100.0, tr.NetProfit)
}

func TestCandle(t *testing.T) {
	c, ok := Candle(decodeObj(t, `{"instrumentID":5,"fromDate":"2024-01-02T00:00:00Z","open":1,"high":3,"low":0.5,"close":2,"volume":1000}`))
	require.True(t, ok)
	assert.Equal(t, model.Candle{InstrumentID: 5, Date: "2024-01-02T00:00:00Z", Open: 1, High: 3, Low: 0.5, Close: 2, Volume: 1000}, c)
}

func TestIndustries(t *testing.T) {
	industries := Industries(decode(t, `{"industries":[
		{"industryID":14,"industryName":"Technology"},
		{"IndustryID":20,"IndustryName":"Energy"},
		{"industryID":7},
		{"industryName":"Nameless"}
	]}`))

	assert.Equal(t, map[int]string{14: "Technology", 20: "Energy"}, industries)
}

func TestWatchlists(t *testing.T) {
	lists := Watchlists(decode(t, `{"watchlists":[
		{"WatchlistId":123,"Name":"Tech","Items":[{"ItemType":"Instrument","ItemId":5},{"ItemType":"User","ItemId":9},{"ItemType":"Instrument","ItemId":7}]},
		{"watchlistId":"abc-1","name":"Crypto","items":[{"itemType":"Instrument","itemId":42}]},
		{"WatchlistId":999,"Name":"Empty","Items":[{"ItemType":"User","ItemId":1}]},
		{"Name":"NoID","Items":[{"ItemType":"Instrument","ItemId":1}]}
	]}`))

	require.Len(t, lists, 2)
	assert.Equal(t, model.Watchlist{ID: "123", Name: "Tech", InstrumentIDs: []int{5, 7}}, lists[0])
	assert.Equal(t, model.Watchlist{ID: "abc-1", Name: "Crypto", InstrumentIDs: []int{42}}, lists[1])
}

func strPtr(s string) *string { return &s }
