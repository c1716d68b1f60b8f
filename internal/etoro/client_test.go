package etoro

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etoro-tools/portfolio-sync/internal/config"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
)

var testKeys = model.ApiKeys{APIKey: "api-key", UserKey: "user-key"}

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		BaseURL: srv.URL,
		// Keep the limiter out of the way: tests exercise concurrency and
		// failure handling, not pacing.
		RequestsPerMin: 1_000_000,
	}
	require.NoError(t, cfg.ValidateAndSetup())

	return NewClient(cfg, logger.Nop()), srv
}

func TestPortfolio(t *testing.T) {
	var gotHeaders http.Header
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/trading/info/portfolio", r.URL.Path)
		w.Write([]byte(`{"clientPortfolio":{"credit":250.5,"positions":[
			{"positionID":1,"instrumentID":5,"openRate":100,"units":10,"amount":1000,"isBuy":true},
			{"PositionID":2,"InstrumentID":6,"OpenRate":50,"Units":4,"Amount":200,"IsBuy":false}
		]}}`))
	}))

	positions, credit, err := c.Portfolio(context.Background(), testKeys)
	require.NoError(t, err)

	assert.Equal(t, "api-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "user-key", gotHeaders.Get("x-user-key"))
	assert.NotEmpty(t, gotHeaders.Get("x-request-id"))

	assert.InDelta(t, 250.5, credit, 1e-9)
	require.Len(t, positions, 2)
	assert.Equal(t, 5, positions[0].InstrumentID)
	assert.False(t, positions[1].IsBuy)
}

func TestPortfolioUpstreamError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad key"}`))
	}))

	_, _, err := c.Portfolio(context.Background(), testKeys)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad key")
}

func TestMissingCredentials(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should leave the client without credentials")
	}))

	_, _, err := c.Portfolio(context.Background(), model.ApiKeys{})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = c.TradeHistory(context.Background(), model.ApiKeys{UserKey: "only-half"}, 90)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTradeHistoryQuery(t *testing.T) {
	var gotQuery map[string]string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trading/info/trade/history", r.URL.Path)
		gotQuery = map[string]string{
			"minDate":  r.URL.Query().Get("minDate"),
			"pageSize": r.URL.Query().Get("pageSize"),
		}
		w.Write([]byte(`[{"positionId":7,"instrumentId":5,"netProfit":12.5}]`))
	}))

	trades, err := c.TradeHistory(context.Background(), testKeys, 90)
	require.NoError(t, err)

	expectedMin := time.Now().AddDate(0, 0, -90).UTC().Format("2006-01-02")
	assert.Equal(t, expectedMin, gotQuery["minDate"])
	assert.Equal(t, "500", gotQuery["pageSize"])

	require.Len(t, trades, 1)
	assert.Equal(t, 7, trades[0].PositionID)
}

func TestSecondaryDegradesToEmpty(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	assert.Empty(t, c.Instruments(context.Background(), testKeys, []int{1, 2}))
	assert.Empty(t, c.Rates(context.Background(), testKeys, []int{1, 2}))
	assert.Empty(t, c.Candles(context.Background(), testKeys, 1, 90))
	assert.Empty(t, c.StocksIndustries(context.Background(), testKeys))
}

func TestInstrumentsQueryJoinsIDs(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1,2,42", r.URL.Query().Get("instrumentIds"))
		w.Write([]byte(`{"instruments":[{"instrumentID":1,"symbolFull":"AAPL"}]}`))
	}))

	instruments := c.Instruments(context.Background(), testKeys, []int{1, 2, 42})
	require.Len(t, instruments, 1)
	require.NotNil(t, instruments[0].Symbol)
	assert.Equal(t, "AAPL", *instruments[0].Symbol)

	assert.Nil(t, c.Instruments(context.Background(), testKeys, nil), "no ids, no request")
}

func TestCandlesNestedEnvelope(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market-data/instruments/5/history/candles/asc/OneDay/90", r.URL.Path)
		w.Write([]byte(`{"candles":[{"instrumentId":5,"candles":[
			{"instrumentID":5,"fromDate":"2024-01-02T00:00:00Z","open":1,"high":2,"low":0.5,"close":1.5,"volume":100},
			{"instrumentID":5,"fromDate":"2024-01-03T00:00:00Z","open":1.5,"high":3,"low":1,"close":2,"volume":200}
		]}]}`))
	}))

	candles := c.Candles(context.Background(), testKeys, 5, 90)
	require.Len(t, candles, 2)
	assert.Equal(t, "2024-01-02T00:00:00Z", candles[0].Date)
}

func TestCandlesFlatEnvelope(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candles":[{"instrumentID":5,"fromDate":"2024-01-02T00:00:00Z","close":1.5}]}`))
	}))

	candles := c.Candles(context.Background(), testKeys, 5, 90)
	require.Len(t, candles, 1)
	assert.InDelta(t, 1.5, candles[0].Close, 1e-9)
}

func TestAllCandlesBoundedConcurrency(t *testing.T) {
	var inFlight, maxInFlight atomic.Int64

	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		w.Write([]byte(`{"candles":[{"fromDate":"2024-01-02T00:00:00Z","close":1}]}`))
	}))

	ids := make([]int, 23)
	for i := range ids {
		ids[i] = i + 1
	}

	result := c.AllCandles(context.Background(), testKeys, ids, 90)

	assert.Len(t, result, 23, "every instrument resolves")
	assert.LessOrEqual(t, maxInFlight.Load(), int64(5), "never more than five requests in flight")
	assert.Greater(t, maxInFlight.Load(), int64(1), "the pool does fan out")
}

func TestAllCandlesOmitsEmptyInstruments(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/market-data/instruments/2/history/candles/asc/OneDay/90" {
			w.Write([]byte(`{"candles":[]}`))
			return
		}
		w.Write([]byte(`{"candles":[{"fromDate":"2024-01-02T00:00:00Z","close":1}]}`))
	}))

	result := c.AllCandles(context.Background(), testKeys, []int{1, 2, 3}, 90)

	assert.Len(t, result, 2)
	assert.Contains(t, result, 1)
	assert.NotContains(t, result, 2, "zero-candle instruments stay absent")
	assert.Contains(t, result, 3)
}

func TestStocksIndustries(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market-data/stocks-industries", r.URL.Path)
		w.Write([]byte(`{"stocksIndustries":[{"industryID":14,"industryName":"Technology"}]}`))
	}))

	industries := c.StocksIndustries(context.Background(), testKeys)
	assert.Equal(t, map[int]string{14: "Technology"}, industries)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 502, Body: "bad gateway"}
	assert.Equal(t, "upstream error 502: bad gateway", err.Error())
	assert.False(t, errors.Is(err, ErrMissingCredentials))
}
