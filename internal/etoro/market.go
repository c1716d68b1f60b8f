package etoro

import (
	"context"
	"fmt"
	"sync"

	"github.com/etoro-tools/portfolio-sync/internal/model"
	"github.com/etoro-tools/portfolio-sync/internal/normalize"
)

const (
	_instrumentsURL      = "/market-data/instruments"
	_ratesURL            = "/market-data/instruments/rates"
	_stocksIndustriesURL = "/market-data/stocks-industries"

	_candleDirection = "asc"

	// Outbound request ceiling for the candle worker pool, independent of
	// portfolio size.
	_candleConcurrency = 5
)

// Instruments fetches reference metadata for the given instrument ids.
// Secondary call: failures degrade to an empty result.
func (c *Client) Instruments(ctx context.Context, keys model.ApiKeys, ids []int) []model.Instrument {
	if len(ids) == 0 {
		return nil
	}
	raw, ok := c.getSecondary(ctx, keys, _instrumentsURL, map[string]string{"instrumentIds": joinIDs(ids)})
	if !ok {
		return nil
	}
	return normalize.Instruments(raw)
}

// Rates fetches live quotes for the given instrument ids. Secondary call.
func (c *Client) Rates(ctx context.Context, keys model.ApiKeys, ids []int) []model.Rate {
	if len(ids) == 0 {
		return nil
	}
	raw, ok := c.getSecondary(ctx, keys, _ratesURL, map[string]string{"instrumentIds": joinIDs(ids)})
	if !ok {
		return nil
	}
	return normalize.Rates(raw)
}

// Candles fetches up to count OHLCV samples for one instrument. Secondary
// call. The response nests the list either under candles[0].candles or
// under candles directly.
func (c *Client) Candles(ctx context.Context, keys model.ApiKeys, id, count int) []model.Candle {
	path := fmt.Sprintf("/market-data/instruments/%d/history/candles/%s/%s/%d", id, _candleDirection, c.cfg.CandleInterval, count)
	raw, ok := c.getSecondary(ctx, keys, path, nil)
	if !ok {
		return nil
	}
	return normalize.Candles(candleItems(raw))
}

func candleItems(raw interface{}) interface{} {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	candles, ok := obj["candles"].([]interface{})
	if !ok {
		return nil
	}
	if len(candles) > 0 {
		if inner, ok := candles[0].(map[string]interface{}); ok {
			if nested, ok := inner["candles"].([]interface{}); ok {
				return nested
			}
		}
	}
	return candles
}

// AllCandles drains a FIFO queue of instrument ids with min(5, N) workers,
// each awaiting one request at a time. Instruments yielding zero candles
// are omitted from the result map.
func (c *Client) AllCandles(ctx context.Context, keys model.ApiKeys, ids []int, count int) map[int][]model.Candle {
	result := make(map[int][]model.Candle)
	if len(ids) == 0 {
		return result
	}

	queue := make(chan int, len(ids))
	for _, id := range ids {
		queue <- id
	}
	close(queue)

	workers := _candleConcurrency
	if len(ids) < workers {
		workers = len(ids)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range queue {
				candles := c.Candles(ctx, keys, id, count)
				if len(candles) == 0 {
					continue
				}
				mu.Lock()
				result[id] = candles
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return result
}

// StocksIndustries fetches the industry taxonomy. Secondary call.
func (c *Client) StocksIndustries(ctx context.Context, keys model.ApiKeys) map[int]string {
	raw, ok := c.getSecondary(ctx, keys, _stocksIndustriesURL, nil)
	if !ok {
		return map[int]string{}
	}
	obj, _ := raw.(map[string]interface{})
	return normalize.Industries(obj["stocksIndustries"])
}
