package etoro

import (
	"context"

	"github.com/etoro-tools/portfolio-sync/internal/model"
	"github.com/etoro-tools/portfolio-sync/internal/normalize"
)

const _watchlistsURL = "/watchlists"

// Watchlists fetches the account's watchlists. Secondary call. Lists that
// resolve no instrument items are dropped.
func (c *Client) Watchlists(ctx context.Context, keys model.ApiKeys) []model.Watchlist {
	raw, ok := c.getSecondary(ctx, keys, _watchlistsURL, map[string]string{"itemsPerPageForSingle": "200"})
	if !ok {
		return nil
	}

	lists := raw
	if obj, isObj := raw.(map[string]interface{}); isObj {
		if wrapped, found := obj["watchlists"]; found && wrapped != nil {
			lists = wrapped
		}
	}
	arr, isArr := lists.([]interface{})
	if !isArr {
		return nil
	}

	return normalize.Watchlists(arr)
}

// WatchlistInstruments joins instrument metadata with live bids for a
// watchlist's instrument set. Both underlying calls are secondary so a
// partial result (metadata without quotes, or vice versa) is expected.
func (c *Client) WatchlistInstruments(ctx context.Context, keys model.ApiKeys, ids []int) []model.InstrumentSnapshot {
	if len(ids) == 0 {
		return nil
	}

	var (
		instruments []model.Instrument
		rates       []model.Rate
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rates = c.Rates(ctx, keys, ids)
	}()
	instruments = c.Instruments(ctx, keys, ids)
	<-done

	instrumentMap := make(map[int]model.Instrument, len(instruments))
	for _, i := range instruments {
		instrumentMap[i.InstrumentID] = i
	}
	rateMap := make(map[int]model.Rate, len(rates))
	for _, r := range rates {
		rateMap[r.InstrumentID] = r
	}

	snapshots := make([]model.InstrumentSnapshot, 0, len(ids))
	for _, id := range ids {
		snapshot := model.InstrumentSnapshot{InstrumentID: id}
		if info, found := instrumentMap[id]; found {
			snapshot.Symbol = info.Symbol
			snapshot.DisplayName = info.DisplayName
			snapshot.LogoURL = info.LogoURL
		}
		if rate, found := rateMap[id]; found {
			bid := rate.Bid
			snapshot.CurrentRate = &bid
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots
}
