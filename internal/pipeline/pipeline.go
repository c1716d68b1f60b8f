// Package pipeline ties the fetch orchestrator, the enrichment engine and
// the local cache together.
package pipeline

import (
	"context"

	"github.com/etoro-tools/portfolio-sync/internal/color"
	"github.com/etoro-tools/portfolio-sync/internal/enrich"
	"github.com/etoro-tools/portfolio-sync/internal/etoro"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
)

// Pipeline is the stateless composition of fetch and enrichment: every
// method is a full request/response cycle for one credential set.
type Pipeline struct {
	client *etoro.Client
	colors *color.Engine
	logger logger.Logger
}

func New(client *etoro.Client, colors *color.Engine, logger logger.Logger) *Pipeline {
	return &Pipeline{
		client: client,
		colors: colors,
		logger: logger,
	}
}

// Portfolio fetches and enriches the full portfolio. The instrument and
// rate lookups wait for the resolved id set, then run concurrently with
// each other; either degrading to empty leaves the affected fields nil.
func (p *Pipeline) Portfolio(ctx context.Context, keys model.ApiKeys) (model.PortfolioData, error) {
	positions, credit, err := p.client.Portfolio(ctx, keys)
	if err != nil {
		return model.PortfolioData{}, err
	}

	data := model.PortfolioData{
		Positions: []model.EnrichedPosition{},
		Credit:    credit,
	}
	if len(positions) == 0 {
		return data, nil
	}

	ids := instrumentIDs(positions)

	var (
		instruments []model.Instrument
		rates       []model.Rate
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rates = p.client.Rates(ctx, keys, ids)
	}()
	instruments = p.client.Instruments(ctx, keys, ids)
	<-done

	data.Positions, data.TotalInvested, data.TotalPnl = enrich.Positions(positions, instruments, rates)
	return data, nil
}

// TradeHistory fetches and enriches closed trades for the day window.
func (p *Pipeline) TradeHistory(ctx context.Context, keys model.ApiKeys, days int) ([]model.EnrichedTrade, error) {
	trades, err := p.client.TradeHistory(ctx, keys, days)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return []model.EnrichedTrade{}, nil
	}

	ids := make([]int, 0, len(trades))
	seen := make(map[int]struct{}, len(trades))
	for _, t := range trades {
		if _, dup := seen[t.InstrumentID]; dup {
			continue
		}
		seen[t.InstrumentID] = struct{}{}
		ids = append(ids, t.InstrumentID)
	}

	instruments := p.client.Instruments(ctx, keys, ids)
	return enrich.Trades(trades, instruments), nil
}

// AllCandles exposes the bounded-concurrency candle fetch.
func (p *Pipeline) AllCandles(ctx context.Context, keys model.ApiKeys, ids []int, count int) map[int][]model.Candle {
	return p.client.AllCandles(ctx, keys, ids, count)
}

// SymbolColors builds the symbol-to-color map for an enriched position set.
func (p *Pipeline) SymbolColors(ctx context.Context, positions []model.EnrichedPosition) map[string]string {
	return p.colors.SymbolColors(ctx, positions)
}

// StocksIndustries exposes the industry taxonomy lookup.
func (p *Pipeline) StocksIndustries(ctx context.Context, keys model.ApiKeys) map[int]string {
	return p.client.StocksIndustries(ctx, keys)
}

func (p *Pipeline) Watchlists(ctx context.Context, keys model.ApiKeys) []model.Watchlist {
	return p.client.Watchlists(ctx, keys)
}

func (p *Pipeline) WatchlistInstruments(ctx context.Context, keys model.ApiKeys, ids []int) []model.InstrumentSnapshot {
	return p.client.WatchlistInstruments(ctx, keys, ids)
}

func instrumentIDs(positions []model.Position) []int {
	ids := make([]int, 0, len(positions))
	seen := make(map[int]struct{}, len(positions))
	for _, pos := range positions {
		if _, dup := seen[pos.InstrumentID]; dup {
			continue
		}
		seen[pos.InstrumentID] = struct{}{}
		ids = append(ids, pos.InstrumentID)
	}
	return ids
}
