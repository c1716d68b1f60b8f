// Package enrich joins raw positions and trades with instrument metadata
// and live rates. Every function is pure: same inputs, same outputs, no
// hidden state, safe to re-run.
package enrich

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etoro-tools/portfolio-sync/internal/model"
)

var _hundred = decimal.NewFromInt(100)

// Positions produces enriched positions plus portfolio totals. A position
// without a matching rate keeps nil valuation fields; its amount still
// counts toward totalInvested but never toward totalPnl.
func Positions(raw []model.Position, instruments []model.Instrument, rates []model.Rate) ([]model.EnrichedPosition, float64, float64) {
	instrumentMap := make(map[int]model.Instrument, len(instruments))
	for _, i := range instruments {
		instrumentMap[i.InstrumentID] = i
	}
	rateMap := make(map[int]model.Rate, len(rates))
	for _, r := range rates {
		rateMap[r.InstrumentID] = r
	}

	var totalInvested, totalPnl decimal.Decimal

	positions := make([]model.EnrichedPosition, 0, len(raw))
	for _, pos := range raw {
		enriched := model.EnrichedPosition{Position: pos}

		if info, found := instrumentMap[pos.InstrumentID]; found {
			enriched.Symbol = info.Symbol
			enriched.DisplayName = info.DisplayName
			enriched.LogoURL = info.LogoURL
			enriched.StocksIndustryID = info.StocksIndustryID
		}

		if rate, found := rateMap[pos.InstrumentID]; found {
			// A short marks-to-market against the ask: that is the cost
			// to buy the position back.
			currentRate := rate.Bid
			if !pos.IsBuy {
				currentRate = rate.Ask
			}

			pnl, pnlPercent := positionPnl(pos, currentRate)
			enriched.CurrentRate = &currentRate
			enriched.Pnl = &pnl
			enriched.PnlPercent = &pnlPercent

			totalPnl = totalPnl.Add(decimal.NewFromFloat(pnl))
		}

		totalInvested = totalInvested.Add(decimal.NewFromFloat(pos.Amount))
		positions = append(positions, enriched)
	}

	return positions, totalInvested.InexactFloat64(), totalPnl.InexactFloat64()
}

func positionPnl(pos model.Position, currentRate float64) (float64, float64) {
	direction := decimal.NewFromInt(1)
	if !pos.IsBuy {
		direction = decimal.NewFromInt(-1)
	}

	pnl := decimal.NewFromFloat(currentRate).
		Sub(decimal.NewFromFloat(pos.OpenRate)).
		Mul(decimal.NewFromFloat(pos.Units)).
		Mul(direction).
		Mul(decimal.NewFromFloat(pos.Leverage))

	pnlPercent := decimal.Zero
	if pos.Amount > 0 {
		pnlPercent = pnl.Div(decimal.NewFromFloat(pos.Amount)).Mul(_hundred)
	}

	return pnl.InexactFloat64(), pnlPercent.InexactFloat64()
}

// Trades joins closed trades with instrument metadata.
func Trades(trades []model.Trade, instruments []model.Instrument) []model.EnrichedTrade {
	instrumentMap := make(map[int]model.Instrument, len(instruments))
	for _, i := range instruments {
		instrumentMap[i.InstrumentID] = i
	}

	enriched := make([]model.EnrichedTrade, 0, len(trades))
	for _, trade := range trades {
		e := model.EnrichedTrade{Trade: trade}
		if info, found := instrumentMap[trade.InstrumentID]; found {
			e.Symbol = info.Symbol
			e.DisplayName = info.DisplayName
			e.LogoURL = info.LogoURL
		}
		enriched = append(enriched, e)
	}

	return enriched
}

// NormalizeSymbol strips the exchange's ".RTH" session suffix.
func NormalizeSymbol(s string) string {
	if strings.HasSuffix(strings.ToUpper(s), ".RTH") {
		return s[:len(s)-len(".RTH")]
	}
	return s
}

// GroupBySymbol aggregates positions per normalized symbol, preserving the
// order symbols first appear in. Positions without a symbol group under
// "#<instrumentId>".
func GroupBySymbol(positions []model.EnrichedPosition) []model.SymbolSummary {
	order := make([]string, 0)
	groups := make(map[string][]model.EnrichedPosition)
	for _, p := range positions {
		sym := fmt.Sprintf("#%d", p.InstrumentID)
		if p.Symbol != nil {
			sym = NormalizeSymbol(*p.Symbol)
		}
		if _, seen := groups[sym]; !seen {
			order = append(order, sym)
		}
		groups[sym] = append(groups[sym], p)
	}

	summaries := make([]model.SymbolSummary, 0, len(order))
	for _, sym := range order {
		pos := groups[sym]
		var totalAmount, totalPnl decimal.Decimal
		var logoURL *string
		for _, p := range pos {
			totalAmount = totalAmount.Add(decimal.NewFromFloat(p.Amount))
			if p.Pnl != nil {
				totalPnl = totalPnl.Add(decimal.NewFromFloat(*p.Pnl))
			}
			if logoURL == nil && p.LogoURL != nil {
				logoURL = p.LogoURL
			}
		}

		avgPnlPct := decimal.Zero
		if totalAmount.IsPositive() {
			avgPnlPct = totalPnl.Div(totalAmount).Mul(_hundred)
		}

		summaries = append(summaries, model.SymbolSummary{
			Symbol:      sym,
			LogoURL:     logoURL,
			TotalAmount: totalAmount.InexactFloat64(),
			TotalPnl:    totalPnl.InexactFloat64(),
			AvgPnlPct:   avgPnlPct.InexactFloat64(),
			Positions:   pos,
		})
	}

	return summaries
}
