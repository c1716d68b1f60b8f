package etoro

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/etoro-tools/portfolio-sync/internal/model"
	"github.com/etoro-tools/portfolio-sync/internal/normalize"
)

const (
	_portfolioURL    = "/trading/info/portfolio"
	_tradeHistoryURL = "/trading/info/trade/history"
)

var _creditKeys = []string{"credit", "Credit"}

// Portfolio fetches the raw open-position snapshot plus account credit.
// This is a primary call: a non-success status is fatal for the run.
func (c *Client) Portfolio(ctx context.Context, keys model.ApiKeys) ([]model.Position, float64, error) {
	raw, err := c.get(ctx, keys, _portfolioURL, nil, c.cfg.PrimaryTimeout)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: can't fetch portfolio", err)
	}

	obj, _ := raw.(map[string]interface{})
	clientPortfolio, _ := obj["clientPortfolio"].(map[string]interface{})
	positions := normalize.Positions(clientPortfolio["positions"])
	credit := normalize.Float(clientPortfolio, _creditKeys, 0)

	return positions, credit, nil
}

// TradeHistory fetches closed trades no older than the given day window.
// Primary call, like Portfolio.
func (c *Client) TradeHistory(ctx context.Context, keys model.ApiKeys, days int) ([]model.Trade, error) {
	minDate := time.Now().AddDate(0, 0, -days).UTC().Format("2006-01-02")
	query := map[string]string{
		"minDate":  minDate,
		"pageSize": strconv.Itoa(c.cfg.TradePageSize),
	}

	raw, err := c.get(ctx, keys, _tradeHistoryURL, query, c.cfg.PrimaryTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: can't fetch trade history", err)
	}

	return normalize.Trades(raw), nil
}
