package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/etoro-tools/portfolio-sync/internal/etoro"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
	"github.com/etoro-tools/portfolio-sync/internal/pipeline"
)

const (
	_apiKeyHeader  = "x-etoro-api-key"
	_userKeyHeader = "x-etoro-user-key"

	_daysDefault = 90
)

type router struct {
	p      *pipeline.Pipeline
	logger logger.Logger
}

func newRouter(p *pipeline.Pipeline, logger logger.Logger) http.Handler {
	rt := &router{p: p, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/portfolio", rt.portfolio)
	mux.HandleFunc("GET /api/trades", rt.trades)
	mux.HandleFunc("GET /api/candles", rt.candles)
	mux.HandleFunc("GET /api/colors", rt.colors)
	mux.HandleFunc("GET /api/industries", rt.industries)
	return mux
}

func requestKeys(r *http.Request) (model.ApiKeys, bool) {
	keys := model.ApiKeys{
		APIKey:  r.Header.Get(_apiKeyHeader),
		UserKey: r.Header.Get(_userKeyHeader),
	}
	return keys, !keys.IsZero()
}

func daysParam(r *http.Request) int {
	if raw := r.URL.Query().Get("days"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 {
			return days
		}
	}
	return _daysDefault
}

func (rt *router) portfolio(w http.ResponseWriter, r *http.Request) {
	keys, ok := requestKeys(r)
	if !ok {
		rt.writeError(w, http.StatusBadRequest, "Missing API keys")
		return
	}

	portfolio, err := rt.p.Portfolio(r.Context(), keys)
	if err != nil {
		rt.writeUpstreamError(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, portfolio)
}

func (rt *router) trades(w http.ResponseWriter, r *http.Request) {
	keys, ok := requestKeys(r)
	if !ok {
		rt.writeError(w, http.StatusBadRequest, "Missing API keys")
		return
	}

	trades, err := rt.p.TradeHistory(r.Context(), keys, daysParam(r))
	if err != nil {
		rt.writeUpstreamError(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, trades)
}

func (rt *router) candles(w http.ResponseWriter, r *http.Request) {
	keys, ok := requestKeys(r)
	if !ok {
		rt.writeError(w, http.StatusBadRequest, "Missing API keys")
		return
	}

	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		rt.writeError(w, http.StatusBadRequest, "Invalid instrument ids")
		return
	}

	candles := rt.p.AllCandles(r.Context(), keys, ids, daysParam(r))
	rt.writeJSON(w, http.StatusOK, candles)
}

// colors re-runs the portfolio fetch and maps the enriched position set
// through the color engine.
func (rt *router) colors(w http.ResponseWriter, r *http.Request) {
	keys, ok := requestKeys(r)
	if !ok {
		rt.writeError(w, http.StatusBadRequest, "Missing API keys")
		return
	}

	portfolio, err := rt.p.Portfolio(r.Context(), keys)
	if err != nil {
		rt.writeUpstreamError(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, rt.p.SymbolColors(r.Context(), portfolio.Positions))
}

func (rt *router) industries(w http.ResponseWriter, r *http.Request) {
	keys, ok := requestKeys(r)
	if !ok {
		rt.writeError(w, http.StatusBadRequest, "Missing API keys")
		return
	}
	rt.writeJSON(w, http.StatusOK, rt.p.StocksIndustries(r.Context(), keys))
}

func parseIDs(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (rt *router) writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, etoro.ErrMissingCredentials) {
		rt.writeError(w, http.StatusBadRequest, "Missing API keys")
		return
	}
	rt.writeError(w, http.StatusBadGateway, err.Error())
}

func (rt *router) writeError(w http.ResponseWriter, status int, msg string) {
	rt.writeJSON(w, status, map[string]string{"error": msg})
}

func (rt *router) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		rt.logger.Errorf("%s: can't marshal response", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		rt.logger.Warnf("%s: can't write response", err)
	}
}
