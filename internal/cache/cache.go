// Package cache is the device-local persistence layer: the last successful
// portfolio/trade snapshot, the last-synchronized timestamp and the API
// credentials, each under its own versioned file so a format change never
// collides with an older payload.
//
// Storage failures are deliberately non-fatal. A write that cannot land is
// logged and dropped and the pipeline keeps operating in memory for the
// session.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
)

const (
	_keysFile       = "api-keys.v1.json"
	_portfolioFile  = "portfolio.v1.json"
	_tradesFile     = "trades.v1.json"
	_lastSyncedFile = "last-synced.v1.json"
)

// Snapshot is the last successful pipeline result. Portfolio and trades are
// one logical unit: trades without a portfolio are never served as cached
// data.
type Snapshot struct {
	Portfolio model.PortfolioData  `json:"portfolio"`
	Trades    []model.EnrichedTrade `json:"trades"`
}

type Store struct {
	dir    string
	logger logger.Logger
}

func NewStore(dir string, logger logger.Logger) *Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warnf("%s: can't create cache dir, continuing without persistence", err)
	}
	return &Store{
		dir:    dir,
		logger: logger,
	}
}

func (s *Store) Keys() (model.ApiKeys, bool) {
	var keys model.ApiKeys
	if !s.read(_keysFile, &keys) || keys.IsZero() {
		return model.ApiKeys{}, false
	}
	return keys, true
}

func (s *Store) SaveKeys(keys model.ApiKeys) {
	s.write(_keysFile, keys)
}

// Snapshot loads the cached pipeline result. A missing or unreadable
// portfolio file is a miss even when a trades file is still around.
func (s *Store) Snapshot() (Snapshot, bool) {
	var snap Snapshot
	if !s.read(_portfolioFile, &snap.Portfolio) {
		return Snapshot{}, false
	}
	if !s.read(_tradesFile, &snap.Trades) {
		snap.Trades = nil
	}
	return snap, true
}

// SaveSnapshot replaces the snapshot and bumps the last-synchronized
// timestamp in one go. Callers invoke it only after a fully successful run.
func (s *Store) SaveSnapshot(snap Snapshot, syncedAt time.Time) {
	s.write(_portfolioFile, snap.Portfolio)
	s.write(_tradesFile, snap.Trades)
	s.write(_lastSyncedFile, syncedAt.UTC().Format(time.RFC3339))
}

func (s *Store) LastSynced() (time.Time, bool) {
	var raw string
	if !s.read(_lastSyncedFile, &raw) {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ClearAll removes credentials, snapshot and timestamp together. A partial
// clear would leave stale data pointing at orphaned credentials.
func (s *Store) ClearAll() {
	for _, name := range []string{_keysFile, _portfolioFile, _tradesFile, _lastSyncedFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			s.logger.Warnf("%s: can't remove cache file %s", err, name)
		}
	}
}

// read reports a miss for absent and corrupt files alike.
func (s *Store) read(name string, v interface{}) bool {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return false
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		s.logger.Warnf("%s: corrupt cache file %s treated as miss", err, name)
		return false
	}
	return true
}

// write swallows failures: a full disk or unwritable dir means a memory-only
// session, not an error.
func (s *Store) write(name string, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.logger.Warnf("%s: can't marshal cache file %s", err, name)
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		s.logger.Warnf("%s: can't write cache file %s, continuing without persistence", err, name)
	}
}
