package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/etoro-tools/portfolio-sync/internal/cache"
	"github.com/etoro-tools/portfolio-sync/internal/etoro"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
)

// State is the current synchronized view. Portfolio is nil until the first
// successful load.
type State struct {
	Portfolio  *model.PortfolioData
	Trades     []model.EnrichedTrade
	LastSynced time.Time
}

// Service owns the cache-backed lifecycle around the pipeline: cold-start
// loads, explicit refreshes and the credential slots. Observers are called
// after every state change.
type Service struct {
	p      *Pipeline
	store  *cache.Store
	days   int
	logger logger.Logger

	mu        sync.RWMutex
	keys      model.ApiKeys
	state     State
	observers []func(State)
}

func NewService(p *Pipeline, store *cache.Store, days int, logger logger.Logger) *Service {
	s := &Service{
		p:      p,
		store:  store,
		days:   days,
		logger: logger,
	}
	if keys, ok := store.Keys(); ok {
		s.keys = keys
	}
	return s
}

func (s *Service) HasKeys() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.keys.IsZero()
}

func (s *Service) Keys() model.ApiKeys {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys
}

// SaveKeys trims and persists the credential pair.
func (s *Service) SaveKeys(apiKey, userKey string) {
	keys := model.ApiKeys{
		APIKey:  strings.TrimSpace(apiKey),
		UserKey: strings.TrimSpace(userKey),
	}
	s.store.SaveKeys(keys)

	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
}

// ClearKeys clears the credential, snapshot and timestamp slots together.
// Stale data left behind orphaned credentials is a correctness bug.
func (s *Service) ClearKeys() {
	s.store.ClearAll()

	s.mu.Lock()
	s.keys = model.ApiKeys{}
	s.state = State{}
	s.mu.Unlock()

	s.notify()
}

// Subscribe registers an observer called after every state change.
func (s *Service) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Load is the cold-start read path. A cached snapshot is authoritative: it
// is served without an automatic re-fetch so the API quota is never burned
// silently. Only a cache miss triggers a full refresh.
func (s *Service) Load(ctx context.Context) error {
	if !s.HasKeys() {
		return etoro.ErrMissingCredentials
	}

	if snap, ok := s.store.Snapshot(); ok {
		lastSynced, _ := s.store.LastSynced()

		s.mu.Lock()
		portfolio := snap.Portfolio
		s.state = State{
			Portfolio:  &portfolio,
			Trades:     snap.Trades,
			LastSynced: lastSynced,
		}
		s.mu.Unlock()

		s.notify()
		s.logger.Infof("serving cached snapshot from %s", lastSynced.Format(time.RFC3339))
		return nil
	}

	return s.Refresh(ctx)
}

// Refresh re-runs the full pipeline regardless of cache state. Portfolio
// and trade history are both primary and fetched concurrently; on any
// failure the previous state and cached snapshot stay untouched. Success
// replaces the snapshot and bumps the last-synchronized timestamp.
func (s *Service) Refresh(ctx context.Context) error {
	keys := s.Keys()
	if keys.IsZero() {
		return etoro.ErrMissingCredentials
	}

	var (
		portfolio model.PortfolioData
		pfErr     error
		trades    []model.EnrichedTrade
		trErr     error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		trades, trErr = s.p.TradeHistory(ctx, keys, s.days)
	}()
	portfolio, pfErr = s.p.Portfolio(ctx, keys)
	<-done

	if pfErr != nil {
		return pfErr
	}
	if trErr != nil {
		return trErr
	}

	syncedAt := time.Now()
	s.store.SaveSnapshot(cache.Snapshot{Portfolio: portfolio, Trades: trades}, syncedAt)

	s.mu.Lock()
	s.state = State{
		Portfolio:  &portfolio,
		Trades:     trades,
		LastSynced: syncedAt,
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Service) notify() {
	s.mu.RLock()
	state := s.state
	observers := make([]func(State), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}
