// Package repository keeps the sandbox documents in memory. Collections are
// ordered by insertion and documents are plain field maps, so the sandbox
// serves the same loosely typed shapes the real upstream does.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/pkg/metrics"
)

// Collection names.
const (
	Users       = "users"
	Teams       = "teams"
	Activities  = "activities"
	Workouts    = "workouts"
	Leaderboard = "leaderboard"
)

// Store is an in-memory document store. All reads hand out deep copies.
type Store struct {
	mu    sync.RWMutex
	docs  map[string][]record.Record
	newID func() string

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewStore creates an empty store. The metrics updater runs until ctx is
// done or Close is called.
func NewStore(ctx context.Context, opts ...Option) *Store {
	s := &Store{
		docs:                  make(map[string][]record.Record),
		newID:                 uuid.NewString,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops background work.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// View runs fn with a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// Update runs fn with a writable transaction. Writes made before fn
// returns an error are kept; callers validate before writing.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s, writable: true})
}

// List returns a copy of every document in a collection.
func (s *Store) List(ctx context.Context, collection string) ([]record.Record, error) {
	var out []record.Record
	err := s.View(ctx, func(tx *Tx) error {
		out = tx.List(collection)
		return nil
	})
	return out, err
}

// Count returns the number of documents in a collection.
func (s *Store) Count(ctx context.Context, collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[collection])
}

func (s *Store) startMetricsUpdater(ctx context.Context) {
	if s.metricsUpdateInterval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *Store) updateMetrics() {
	s.mu.RLock()
	counts := make(map[string]int, len(s.docs))
	for name, docs := range s.docs {
		counts[name] = len(docs)
	}
	s.mu.RUnlock()

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		metrics.UpdateStoredDocuments(name, counts[name])
	}
}
