// Package history keeps the bounded, newest-first list of past scans and
// mirrors it to a durable key-value backend after every mutation.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/saumyapandey31/Phishnet/internal/model"
)

const (
	// DefaultCapacity is the number of scans kept.
	DefaultCapacity = 10
	// DefaultKey is the backend key holding the encoded list.
	DefaultKey = "scanHistory"
)

// ErrNotFound is returned by a Backend when the key holds no value.
var ErrNotFound = errors.New("history key not found")

// Backend persists opaque values under a key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is safe for concurrent use. The in-memory list is authoritative; a
// failed write is logged and returned but never rolls the list back.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	key      string
	capacity int
	entries  []model.HistoryEntry
	log      *slog.Logger
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithCapacity lowers the number of entries kept. Values outside
// 1..DefaultCapacity are ignored.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 && n <= DefaultCapacity {
			s.capacity = n
		}
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDGenerator overrides the entry id source.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// New creates an empty Store. Call Load to populate it from the backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		key:      DefaultKey,
		capacity: DefaultCapacity,
		log:      slog.Default(),
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Capacity returns the maximum number of entries kept.
func (s *Store) Capacity() int { return s.capacity }

// Load replaces the in-memory list with the persisted one. A missing key
// yields an empty list. A corrupt value is logged, treated as empty and
// overwritten.
func (s *Store) Load(ctx context.Context) []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.backend.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.entries = nil
		return s.snapshot()
	case err != nil:
		s.log.Warn("history unavailable, starting empty", "key", s.key, "err", err)
		s.entries = nil
		return s.snapshot()
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn("history corrupt, resetting", "key", s.key, "err", err)
		s.entries = nil
		if perr := s.persist(ctx); perr != nil {
			s.log.Warn("history reset not persisted", "key", s.key, "err", perr)
		}
		return s.snapshot()
	}
	s.entries = entries
	if len(entries) > s.capacity {
		s.entries = entries[:s.capacity]
		if perr := s.persist(ctx); perr != nil {
			s.log.Warn("truncated history not persisted", "key", s.key, "err", perr)
		}
	}
	return s.snapshot()
}

// Record prepends result under a fresh id, evicts beyond capacity and
// persists. The returned list reflects the mutation even when err is non-nil.
func (s *Store) Record(ctx context.Context, result model.ClassificationResult) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := model.HistoryEntry{ClassificationResult: result, ID: s.newID()}
	next := make([]model.HistoryEntry, 0, s.capacity)
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > s.capacity {
		next = next[:s.capacity]
	}
	s.entries = next

	if err := s.persist(ctx); err != nil {
		s.log.Warn("history not persisted, keeping in memory", "key", s.key, "err", err)
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// Clear empties the list and removes the persisted value.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("history clear not persisted", "key", s.key, "err", err)
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return nil
}

// Entries returns a deep copy of the in-memory list, newest first.
func (s *Store) Entries() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) persist(ctx context.Context) error {
	list := s.entries
	if list == nil {
		list = []model.HistoryEntry{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) snapshot() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(s.entries))
	for i, e := range s.entries {
		e.Threats = cloneStrings(e.Threats)
		e.Recommendations = cloneStrings(e.Recommendations)
		out[i] = e
	}
	return out
}

// cloneStrings keeps nil and empty distinct so snapshots compare equal to
// freshly decoded lists.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
