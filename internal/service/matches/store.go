package matches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/match"
	"github.com/zhouzirui/tractor-swipe/backend/internal/storage/kv"
)

var (
	// ErrPersist wraps failures writing the match list to storage. The
	// in-memory mutation has already been applied when it is returned.
	ErrPersist       = errors.New("persist matches")
	ErrMatchNotFound = errors.New("match not found")
)

// KeyPrefix namespaces persisted match lists per client device.
const KeyPrefix = "tractor-matches:"

// StorageKey returns the persistence key for a client.
func StorageKey(clientID string) string {
	return KeyPrefix + clientID
}

// Store is the append-only, write-through list of matches for one client.
type Store struct {
	mu      sync.RWMutex
	backend kv.Store
	key     string
	items   []match.Match
	logger  *zap.Logger
}

// Open rehydrates the store from backend. A missing, unreadable or
// unparseable value yields an empty store; the problem is only logged.
func Open(ctx context.Context, backend kv.Store, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		backend: backend,
		key:     key,
		items:   make([]match.Match, 0, 8),
		logger:  logger.With(zap.String("key", key)),
	}

	raw, ok, err := backend.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("match rehydration failed, starting empty", zap.Error(err))
	case !ok:
		s.logger.Debug("no persisted matches")
	default:
		var items []match.Match
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.logger.Warn("discarding malformed persisted matches", zap.Error(err))
			break
		}
		for _, m := range items {
			if m.Messages == nil {
				m.Messages = []match.Message{}
			}
			s.items = append(s.items, m)
		}
		s.logger.Debug("matches rehydrated", zap.Int("count", len(s.items)))
	}

	return s
}

// Append adds a match and persists the full list.
func (s *Store) Append(ctx context.Context, m match.Match) error {
	if m.Messages == nil {
		m.Messages = []match.Message{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, cloneMatch(m))
	return s.persistLocked(ctx)
}

// AppendMessage appends chat messages to an existing match and persists the
// full list. It is the only mutation allowed on a stored match.
func (s *Store) AppendMessage(ctx context.Context, matchID string, msgs ...match.Message) (match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != matchID {
			continue
		}
		s.items[i].Messages = append(s.items[i].Messages, msgs...)
		updated := cloneMatch(s.items[i])
		return updated, s.persistLocked(ctx)
	}
	return match.Match{}, ErrMatchNotFound
}

// Get returns a copy of the match with the given id.
func (s *Store) Get(matchID string) (match.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.items {
		if m.ID == matchID {
			return cloneMatch(m), true
		}
	}
	return match.Match{}, false
}

// All returns a copy of every match in insertion order.
func (s *Store) All() []match.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]match.Match, len(s.items))
	for i, m := range s.items {
		out[i] = cloneMatch(m)
	}
	return out
}

// Count returns the number of matches.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func cloneMatch(m match.Match) match.Match {
	m.Messages = append([]match.Message{}, m.Messages...)
	m.Profile.Images = append([]string(nil), m.Profile.Images...)
	m.Profile.ResponseMessages = append([]string(nil), m.Profile.ResponseMessages...)
	return m
}
