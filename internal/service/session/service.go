package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/match"
	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/matches"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/swipe"
	"github.com/zhouzirui/tractor-swipe/backend/internal/storage/kv"
)

var (
	ErrClientRequired  = errors.New("client id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message text is required")
	ErrNoCatalog       = errors.New("profile catalog is empty")
)

// Random combines the randomness needs of decks, draws and replies.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// Options configures Service. Random and Now are optional.
type Options struct {
	Profiles profile.Store
	Storage  kv.Store
	Logger   *zap.Logger
	Random   func() Random
	Now      func() time.Time
}

// Entry is a live swipe session together with its match store.
type Entry struct {
	Swipe     *swipe.Session
	Matches   *matches.Store
	ClientID  string
	CreatedAt time.Time

	chatMu  sync.Mutex
	replier matches.Replier
}

// Service provisions swipe sessions and routes their chat traffic.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Entry
	storesMu sync.Mutex
	stores   map[string]*matches.Store
	profiles profile.Store
	storage  kv.Store
	logger   *zap.Logger
	random   func() Random
	now      func() time.Time
}

// NewService bootstraps the in-memory session registry.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	random := opts.Random
	if random == nil {
		random = func() Random {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		sessions: make(map[string]*Entry),
		stores:   make(map[string]*matches.Store),
		profiles: opts.Profiles,
		storage:  opts.Storage,
		logger:   logger,
		random:   random,
		now:      now,
	}
}

// Create starts a session for clientID: the catalog is shuffled into a fresh
// deck and the client's persisted matches are rehydrated.
func (s *Service) Create(ctx context.Context, clientID string) (*Entry, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, ErrClientRequired
	}

	catalog := s.profiles.List()
	if len(catalog) == 0 {
		return nil, ErrNoCatalog
	}

	id := uuid.NewString()
	rng := s.random()
	store := s.matchStore(ctx, clientID)
	entry := &Entry{
		Swipe: swipe.NewSession(swipe.SessionConfig{
			ID:      id,
			Deck:    swipe.BuildDeck(catalog, rng),
			Matches: store,
			Random:  rng,
			Logger:  s.logger,
			Now:     s.now,
		}),
		Matches:   store,
		ClientID:  clientID,
		CreatedAt: s.now(),
		replier:   matches.Replier{Random: s.random()},
	}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	s.logger.Info("session created",
		zap.String("session", id),
		zap.String("client", clientID),
		zap.Int("deck", len(catalog)),
		zap.Int("matches", store.Count()),
	)
	return entry, nil
}

// matchStore returns the client's match store, rehydrating it on first use.
// Sessions of one client share it so their writes never clobber each other.
func (s *Service) matchStore(ctx context.Context, clientID string) *matches.Store {
	key := matches.StorageKey(clientID)

	s.storesMu.Lock()
	defer s.storesMu.Unlock()
	if store, ok := s.stores[key]; ok {
		return store
	}
	store := matches.Open(ctx, s.storage, key, s.logger)
	s.stores[key] = store
	return store
}

// Get retrieves a session by identifier.
func (s *Service) Get(_ context.Context, sessionID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// List returns the ids of live sessions, sorted.
func (s *Service) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SendMessage appends the user's text to a match chat and lets the matched
// profile talk back with one of its canned responses.
func (s *Service) SendMessage(ctx context.Context, sessionID, matchID, text string) (match.Match, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return match.Match{}, ErrEmptyMessage
	}

	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return match.Match{}, err
	}

	m, ok := entry.Matches.Get(matchID)
	if !ok {
		return match.Match{}, matches.ErrMatchNotFound
	}

	now := s.now()
	msgs := []match.Message{{
		ID:        uuid.NewString(),
		Sender:    match.SenderUser,
		Content:   text,
		CreatedAt: now,
	}}
	entry.chatMu.Lock()
	defer entry.chatMu.Unlock()
	if reply, ok := entry.replier.Pick(m.Profile, text); ok {
		msgs = append(msgs, match.Message{
			ID:        uuid.NewString(),
			Sender:    match.SenderTractor,
			Content:   reply.Content,
			Mood:      string(reply.Mood),
			CreatedAt: now,
		})
	}

	updated, err := entry.Matches.AppendMessage(ctx, matchID, msgs...)
	if err != nil && errors.Is(err, matches.ErrPersist) {
		s.logger.Warn("chat message not persisted", zap.String("session", sessionID), zap.String("match", matchID), zap.Error(err))
		return updated, nil
	}
	return updated, err
}
