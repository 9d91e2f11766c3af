package swipe

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/match"
	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
)

// MatchStore is the append side of the match store used by a Session.
type MatchStore interface {
	Append(ctx context.Context, m match.Match) error
	Count() int
}

// SessionConfig wires a Session to its collaborators. Notifier, Logger and
// Now are optional.
type SessionConfig struct {
	ID       string
	Deck     Deck
	Matches  MatchStore
	Random   Random
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// Turn reports what a single gesture did.
type Turn struct {
	Ignored       bool             `json:"ignored"`
	Decision      Decision         `json:"decision,omitempty"`
	Outcome       Outcome          `json:"outcome,omitempty"`
	Profile       *profile.Profile `json:"tractor,omitempty"`
	Match         *match.Match     `json:"match,omitempty"`
	Notifications []Notification   `json:"notifications"`
	State         State            `json:"state"`
}

// Session is the event-driven shell around Reduce. Gestures are handled one
// at a time; every transition runs to completion under the session lock.
type Session struct {
	mu       sync.Mutex
	id       string
	deck     Deck
	state    State
	resolver Resolver
	matches  MatchStore
	notifier Notifier
	attached uint64
	logger   *zap.Logger
	now      func() time.Time
}

// NewSession builds a session positioned on the first card.
func NewSession(cfg SessionConfig) *Session {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Session{
		id:       cfg.ID,
		deck:     cfg.Deck,
		state:    NewState(cfg.Deck.Len()),
		resolver: Resolver{Random: cfg.Random},
		matches:  cfg.Matches,
		notifier: notifier,
		logger:   logger.With(zap.String("session", cfg.ID)),
		now:      now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Deck returns the session deck.
func (s *Session) Deck() Deck { return s.deck }

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetNotifier replaces the notification collaborator, e.g. when a realtime
// connection attaches. A nil notifier discards notifications.
func (s *Session) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setNotifierLocked(n)
}

// AttachNotifier installs n and returns a detach func. Detaching is a no-op
// once another notifier has been attached in the meantime.
func (s *Session) AttachNotifier(n Notifier) (detach func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.setNotifierLocked(n)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.attached == gen {
			s.setNotifierLocked(nil)
		}
	}
}

func (s *Session) setNotifierLocked(n Notifier) uint64 {
	if n == nil {
		n = discardNotifier{}
	}
	s.notifier = n
	s.attached++
	return s.attached
}

// Handle interprets a gesture and applies it to the current card.
func (s *Session) Handle(ctx context.Context, in Input) (Turn, error) {
	decision, err := Interpret(in)
	if err != nil {
		return Turn{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{Notifications: []Notification{}}
	if !s.state.Accepts() {
		turn.Ignored = true
		turn.State = s.state
		s.logger.Debug("gesture ignored, deck exhausted", zap.String("decision", string(decision)))
		return turn, nil
	}

	card, _ := s.deck.At(s.state.Cursor)
	ev := Event{Kind: EventSwipe, Decision: decision}
	if decision == Accept {
		ev.Outcome = s.resolver.Draw(card)
	}
	s.state = Reduce(s.state, ev)

	turn.Decision = decision
	turn.Outcome = ev.Outcome
	turn.Profile = &card

	switch {
	case decision == Reject:
		turn.Notifications = append(turn.Notifications, Notification{Kind: NoticeError, Message: MessageRejected, ProfileID: card.ID})

	case ev.Outcome == NotMatched:
		turn.Notifications = append(turn.Notifications, Notification{Kind: NoticeInfo, Message: MessageNotMatched, ProfileID: card.ID})

	case ev.Outcome == Matched:
		m := match.Match{
			ID:        uuid.NewString(),
			Profile:   card,
			CreatedAt: s.now(),
			Messages:  []match.Message{},
		}
		turn.Match = &m
		turn.Notifications = append(turn.Notifications, Notification{Kind: NoticeSuccess, Message: matchedMessage(card.Name), ProfileID: card.ID, MatchID: m.ID})

		if err := s.matches.Append(ctx, m); err != nil {
			s.logger.Warn("match not persisted", zap.String("match", m.ID), zap.Error(err))
			turn.Notifications = append(turn.Notifications, Notification{Kind: NoticeWarning, Message: MessagePersistAlert, MatchID: m.ID})
		}
	}

	s.logger.Debug("gesture handled",
		zap.Int("profile", card.ID),
		zap.String("decision", string(decision)),
		zap.String("outcome", string(ev.Outcome)),
		zap.Int("cursor", s.state.Cursor),
	)

	for _, n := range turn.Notifications {
		s.notifier.Notify(n)
	}
	turn.State = s.state
	return turn, nil
}

// SlideChanged syncs the cursor with the index reported by the card stack.
func (s *Session) SlideChanged(index int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Event{Kind: EventSlideChange, Index: index})
	return s.state
}

// DismissPopup closes the match popup.
func (s *Session) DismissPopup() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Event{Kind: EventDismissPopup})
	return s.state
}

// Current returns the card under the cursor.
func (s *Session) Current() (profile.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.At(s.state.Cursor)
}

// MatchCount is the badge counter.
func (s *Session) MatchCount() int {
	return s.matches.Count()
}
