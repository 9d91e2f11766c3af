package swipe

// EventKind enumerates the events the reducer understands.
type EventKind int

const (
	// EventSwipe applies a Decision to the current card.
	EventSwipe EventKind = iota
	// EventSlideChange syncs the cursor with the card stack's active index.
	EventSlideChange
	// EventDismissPopup closes the match popup.
	EventDismissPopup
)

// Event is one input to Reduce. Outcome is only read for Accept decisions
// and must come from the Resolver.
type Event struct {
	Kind     EventKind
	Decision Decision
	Outcome  Outcome
	Index    int
}

// Result describes the last decided card.
type Result struct {
	Index    int      `json:"index"`
	Decision Decision `json:"decision"`
	Outcome  Outcome  `json:"outcome,omitempty"`
}

// State is the swipe session state machine.
//
// Cursor never decreases and never exceeds DeckSize-1. The final card is
// decided once, after which Exhausted is set and further swipes are no-ops.
type State struct {
	Cursor     int     `json:"currentIndex"`
	DeckSize   int     `json:"deckSize"`
	Exhausted  bool    `json:"exhausted"`
	Last       *Result `json:"last,omitempty"`
	PopupOpen  bool    `json:"showMatch"`
	PopupIndex int     `json:"matchedIndex"`
}

// NewState returns the initial state for a deck of the given size.
func NewState(deckSize int) State {
	return State{DeckSize: deckSize, PopupIndex: -1}
}

// Accepts reports whether a swipe event would be applied.
func (s State) Accepts() bool {
	return !s.Exhausted && s.DeckSize > 0
}

// Reduce is the pure transition function of the swipe session.
func Reduce(s State, ev Event) State {
	switch ev.Kind {
	case EventSwipe:
		if !s.Accepts() {
			return s
		}
		res := Result{Index: s.Cursor, Decision: ev.Decision}
		if ev.Decision == Accept {
			res.Outcome = ev.Outcome
		}

		next := s
		next.Last = &res
		if res.Outcome == Matched {
			next.PopupOpen = true
			next.PopupIndex = s.Cursor
		}
		if s.Cursor < s.DeckSize-1 {
			next.Cursor++
		} else {
			next.Exhausted = true
		}
		return next

	case EventSlideChange:
		index := ev.Index
		if index > s.DeckSize-1 {
			index = s.DeckSize - 1
		}
		if index <= s.Cursor {
			return s
		}
		next := s
		next.Cursor = index
		return next

	case EventDismissPopup:
		next := s
		next.PopupOpen = false
		next.PopupIndex = -1
		return next
	}
	return s
}
