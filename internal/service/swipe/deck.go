package swipe

import "github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"

// Random is the randomness source used for shuffling and match draws.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// Deck is the shuffled, fixed-order card sequence of one session.
type Deck struct {
	cards []profile.Profile
}

// BuildDeck returns a uniformly shuffled copy of profiles (Fisher-Yates).
// The input is never mutated. An empty input is a caller bug and panics.
func BuildDeck(profiles []profile.Profile, rng Random) Deck {
	if len(profiles) == 0 {
		panic("swipe: BuildDeck requires at least one profile")
	}

	cards := append([]profile.Profile(nil), profiles...)
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return Deck{cards: cards}
}

// Len reports the number of cards.
func (d Deck) Len() int { return len(d.cards) }

// At returns the card at index i.
func (d Deck) At(i int) (profile.Profile, bool) {
	if i < 0 || i >= len(d.cards) {
		return profile.Profile{}, false
	}
	return d.cards[i], true
}

// Profiles returns a copy of the deck order.
func (d Deck) Profiles() []profile.Profile {
	return append([]profile.Profile(nil), d.cards...)
}
