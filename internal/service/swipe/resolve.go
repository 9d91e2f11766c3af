package swipe

import "github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"

// MatchProbability is the chance an accepted profile accepts back.
const MatchProbability = 0.8

// Outcome is the result of the match draw.
type Outcome string

const (
	NotResolved Outcome = ""
	Matched     Outcome = "matched"
	NotMatched  Outcome = "not_matched"
)

// Resolve turns a uniform sample in [0,1) into an Outcome.
func Resolve(sample float64) Outcome {
	if sample < MatchProbability {
		return Matched
	}
	return NotMatched
}

// Resolver draws match outcomes from a Random source.
type Resolver struct {
	Random Random
}

// Draw samples once and resolves the accepted profile. Every profile has the
// same odds.
func (r Resolver) Draw(_ profile.Profile) Outcome {
	return Resolve(r.Random.Float64())
}
