package matches

import (
	"github.com/zhouzirui/tractor-swipe/backend/internal/analysis/mood"
	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
)

// Random is the subset of math/rand/v2 used to pick replies.
type Random interface {
	IntN(n int) int
}

// Reply is a canned answer chosen for a user message.
type Reply struct {
	Content string
	Mood    mood.Label
}

// Replier answers chat messages with one of a profile's canned responses.
// Responses whose mood complements the user's mood are preferred.
type Replier struct {
	Random Random
}

// Pick chooses a reply to text from p.ResponseMessages. ok is false when the
// profile has no responses.
func (r Replier) Pick(p profile.Profile, text string) (Reply, bool) {
	if len(p.ResponseMessages) == 0 {
		return Reply{}, false
	}

	wanted := mood.Complement(mood.Classify(text).Label)
	var fitting []Reply
	if wanted != mood.Neutral {
		for _, candidate := range p.ResponseMessages {
			if label := mood.Classify(candidate).Label; label == wanted {
				fitting = append(fitting, Reply{Content: candidate, Mood: label})
			}
		}
	}
	if len(fitting) > 0 {
		return fitting[r.Random.IntN(len(fitting))], true
	}

	content := p.ResponseMessages[r.Random.IntN(len(p.ResponseMessages))]
	return Reply{Content: content, Mood: mood.Classify(content).Label}, true
}
