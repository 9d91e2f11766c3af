package match

import "time"

// Senders of chat messages inside a match.
const (
	SenderUser    = "user"
	SenderTractor = "tractor"
)

// Message is one chat line exchanged with a matched profile.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}
