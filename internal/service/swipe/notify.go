package swipe

import "fmt"

// NoticeKind classifies user-visible notifications.
type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
)

// Notification texts shown by the client.
const (
	MessageRejected     = "Not your type of tractor!"
	MessageNotMatched   = "They didn't swipe right on you. Keep looking!"
	MessagePersistAlert = "Your match is saved for this session only; storage is unavailable."
)

// Notification is a fire-and-forget message for the presentation layer.
type Notification struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ProfileID int        `json:"profileId,omitempty"`
	MatchID   string     `json:"matchId,omitempty"`
}

// Notifier presents notifications. Its return is never consumed.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

func matchedMessage(name string) string {
	return fmt.Sprintf("It's a match! %s swiped right on you too.", name)
}
