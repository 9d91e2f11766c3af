package swipe

import "errors"

// ErrUnknownGesture is returned for input that carries neither a known
// direction nor a known button.
var ErrUnknownGesture = errors.New("unknown gesture")

// Direction is the swipe direction reported by the card stack on touch end.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Button is an explicit accept/reject control press.
type Button string

const (
	ButtonAccept Button = "accept"
	ButtonReject Button = "reject"
)

// Decision is the binary outcome of a gesture.
type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
)

// Input is one raw gesture. A Button, when set, wins over Direction.
type Input struct {
	Direction Direction `json:"direction,omitempty"`
	Button    Button    `json:"button,omitempty"`
}

// Interpret maps a gesture to a Decision. A "next" swipe rejects and a
// "prev" swipe accepts; buttons map to their own decision.
func Interpret(in Input) (Decision, error) {
	switch in.Button {
	case ButtonAccept:
		return Accept, nil
	case ButtonReject:
		return Reject, nil
	case "":
	default:
		return "", ErrUnknownGesture
	}

	switch in.Direction {
	case DirectionNext:
		return Reject, nil
	case DirectionPrev:
		return Accept, nil
	default:
		return "", ErrUnknownGesture
	}
}
