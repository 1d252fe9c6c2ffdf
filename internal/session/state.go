package session

import (
	"errors"
	"fmt"
)

// State is where a chat session is in its upload/submit cycle
type State int

const (
	Idle State = iota
	AwaitingUpload
	DocumentReady
	AwaitingReply
)

var (
	// ErrBusy is returned when a submit arrives while the previous one is still waiting for its reply
	ErrBusy = errors.New("session is awaiting a reply")
	// ErrInvalidTransition is returned for events the current state does not accept
	ErrInvalidTransition = errors.New("invalid session transition")
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingUpload:
		return "awaiting_upload"
	case DocumentReady:
		return "document_ready"
	case AwaitingReply:
		return "awaiting_reply"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a state transition
type Event int

const (
	EventOpen Event = iota
	EventDocumentAttached
	EventSubmit
	EventReply
)

func (e Event) String() string {
	switch e {
	case EventOpen:
		return "open"
	case EventDocumentAttached:
		return "document_attached"
	case EventSubmit:
		return "submit"
	case EventReply:
		return "reply"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Next returns the state after e. prior is the state a submit started from,
// which a reply returns to.
func Next(current State, e Event, prior State) (State, error) {
	switch e {
	case EventOpen:
		if current == Idle {
			return AwaitingUpload, nil
		}
		// reloading the page keeps the session where it is
		return current, nil
	case EventDocumentAttached:
		if current == AwaitingUpload || current == DocumentReady {
			return DocumentReady, nil
		}
	case EventSubmit:
		switch current {
		case AwaitingUpload, DocumentReady:
			return AwaitingReply, nil
		case AwaitingReply:
			return current, ErrBusy
		}
	case EventReply:
		if current == AwaitingReply && (prior == AwaitingUpload || prior == DocumentReady) {
			return prior, nil
		}
	}
	return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, current)
}
