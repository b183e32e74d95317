package session

import (
	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
)

// State is the controller's position in an exchange.
type State int32

const (
	// Idle accepts a new question.
	Idle State = iota
	// Sending waits for the answer service to accept the request.
	Sending
	// Streaming accumulates tokens into the pending buffer.
	Streaming
	// FallbackTyping reveals a canned answer.
	FallbackTyping
	// Settling is the short step in which the assistant message is committed.
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Streaming:
		return "streaming"
	case FallbackTyping:
		return "fallback_typing"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// Busy reports whether an exchange is in flight.
func (s State) Busy() bool {
	return s != Idle
}

// View receives rendering updates. All calls come from the controller's own
// goroutine, one at a time, so implementations must not block for long.
type View interface {
	StateChanged(State)
	// LiveText is the full in-progress assistant text, not a delta.
	LiveText(string)
	MessageAppended(chat.Message)
}

// NopView ignores every update.
type NopView struct{}

func (NopView) StateChanged(State)           {}
func (NopView) LiveText(string)              {}
func (NopView) MessageAppended(chat.Message) {}
