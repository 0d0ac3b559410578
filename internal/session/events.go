package session

import (
	"github.com/verdictx/vx/internal/chat"
)

// EventKind enumerates dispatch transitions the UI renders.
type EventKind int

const (
	// EventTyping: a placeholder was appended, a call is outstanding.
	EventTyping EventKind = iota
	// EventResolved: the placeholder was replaced with a bot response.
	EventResolved
	// EventFailed: the placeholder was replaced with an error message.
	EventFailed
	// EventDiscarded: the originating chat was deleted mid-flight and the
	// response was dropped.
	EventDiscarded
)

// Event is a dispatch transition, carrying the originating chat id and the
// message that was appended or replaced in place.
type Event struct {
	Kind    EventKind
	ChatID  string
	Message *chat.Message
}

// emit delivers an event without ever blocking dispatch on a slow UI.
func (c *Controller) emit(event Event) {
	select {
	case c.events <- event:
	default:
		c.logger.Warn("dropping event, channel full", "kind", event.Kind, "chat", event.ChatID)
	}
}
