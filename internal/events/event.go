package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	PipelineStage  = "event:pipeline:stage"
	PipelineReport = "event:pipeline:report"
)

// Event is the payload announced for every pipeline stage transition and
// for the final report.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Stage      string    `json:"stage,omitempty"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	SessionKey string    `json:"sessionKey,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "docuforge/events/session"

// WithSession returns a derived context annotated with the given session key
// so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func newEvent(eventType EventType, stage, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info Event.
func NewInfo(stage, message string) Event {
	return newEvent(EventInfo, stage, message)
}

// NewWarn creates a warn Event.
func NewWarn(stage, message string) Event {
	return newEvent(EventWarn, stage, message)
}

// NewError creates an error Event.
func NewError(stage, message string) Event {
	return newEvent(EventError, stage, message)
}

// NewSuccess creates a success Event.
func NewSuccess(stage, message string) Event {
	return newEvent(EventSuccess, stage, message)
}
