package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the authentication core.
const (
	ActionLoginSuccess = "login_success"
	ActionLoginFailed  = "login_failed"
)

// Event is the canonical audit event model. OrganizationID is always set:
// the user's real organization when the account is known, the configured
// fallback organization otherwise. UserID is nil exactly in that
// unknown-account case.
type Event struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	OrganizationID string         `json:"organizationId"`
	UserID         *string        `json:"userId"`
	Action         string         `json:"action"`
	IP             string         `json:"ip,omitempty"`
	UserAgent      string         `json:"userAgent,omitempty"`
	Metadata       map[string]any `json:"actionMetadata,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(organizationID string, userID *string, action string) Event {
	return Event{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		OrganizationID: organizationID,
		UserID:         userID,
		Action:         action,
	}
}

// Sink receives emitted audit events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes audit events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
