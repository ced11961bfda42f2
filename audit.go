package authcore

import (
	"io"

	"github.com/procflowhq/authcore/internal/audit"
)

// Audit actions emitted by the core. Persistence of events is the sink's
// responsibility.
const (
	AuditActionLoginSuccess = audit.ActionLoginSuccess
	AuditActionLoginFailed  = audit.ActionLoginFailed
)

// AuditEvent is the structured event handed to the configured [AuditSink].
type AuditEvent = audit.Event

// AuditSink receives emitted audit events. Implementations must be safe for
// concurrent use; the engine emits from a dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpAuditSink drops audit events.
type NoOpAuditSink = audit.NoOpSink

// NewChannelAuditSink returns a sink that buffers events on a channel,
// mostly useful in tests and for custom fan-out.
func NewChannelAuditSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterAuditSink returns a sink writing one JSON event per line.
func NewJSONWriterAuditSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
