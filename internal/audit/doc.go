// Package audit defines the structured login audit event and the
// asynchronous dispatcher that forwards events to the host's sink. Durable
// storage is the sink's concern; this package only produces events.
package audit
