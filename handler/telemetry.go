package handler

import (
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"github.com/thapovan-inc/orion-trace-correlator/telemetry"
	"io"
	"time"
)

const (
	SpanMessage  = "tracing.span"
	EventMessage = "tracing.event"
)

// TelemetryHandler forwards records to a telemetry.Sender. Span messages do
// not carry their buffered events.
type TelemetryHandler struct {
	sender telemetry.Sender
	now    func() time.Time
}

func NewTelemetryHandler(sender telemetry.Sender) *TelemetryHandler {
	return &TelemetryHandler{sender: sender, now: time.Now}
}

func parentField(id uint64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func (h *TelemetryHandler) ProcessSpan(span record.Span) {
	h.sender.Send(telemetry.Message{
		Msg:       SpanMessage,
		Timestamp: h.now(),
		Fields: telemetry.Fields{
			"name":      span.Name,
			"target":    span.Target,
			"time":      span.Duration.Nanoseconds(),
			"id":        span.ID,
			"parent_id": parentField(span.ParentID),
			"values":    map[string]string(span.Values),
		},
	})
}

func (h *TelemetryHandler) ProcessEvent(event record.Event) {
	h.sender.Send(telemetry.Message{
		Msg:       EventMessage,
		Timestamp: h.now(),
		Fields: telemetry.Fields{
			"name":      event.Name,
			"target":    event.Target,
			"parent_id": parentField(event.ParentID),
			"values":    map[string]string(event.Values),
		},
	})
}

func (h *TelemetryHandler) Close() error {
	if closer, ok := h.sender.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
