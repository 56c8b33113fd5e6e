package record

import (
	"time"
)

// Reserved names of the bridging protocol. A span named BridgedSpanName was
// reported from an embedded execution context; its real name and target
// travel in the BridgedNameKey and BridgedTargetKey attributes.
const (
	BridgedSpanName  = "bridged_span"
	BridgedNameKey   = "bridged_name"
	BridgedTargetKey = "bridged_target"
	BridgedFlagKey   = "bridged"

	// ProxyTarget is always observable so bridged spans reach close.
	ProxyTarget = "tracing::proxy"
)

// EventLimit bounds the events buffered under one span.
const EventLimit = 128

// Metadata describes a call site.
type Metadata struct {
	Name   string
	Target string
	Level  Level
	// Line is zero when unknown.
	Line uint32
}

// Event is a point in time occurrence. ParentID is zero for events emitted
// outside any span.
type Event struct {
	Name     string
	Target   string
	Level    Level
	Values   Values
	ParentID uint64
}

// Span is a finished or in-flight unit of work. ParentID is zero for root
// spans and is never resolved; the parent may already be gone.
type Span struct {
	ID        uint64
	ParentID  uint64
	Name      string
	Target    string
	Level     Level
	Line      uint32
	CreatedAt time.Time
	Duration  time.Duration
	Values    Values
	Events    []Event
}

func (s *Span) HasParent() bool {
	return s.ParentID != 0
}

// Bridged reports whether the span was unwrapped from a bridged span.
func (s *Span) Bridged() bool {
	return s.Values[BridgedFlagKey] == "true"
}

func (e *Event) HasParent() bool {
	return e.ParentID != 0
}
