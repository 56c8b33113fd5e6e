package subscriber

import (
	"github.com/thapovan-inc/orion-trace-correlator/record"
)

// unwrapBridged replaces the placeholder name and target of a bridged span
// with the ones carried in its attributes and flags the span as bridged.
func unwrapBridged(span *record.Span) {
	if span.Values == nil {
		span.Values = record.Values{}
	}
	span.Values[record.BridgedFlagKey] = "true"
	if name, ok := span.Values.Take(record.BridgedNameKey); ok {
		span.Name = name
	}
	if target, ok := span.Values.Take(record.BridgedTargetKey); ok {
		span.Target = target
	}
}
