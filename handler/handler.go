// Package handler holds the output backends finished records are sent to.
package handler

import (
	"context"
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"github.com/thapovan-inc/orion-trace-correlator/telemetry"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"strings"
)

// TraceHandler receives finished spans and standalone events. Calls are
// made from many goroutines and must not block for long; anything slow
// belongs behind the handler's own queue.
type TraceHandler interface {
	ProcessSpan(span record.Span)
	ProcessEvent(event record.Event)
}

type Receiver string

const (
	LOG       Receiver = "log"
	TELEMETRY Receiver = "telemetry"
	OTEL      Receiver = "otel"
)

// ParseReceiver defaults to LOG for an empty string.
func ParseReceiver(s string) (Receiver, error) {
	switch r := Receiver(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return LOG, nil
	case LOG, TELEMETRY, OTEL:
		return r, nil
	}
	return "", errors.NotValidf("receiver %q", s)
}

// FromConfig builds the handler selected by the general receiver setting.
func FromConfig(ctx context.Context, config util.CorrelatorConfig) (TraceHandler, error) {
	receiver, err := ParseReceiver(config.General.Receiver)
	if err != nil {
		return nil, err
	}
	switch receiver {
	case TELEMETRY:
		client, err := telemetry.NewClientFromConfig(config.Telemetry)
		if err != nil {
			return nil, errors.Annotate(err, "unable to start telemetry client")
		}
		return NewTelemetryHandler(client), nil
	case OTEL:
		return NewOtelHandlerFromConfig(ctx, config.Otel)
	default:
		return NewLogHandler(util.GetLogger("tracing", "LogHandler")), nil
	}
}
