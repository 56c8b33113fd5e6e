package handler

import (
	"context"
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"time"
)

const defaultTracerName = "orion-trace-correlator"

// OtelHandler re-emits spans through an OpenTelemetry tracer. Every record
// becomes a root span; the record's parentage is kept in the
// tracing.parent_id attribute because a parent closes after its children.
type OtelHandler struct {
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

func NewOtelHandler(tracer trace.Tracer) *OtelHandler {
	return &OtelHandler{tracer: tracer}
}

// NewOtelHandlerFromConfig exports over OTLP/HTTP with a batching provider
// that is shut down by Close.
func NewOtelHandlerFromConfig(ctx context.Context, config util.OtelConfig) (*OtelHandler, error) {
	opts := make([]otlptracehttp.Option, 0, 2)
	if config.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(config.Endpoint))
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, errors.Annotate(err, "unable to create otlp exporter")
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	name := config.TracerName
	if name == "" {
		name = defaultTracerName
	}
	return &OtelHandler{tracer: provider.Tracer(name), shutdown: provider.Shutdown}, nil
}

func valueAttributes(values record.Values, attrs []attribute.KeyValue) []attribute.KeyValue {
	for _, k := range values.Keys() {
		attrs = append(attrs, attribute.String("values."+k, values[k]))
	}
	return attrs
}

func (h *OtelHandler) ProcessSpan(span record.Span) {
	attrs := make([]attribute.KeyValue, 0, 4+len(span.Values))
	attrs = append(attrs,
		attribute.String("tracing.target", span.Target),
		attribute.String("tracing.level", span.Level.String()),
		attribute.Int64("tracing.id", int64(span.ID)),
	)
	if span.HasParent() {
		attrs = append(attrs, attribute.Int64("tracing.parent_id", int64(span.ParentID)))
	}
	attrs = valueAttributes(span.Values, attrs)
	end := span.CreatedAt.Add(span.Duration)
	_, sp := h.tracer.Start(context.Background(), span.Name,
		trace.WithNewRoot(),
		trace.WithTimestamp(span.CreatedAt),
		trace.WithAttributes(attrs...))
	for _, event := range span.Events {
		eventAttrs := []attribute.KeyValue{
			attribute.String("tracing.target", event.Target),
			attribute.String("tracing.level", event.Level.String()),
		}
		sp.AddEvent(event.Name, trace.WithTimestamp(end), trace.WithAttributes(valueAttributes(event.Values, eventAttrs)...))
	}
	if span.Level == record.ERROR {
		sp.SetStatus(codes.Error, span.Name)
	}
	sp.End(trace.WithTimestamp(end))
}

func (h *OtelHandler) ProcessEvent(event record.Event) {
	attrs := make([]attribute.KeyValue, 0, 4+len(event.Values))
	attrs = append(attrs,
		attribute.Bool("tracing.event", true),
		attribute.String("tracing.target", event.Target),
		attribute.String("tracing.level", event.Level.String()),
	)
	if event.HasParent() {
		attrs = append(attrs, attribute.Int64("tracing.parent_id", int64(event.ParentID)))
	}
	attrs = valueAttributes(event.Values, attrs)
	now := time.Now()
	_, sp := h.tracer.Start(context.Background(), event.Name,
		trace.WithNewRoot(),
		trace.WithTimestamp(now),
		trace.WithAttributes(attrs...))
	if event.Level == record.ERROR {
		sp.SetStatus(codes.Error, event.Name)
	}
	sp.End(trace.WithTimestamp(now))
}

func (h *OtelHandler) Close() error {
	if h.shutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Annotate(h.shutdown(ctx), "unable to shut down tracer provider")
}
