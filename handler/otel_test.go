package handler

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"testing"
	"time"
)

func newRecordedOtelHandler() (*OtelHandler, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewOtelHandler(provider.Tracer("test")), recorder
}

func attributeMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestOtelHandlerSpan(t *testing.T) {
	h, recorder := newRecordedOtelHandler()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.ProcessSpan(record.Span{
		ID:        5,
		ParentID:  2,
		Name:      "validate",
		Target:    "consensus",
		Level:     record.ERROR,
		CreatedAt: created,
		Duration:  3 * time.Millisecond,
		Values:    record.Values{"round": "7"},
		Events: []record.Event{
			{Name: "vote", Target: "consensus", Level: record.INFO, Values: record.Values{"from": "alice"}},
		},
	})

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "validate", span.Name())
	assert.Equal(t, created, span.StartTime())
	assert.Equal(t, created.Add(3*time.Millisecond), span.EndTime())
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := attributeMap(span.Attributes())
	assert.Equal(t, "consensus", attrs["tracing.target"].AsString())
	assert.Equal(t, "ERROR", attrs["tracing.level"].AsString())
	assert.Equal(t, int64(5), attrs["tracing.id"].AsInt64())
	assert.Equal(t, int64(2), attrs["tracing.parent_id"].AsInt64())
	assert.Equal(t, "7", attrs["values.round"].AsString())

	require.Len(t, span.Events(), 1)
	event := span.Events()[0]
	assert.Equal(t, "vote", event.Name)
	assert.Equal(t, "alice", attributeMap(event.Attributes)["values.from"].AsString())
}

func TestOtelHandlerRootSpan(t *testing.T) {
	h, recorder := newRecordedOtelHandler()
	h.ProcessSpan(record.Span{ID: 1, Name: "root", Target: "node", Level: record.INFO, CreatedAt: time.Now()})

	require.Len(t, recorder.Ended(), 1)
	attrs := attributeMap(recorder.Ended()[0].Attributes())
	assert.NotContains(t, attrs, "tracing.parent_id")
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}

func TestOtelHandlerEvent(t *testing.T) {
	h, recorder := newRecordedOtelHandler()
	h.ProcessEvent(record.Event{Name: "orphan", Target: "net", Level: record.WARN, ParentID: 11})

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "orphan", span.Name())
	assert.Equal(t, span.StartTime(), span.EndTime())
	attrs := attributeMap(span.Attributes())
	assert.True(t, attrs["tracing.event"].AsBool())
	assert.Equal(t, int64(11), attrs["tracing.parent_id"].AsInt64())
	assert.NoError(t, h.Close())
}
