package handler

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
	"time"
)

func newObservedLogHandler(level zapcore.Level) (*LogHandler, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLogHandler(zap.New(core)), logs
}

func TestLogHandlerSpan(t *testing.T) {
	h, logs := newObservedLogHandler(zapcore.DebugLevel)
	h.ProcessSpan(record.Span{
		ID:       3,
		ParentID: 1,
		Name:     "execute_block",
		Target:   "runtime",
		Level:    record.INFO,
		Duration: 1500 * time.Nanosecond,
		Values:   record.Values{"block": "12"},
		Events: []record.Event{
			{Name: "import", Target: "runtime", Level: record.DEBUG, Values: record.Values{"ok": "true"}, ParentID: 3},
		},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "runtime: execute_block", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, int64(1500), fields["time"])
	assert.Equal(t, uint64(3), fields["id"])
	assert.Equal(t, uint64(1), fields["parent_id"])
	assert.Equal(t, map[string]interface{}{"block": "12"}, fields["values"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"name":   "import",
			"target": "runtime",
			"level":  "DEBUG",
			"values": map[string]interface{}{"ok": "true"},
		},
	}, fields["events"])
}

func TestLogHandlerRootSpanOmitsEmptyFields(t *testing.T) {
	h, logs := newObservedLogHandler(zapcore.DebugLevel)
	h.ProcessSpan(record.Span{ID: 1, Name: "init", Target: "node", Level: record.TRACE, Values: record.Values{}})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	fields := entry.ContextMap()
	assert.NotContains(t, fields, "parent_id")
	assert.NotContains(t, fields, "values")
	assert.NotContains(t, fields, "events")
}

func TestLogHandlerEvent(t *testing.T) {
	h, logs := newObservedLogHandler(zapcore.DebugLevel)
	h.ProcessEvent(record.Event{Name: "peer dropped", Target: "network", Level: record.WARN, Values: record.Values{"peer": "a"}, ParentID: 9})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "peer dropped: network", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, uint64(9), entry.ContextMap()["parent_id"])
	assert.Equal(t, map[string]interface{}{"peer": "a"}, entry.ContextMap()["values"])
}

func TestLogHandlerLevelMapping(t *testing.T) {
	h, logs := newObservedLogHandler(zapcore.InfoLevel)
	for _, level := range []record.Level{record.ERROR, record.WARN, record.INFO, record.DEBUG, record.TRACE} {
		h.ProcessEvent(record.Event{Name: "e", Target: "t", Level: level})
	}
	levels := make([]zapcore.Level, 0, logs.Len())
	for _, entry := range logs.All() {
		levels = append(levels, entry.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.ErrorLevel, zapcore.WarnLevel, zapcore.InfoLevel}, levels)
}
