package handler

import (
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogHandler writes one line per span or standalone event.
type LogHandler struct {
	logger *zap.Logger
}

func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func zapLevel(level record.Level) zapcore.Level {
	switch level {
	case record.ERROR:
		return zapcore.ErrorLevel
	case record.WARN:
		return zapcore.WarnLevel
	case record.INFO:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func valuesField(values record.Values) zap.Field {
	return zap.Object("values", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		for _, k := range values.Keys() {
			enc.AddString(k, values[k])
		}
		return nil
	}))
}

func eventsField(events []record.Event) zap.Field {
	return zap.Array("events", zapcore.ArrayMarshalerFunc(func(enc zapcore.ArrayEncoder) error {
		for i := range events {
			event := events[i]
			err := enc.AppendObject(zapcore.ObjectMarshalerFunc(func(oe zapcore.ObjectEncoder) error {
				oe.AddString("name", event.Name)
				oe.AddString("target", event.Target)
				oe.AddString("level", event.Level.String())
				return oe.AddObject("values", zapcore.ObjectMarshalerFunc(func(ve zapcore.ObjectEncoder) error {
					for _, k := range event.Values.Keys() {
						ve.AddString(k, event.Values[k])
					}
					return nil
				}))
			}))
			if err != nil {
				return err
			}
		}
		return nil
	}))
}

func (h *LogHandler) ProcessSpan(span record.Span) {
	ce := h.logger.Check(zapLevel(span.Level), span.Target+": "+span.Name)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, 5)
	fields = append(fields, zap.Int64("time", span.Duration.Nanoseconds()), zap.Uint64("id", span.ID))
	if span.HasParent() {
		fields = append(fields, zap.Uint64("parent_id", span.ParentID))
	}
	if len(span.Values) > 0 {
		fields = append(fields, valuesField(span.Values))
	}
	if len(span.Events) > 0 {
		fields = append(fields, eventsField(span.Events))
	}
	ce.Write(fields...)
}

func (h *LogHandler) ProcessEvent(event record.Event) {
	ce := h.logger.Check(zapLevel(event.Level), event.Name+": "+event.Target)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, 2)
	if event.HasParent() {
		fields = append(fields, zap.Uint64("parent_id", event.ParentID))
	}
	if len(event.Values) > 0 {
		fields = append(fields, valuesField(event.Values))
	}
	ce.Write(fields...)
}

func (h *LogHandler) Close() error {
	_ = h.logger.Sync()
	return nil
}
