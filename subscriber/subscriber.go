// Package subscriber correlates span and event callbacks from an
// instrumented host into finished records.
//
// The host calls a Subscriber through a fixed contract: NewSpan, Record,
// Enter, Exit, Event and TryClose, plus IsObservable to skip unobservable
// call sites. Each calling task carries its own activity stack in the
// context passed to NewSpan, Enter, Exit and Event; parentage is taken from
// the top of that stack.
//
// Spans live in a registry from NewSpan until TryClose. On close the span is
// checked against the target filter and, if enabled, handed to the
// TraceHandler. Events are buffered under their parent span, up to
// record.EventLimit of them; any event that cannot be buffered is sent to
// the handler on its own.
//
// A Subscriber is safe for concurrent use. The registry lock is never held
// while the handler runs.
package subscriber

import (
	"context"
	"github.com/thapovan-inc/orion-trace-correlator/activity"
	"github.com/thapovan-inc/orion-trace-correlator/bookkeeper"
	"github.com/thapovan-inc/orion-trace-correlator/filter"
	"github.com/thapovan-inc/orion-trace-correlator/handler"
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"github.com/zoobzio/clockz"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"io"
)

type Subscriber struct {
	ids        idAllocator
	targets    *filter.TargetFilter
	handler    handler.TraceHandler
	spans      *registry
	clock      clockz.Clock
	logger     *zap.Logger
	bookKeeper bookkeeper.BookKeeper
	stats      counters
}

// New builds a Subscriber sending finished records to h. targets uses the
// filter grammar, e.g. "pallet=debug,frame".
func New(h handler.TraceHandler, targets string, opts ...Option) *Subscriber {
	s := &Subscriber{
		targets: filter.Parse(targets),
		handler: h,
		spans:   newRegistry(),
		clock:   clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = util.GetLogger("tracing", "Subscriber")
	}
	if s.bookKeeper == nil {
		s.bookKeeper = bookkeeper.Noop()
	}
	return s
}

func (s *Subscriber) IsObservable(target string, level record.Level) bool {
	if s.targets.IsObservable(target, level) {
		s.logger.Debug("Enabled target", zap.String("target", target), zap.Stringer("level", level))
		return true
	}
	s.logger.Debug("Disabled target", zap.String("target", target), zap.Stringer("level", level))
	return false
}

func (s *Subscriber) Enabled(meta record.Metadata) bool {
	return s.IsObservable(meta.Target, meta.Level)
}

// NewSpan registers a span and returns its id. A bridged span whose real
// target is filtered out still consumes an id but is not stored; later
// calls with that id are no-ops.
func (s *Subscriber) NewSpan(ctx context.Context, meta record.Metadata, fields ...record.Field) uint64 {
	id := s.ids.next()
	values := record.NewValues(fields...)
	if bridgedTarget, ok := values.Get(record.BridgedTargetKey); ok {
		if !s.targets.IsEnabled(bridgedTarget, meta.Level) {
			s.stats.spansRejected.Add(1)
			s.bookKeeper.MarkSpanRejected(id)
			return id
		}
	}
	parentID, _ := activity.Current(ctx)
	s.spans.insert(record.Span{
		ID:        id,
		ParentID:  parentID,
		Name:      meta.Name,
		Target:    meta.Target,
		Level:     meta.Level,
		Line:      meta.Line,
		CreatedAt: s.clock.Now(),
		Values:    values,
	})
	s.stats.spansCreated.Add(1)
	return id
}

// Record merges fields into the attributes of span id.
func (s *Subscriber) Record(id uint64, fields ...record.Field) {
	s.spans.record(id, fields)
}

// RecordFollowsFrom is accepted for completeness; causal links between
// spans are not tracked.
func (s *Subscriber) RecordFollowsFrom(id, follows uint64) {
	s.logger.Debug("Ignoring follows-from", zap.Uint64("id", id), zap.Uint64("follows", follows))
}

func (s *Subscriber) Enter(ctx context.Context, id uint64) {
	if stack := activity.FromContext(ctx); stack != nil {
		stack.Push(id)
	}
	s.spans.enter(id, s.clock.Now())
}

// Exit pops the task's stack without looking at id; enter and exit are
// balanced per task.
func (s *Subscriber) Exit(ctx context.Context, id uint64) {
	if stack := activity.FromContext(ctx); stack != nil {
		stack.Pop()
	}
	s.spans.exit(id, s.clock.Now())
}

// Event attaches an event to the task's current span, or dispatches it on
// its own when there is no current span, the span is gone, or it already
// holds record.EventLimit events.
func (s *Subscriber) Event(ctx context.Context, meta record.Metadata, fields ...record.Field) {
	event := record.Event{
		Name:   meta.Name,
		Target: meta.Target,
		Level:  meta.Level,
		Values: record.NewValues(fields...),
	}
	parentID, ok := activity.Current(ctx)
	if !ok {
		s.dispatchEvent(event)
		return
	}
	event.ParentID = parentID
	switch s.spans.attach(parentID, event) {
	case attached:
		return
	case parentMissing:
		s.stats.orphanEvents.Add(1)
		s.logger.Warn("Parent span missing",
			zap.Uint64("parent_id", parentID),
			zap.Stringer("parent_state", s.bookKeeper.SpanState(parentID)))
	case parentFull:
		s.stats.overflowEvents.Add(1)
		s.logger.Warn("Accumulated too many events for span, sending event separately",
			zap.Uint64("parent_id", parentID),
			zap.Int("limit", record.EventLimit))
	}
	s.dispatchEvent(event)
}

func (s *Subscriber) dispatchEvent(event record.Event) {
	s.stats.standaloneEvents.Add(1)
	s.handler.ProcessEvent(event)
}

// TryClose finishes span id. It always reports true: closing an unknown or
// already closed id does nothing.
func (s *Subscriber) TryClose(id uint64) bool {
	span, ok := s.spans.remove(id)
	if !ok {
		if s.bookKeeper.SpanState(id) == bookkeeper.ClosedSpan {
			s.logger.Debug("Span already closed", zap.Uint64("id", id))
		}
		return true
	}
	s.bookKeeper.MarkSpanClosed(id)
	if span.Name == record.BridgedSpanName {
		unwrapBridged(&span)
	}
	// Checked here rather than at creation: the real target of a bridged
	// span is only known after unwrapping.
	if !s.targets.IsEnabled(span.Target, span.Level) {
		s.stats.spansDiscarded.Add(1)
		return true
	}
	s.stats.spansDispatched.Add(1)
	s.handler.ProcessSpan(span)
	return true
}

func (s *Subscriber) Stats() Stats {
	stats := s.stats.snapshot()
	stats.InFlight = s.spans.len()
	return stats
}

// Close drops any span still in flight and releases the handler and book
// keeper. The subscriber must not be used afterwards.
func (s *Subscriber) Close() error {
	if dropped := s.spans.drain(); len(dropped) > 0 {
		s.logger.Info("Dropping spans still in flight", zap.Int("count", len(dropped)))
	}
	var err error
	if closer, ok := s.handler.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	return multierr.Append(err, s.bookKeeper.Close())
}
