package subscriber

import (
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"sync"
	"time"
)

type entry struct {
	span record.Span
	// enteredAt is the start of the running segment while depth > 0.
	enteredAt time.Time
	depth     int
}

type attachResult int

const (
	attached attachResult = iota
	parentMissing
	parentFull
)

// registry owns in-flight spans from creation until close. Every method
// holds the lock for map work only.
type registry struct {
	mu    sync.Mutex
	spans map[uint64]*entry
}

func newRegistry() *registry {
	return &registry{spans: make(map[uint64]*entry)}
}

func (r *registry) insert(span record.Span) {
	r.mu.Lock()
	r.spans[span.ID] = &entry{span: span}
	r.mu.Unlock()
}

func (r *registry) record(id uint64, fields []record.Field) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.spans[id]
	if ok {
		e.span.Values.Merge(fields...)
	}
	return ok
}

// enter starts a segment on the outermost entry only, so a span entered
// again while already running is not counted twice.
func (r *registry) enter(id uint64, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.spans[id]
	if !ok {
		return
	}
	if e.depth == 0 {
		e.enteredAt = now
	}
	e.depth++
}

func (r *registry) exit(id uint64, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.spans[id]
	if !ok || e.depth == 0 {
		return
	}
	e.depth--
	if e.depth == 0 {
		if elapsed := now.Sub(e.enteredAt); elapsed > 0 {
			e.span.Duration += elapsed
		}
	}
}

func (r *registry) attach(parentID uint64, event record.Event) attachResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.spans[parentID]
	if !ok {
		return parentMissing
	}
	if len(e.span.Events) >= record.EventLimit {
		return parentFull
	}
	e.span.Events = append(e.span.Events, event)
	return attached
}

func (r *registry) remove(id uint64) (record.Span, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.spans[id]
	if !ok {
		return record.Span{}, false
	}
	delete(r.spans, id)
	return e.span, true
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spans)
}

// drain removes and returns every in-flight span.
func (r *registry) drain() []record.Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	spans := make([]record.Span, 0, len(r.spans))
	for id, e := range r.spans {
		spans = append(spans, e.span)
		delete(r.spans, id)
	}
	return spans
}
