package subscriber

import (
	"sync/atomic"
)

// Stats is a snapshot of the subscriber's counters. StandaloneEvents counts
// every event sent straight to the handler; OrphanEvents and OverflowEvents
// are the subsets caused by a missing parent and a full parent.
type Stats struct {
	SpansCreated     uint64
	SpansRejected    uint64
	SpansDispatched  uint64
	SpansDiscarded   uint64
	StandaloneEvents uint64
	OrphanEvents     uint64
	OverflowEvents   uint64
	InFlight         int
}

type counters struct {
	spansCreated     atomic.Uint64
	spansRejected    atomic.Uint64
	spansDispatched  atomic.Uint64
	spansDiscarded   atomic.Uint64
	standaloneEvents atomic.Uint64
	orphanEvents     atomic.Uint64
	overflowEvents   atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		SpansCreated:     c.spansCreated.Load(),
		SpansRejected:    c.spansRejected.Load(),
		SpansDispatched:  c.spansDispatched.Load(),
		SpansDiscarded:   c.spansDiscarded.Load(),
		StandaloneEvents: c.standaloneEvents.Load(),
		OrphanEvents:     c.orphanEvents.Load(),
		OverflowEvents:   c.overflowEvents.Load(),
	}
}
