package subscriber

import (
	"sync/atomic"
)

// idAllocator hands out span ids starting at 1. Ids are never reused.
type idAllocator struct {
	last atomic.Uint64
}

func (a *idAllocator) next() uint64 {
	return a.last.Add(1)
}
