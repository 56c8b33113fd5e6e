package main

import (
	"context"
	"github.com/thapovan-inc/orion-trace-correlator/activity"
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"github.com/thapovan-inc/orion-trace-correlator/subscriber"
	"strconv"
	"sync"
)

var (
	blockSite     = record.Metadata{Name: "execute_block", Target: "runtime", Level: record.INFO, Line: 12}
	extrinsicSite = record.Metadata{Name: "apply_extrinsic", Target: "runtime::executive", Level: record.DEBUG, Line: 40}
	bridgeSite    = record.Metadata{Name: record.BridgedSpanName, Target: record.ProxyTarget, Level: record.INFO, Line: 77}
	storageSite   = record.Metadata{Name: "storage_read", Target: "state", Level: record.TRACE, Line: 91}
	finalizeSite  = record.Metadata{Name: "finalized", Target: "runtime", Level: record.INFO, Line: 120}
	idleSite      = record.Metadata{Name: "idle", Target: "runtime::worker", Level: record.DEBUG, Line: 5}
)

// workload drives the subscriber the way an instrumented node would: each
// worker goroutine executes blocks made of nested extrinsic spans, storage
// events and one bridged call.
type workload struct {
	sub        *subscriber.Subscriber
	workers    int
	iterations int
	depth      int
}

func (w *workload) run(ctx context.Context) {
	wg := sync.WaitGroup{}
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			taskCtx := activity.Detach(ctx)
			for block := 0; w.iterations == 0 || block < w.iterations; block++ {
				if ctx.Err() != nil {
					return
				}
				w.executeBlock(taskCtx, worker, block)
			}
		}(i)
	}
	wg.Wait()
}

func (w *workload) span(ctx context.Context, meta record.Metadata, body func(), fields ...record.Field) {
	if !w.sub.Enabled(meta) {
		body()
		return
	}
	id := w.sub.NewSpan(ctx, meta, fields...)
	w.sub.Enter(ctx, id)
	body()
	w.sub.Exit(ctx, id)
	w.sub.TryClose(id)
}

func (w *workload) event(ctx context.Context, meta record.Metadata, fields ...record.Field) {
	if w.sub.Enabled(meta) {
		w.sub.Event(ctx, meta, fields...)
	}
}

func (w *workload) executeBlock(ctx context.Context, worker, block int) {
	w.span(ctx, blockSite, func() {
		w.applyExtrinsic(ctx, w.depth)
		w.span(ctx, bridgeSite, func() {
			w.event(ctx, storageSite, record.String("key", "balances"))
		},
			record.String(record.BridgedNameKey, "transfer"),
			record.String(record.BridgedTargetKey, "pallet_balances"))
		w.event(ctx, finalizeSite, record.Int64("block", int64(block)))
	}, record.Int64("worker", int64(worker)), record.Int64("block", int64(block)))
	w.event(ctx, idleSite, record.Int64("worker", int64(worker)))
}

func (w *workload) applyExtrinsic(ctx context.Context, depth int) {
	if depth <= 0 {
		return
	}
	w.span(ctx, extrinsicSite, func() {
		w.event(ctx, storageSite, record.String("key", "system:"+strconv.Itoa(depth)))
		w.applyExtrinsic(ctx, depth-1)
	}, record.Int64("depth", int64(depth)))
}
