// Package bookkeeper remembers the fate of recently finished span ids so that
// diagnostics can tell a parent that already closed from one that was
// rejected at creation or never existed.
package bookkeeper

import (
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"time"
)

const (
	MEMORY = "memory"
	NONE   = "none"
)

type SpanState byte

const (
	UnknownSpan SpanState = iota
	ClosedSpan
	RejectedSpan
)

func (s SpanState) String() string {
	switch s {
	case ClosedSpan:
		return "closed"
	case RejectedSpan:
		return "rejected"
	default:
		return "unknown"
	}
}

type BookKeeper interface {
	MarkSpanClosed(id uint64)
	MarkSpanRejected(id uint64)
	SpanState(id uint64) SpanState

	init() error
	Discard() error
	Close() error
}

const defaultLifeWindow = 1 * time.Minute

func New(config util.BookKeeperConfig) (BookKeeper, error) {
	var bk BookKeeper
	switch config.Type {
	case "", MEMORY:
		lifeWindow := config.LifeWindow
		if lifeWindow <= 0 {
			lifeWindow = defaultLifeWindow
		}
		bk = &bigCacheBK{lifeWindow: lifeWindow}
	case NONE:
		bk = noopBK{}
	default:
		return nil, errors.NotSupportedf("book keeper type %q", config.Type)
	}
	if err := bk.init(); err != nil {
		return nil, errors.Annotate(err, "unable to init book keeper")
	}
	return bk, nil
}

type noopBK struct{}

func (noopBK) MarkSpanClosed(uint64)      {}
func (noopBK) MarkSpanRejected(uint64)    {}
func (noopBK) SpanState(uint64) SpanState { return UnknownSpan }
func (noopBK) init() error                { return nil }
func (noopBK) Discard() error             { return nil }
func (noopBK) Close() error               { return nil }

// Noop returns a BookKeeper that remembers nothing.
func Noop() BookKeeper {
	return noopBK{}
}
