package subscriber

import (
	"github.com/thapovan-inc/orion-trace-correlator/bookkeeper"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

type Option func(*Subscriber)

// WithClock replaces the real clock, mostly for tests.
func WithClock(clock clockz.Clock) Option {
	return func(s *Subscriber) {
		s.clock = clock
	}
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Subscriber) {
		s.logger = logger
	}
}

func WithBookKeeper(bk bookkeeper.BookKeeper) Option {
	return func(s *Subscriber) {
		s.bookKeeper = bk
	}
}
