// Package activity tracks the spans a task has entered.
//
// Each task owns one Stack, carried in its context.Context. A Stack is never
// shared between goroutines and does no locking. A new goroutine should call
// Detach so that it starts with an empty stack: parentage does not follow
// work across goroutine boundaries.
//
// Tasks that are multiplexed onto shared workers and suspended between
// steps take a Snapshot before suspending and Restore it when resumed, so
// interleaved tasks cannot corrupt each other's parent chain.
package activity

import (
	"context"
)

type Stack struct {
	ids []uint64
}

func NewStack() *Stack {
	return &Stack{ids: make([]uint64, 0, 8)}
}

func (s *Stack) Push(id uint64) {
	s.ids = append(s.ids, id)
}

// Pop removes the top entry. Enter and exit are well nested per task, so the
// id being exited is not checked. Popping an empty stack does nothing.
func (s *Stack) Pop() (uint64, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	top := s.ids[len(s.ids)-1]
	s.ids = s.ids[:len(s.ids)-1]
	return top, true
}

func (s *Stack) Current() (uint64, bool) {
	if s == nil || len(s.ids) == 0 {
		return 0, false
	}
	return s.ids[len(s.ids)-1], true
}

func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

func (s *Stack) Snapshot() []uint64 {
	snapshot := make([]uint64, len(s.ids))
	copy(snapshot, s.ids)
	return snapshot
}

func (s *Stack) Restore(snapshot []uint64) {
	s.ids = append(s.ids[:0], snapshot...)
}

type stackKeyType struct{}

var stackKey stackKeyType

// NewContext binds a fresh stack to ctx.
func NewContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, stackKey, NewStack())
}

// Detach is NewContext under the name used when handing ctx to a new
// goroutine.
func Detach(ctx context.Context) context.Context {
	return NewContext(ctx)
}

// FromContext returns the stack bound to ctx, or nil.
func FromContext(ctx context.Context) *Stack {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(stackKey).(*Stack)
	return s
}

// Current returns the innermost entered span of the task owning ctx.
func Current(ctx context.Context) (uint64, bool) {
	return FromContext(ctx).Current()
}
