package activity

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

func TestStackLIFO(t *testing.T) {
	s := NewStack()
	_, ok := s.Current()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(2), cur)

	top, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(2), top)
	cur, _ = s.Current()
	assert.Equal(t, uint64(1), cur)

	s.Pop()
	_, ok = s.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStack()
	s.Push(10)
	s.Push(11)
	saved := s.Snapshot()

	s.Pop()
	s.Push(99)
	s.Push(100)

	s.Restore(saved)
	assert.Equal(t, 2, s.Len())
	cur, _ := s.Current()
	assert.Equal(t, uint64(11), cur)

	// The snapshot is a copy.
	s.Push(12)
	assert.Equal(t, []uint64{10, 11}, saved)
}

func TestContextBinding(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	_, ok := Current(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background())
	FromContext(ctx).Push(5)
	cur, ok := Current(ctx)
	require.True(t, ok)
	assert.Equal(t, uint64(5), cur)

	detached := Detach(ctx)
	_, ok = Current(detached)
	assert.False(t, ok)
	cur, _ = Current(ctx)
	assert.Equal(t, uint64(5), cur)
}

func TestStacksAreIndependentPerGoroutine(t *testing.T) {
	root := NewContext(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			ctx := Detach(root)
			for j := 0; j < 100; j++ {
				FromContext(ctx).Push(id)
				cur, _ := Current(ctx)
				assert.Equal(t, id, cur)
				FromContext(ctx).Pop()
			}
		}(uint64(i + 1))
	}
	wg.Wait()
	assert.Equal(t, 0, FromContext(root).Len())
}
