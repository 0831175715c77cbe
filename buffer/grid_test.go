package buffer

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolDispatcherRunsEveryWorkgroup(t *testing.T) {
	var count atomic.Int64
	d := NewWorkerPoolDispatcher()
	err := d.Dispatch(context.Background(), GridShape{X: 1000}, func(uint32) {
		count.Add(1)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), count.Load())
}

func TestWorkerPoolDispatcherEmptyGrid(t *testing.T) {
	d := NewWorkerPoolDispatcher()
	called := false
	err := d.Dispatch(context.Background(), GridShape{X: 0}, func(uint32) { called = true })
	require.NoError(t, err)
	assert.False(t, called)
}

func TestWorkerPoolDispatcherCancelledContext(t *testing.T) {
	d := NewWorkerPoolDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Dispatch(ctx, GridShape{X: 4}, func(uint32) {})
	assert.Error(t, err)
}

func TestGroupCounterMonotonic(t *testing.T) {
	var c GroupCounter
	seen := make(map[uint32]bool)
	for i := 0; i < 500; i++ {
		v := c.Next()
		assert.False(t, seen[v], "GroupCounter must never hand out the same index twice")
		seen[v] = true
	}
	assert.Len(t, seen, 500)
}

func TestGroupCounterConcurrent(t *testing.T) {
	var c GroupCounter
	d := NewWorkerPoolDispatcher()
	results := make([]uint32, 2000)
	err := d.Dispatch(context.Background(), GridShape{X: 2000}, func(workgroup uint32) {
		results[workgroup] = c.Next()
	})
	require.NoError(t, err)

	seen := make(map[uint32]bool, len(results))
	for _, v := range results {
		assert.False(t, seen[v], "concurrent GroupCounter.Next() calls must never collide")
		seen[v] = true
		assert.Less(t, v, uint32(len(results)))
	}
}
