package buffer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// GridShape is a 1-D compute grid shape. Y and Z are carried for parity with
// the indirect-dispatch triples the dispatch generator writes (spec.md
// §4.7) but this core never launches a grid wider than one dimension.
type GridShape struct {
	X, Y, Z uint32
}

// Dispatcher launches a compute grid of workgroups. kernel is invoked
// exactly once per workgroup index in [0, grid.X), except that workgroups
// not yet started when ctx is canceled are skipped and Dispatch then
// returns ctx.Err(); workgroup indices are
// NOT guaranteed to start in order, only to all eventually run (weak OBE,
// spec.md §4.1, §5, §9).
type Dispatcher interface {
	Dispatch(ctx context.Context, grid GridShape, kernel func(workgroup uint32)) error
}

// WorkerPoolDispatcher is the default Dispatcher. It launches one goroutine
// per workgroup, never a bounded pool: the decoupled-lookback protocols in
// kernel/scan and kernel/radix require that every scheduled workgroup
// eventually makes progress while earlier-indexed workgroups may still be
// spinning on a predecessor's status slot (weak OBE, spec.md §4.1 "Failure
// modes"). A worker pool narrower than the longest live predecessor chain
// can deadlock: workgroup k spins waiting for k-1's publish, but k-1 never
// gets a goroutine because the pool is saturated by later-indexed
// workgroups that raced ahead. Go's goroutine scheduler has been
// preemptive since 1.14, so an unconditional one-goroutine-per-workgroup
// launch is the cheapest way to satisfy weak OBE without a custom runtime.
type WorkerPoolDispatcher struct {
	// MaxConcurrency records the thread count the dispatcher was created
	// with (runtime.GOMAXPROCS(0) in NewWorkerPoolDispatcher, the teacher's
	// radix_writer.go sharding default). Dispatch does not read it: it
	// neither caps goroutines nor changes the runtime's thread limit.
	MaxConcurrency int
}

// NewWorkerPoolDispatcher returns a dispatcher whose MaxConcurrency is set
// to GOMAXPROCS(0).
func NewWorkerPoolDispatcher() *WorkerPoolDispatcher {
	return &WorkerPoolDispatcher{MaxConcurrency: runtime.GOMAXPROCS(0)}
}

// Dispatch runs kernel(0), kernel(1), ..., kernel(grid.X-1) concurrently,
// one goroutine per workgroup index.
func (d *WorkerPoolDispatcher) Dispatch(ctx context.Context, grid GridShape, kernel func(workgroup uint32)) error {
	if grid.X == 0 {
		return nil
	}
	if kernel == nil {
		return fmt.Errorf("buffer: Dispatch called with nil kernel")
	}

	var wg sync.WaitGroup
	var canceled atomic.Bool
	wg.Add(int(grid.X))
	for wg_ := uint32(0); wg_ < grid.X; wg_++ {
		go func(workgroup uint32) {
			defer wg.Done()
			if ctx.Err() != nil {
				canceled.Store(true)
				return
			}
			kernel(workgroup)
		}(wg_)
	}
	wg.Wait()
	if canceled.Load() {
		return ctx.Err()
	}
	return nil
}

// GroupCounter is the atomic group-index assigner from spec.md §3: each
// workgroup acquires its logical segment index by atomic increment at
// entry, decoupling logical segment order from scheduling order.
type GroupCounter struct {
	n atomic.Uint32
}

// Next returns the next monotonically increasing group index, starting at 0.
func (g *GroupCounter) Next() uint32 {
	return g.n.Add(1) - 1
}
