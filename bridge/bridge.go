// Package bridge is a host-facing façade over the kernel package: it
// allocates the caller-side buffers the kernels take as arguments (the
// radix ping-pong buffers and the zeroed FindRuns mark buffer), and exposes handle-based
// entry points in the same opaque-integer-handle idiom as the teacher's
// cgo bridge (bridge/bridge.go: NewDataFrame/AddSeries/DeleteDataFrame).
// Unlike the teacher's package this is a plain in-process Go API (no
// `import "C"` export build) — a CLI or host binding layer is explicitly
// out of scope (spec.md §1) — but the handle-table shape, and the "host
// assembles scratch + dispatcher + kernel call" sequencing it models, is
// exactly what spec.md §6 describes as the external contract.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"gpuprim/buffer"
	"gpuprim/kernel"
)

// Session holds a dispatcher. A caller opens a Session, runs any number of
// operations against it, and closes it when done. Each operation allocates
// its own scratch buffers, so operations share only the dispatcher.
type Session struct {
	disp buffer.Dispatcher
}

var (
	mu         sync.Mutex
	sessions   = make(map[int64]*Session)
	nextHandle int64 = 1
)

// NewSession creates a session backed by the default worker-pool
// dispatcher and returns its handle. Handles start at 1 and increase by
// one per call; NewSession never fails and never returns the -1 sentinel
// the teacher's NewDataFrame uses for an unusable handle.
func NewSession() int64 {
	mu.Lock()
	defer mu.Unlock()
	h := nextHandle
	nextHandle++
	sessions[h] = &Session{disp: buffer.NewWorkerPoolDispatcher()}
	return h
}

// CloseSession releases a session's handle. Closing an already-closed or
// unknown handle is a no-op.
func CloseSession(handle int64) {
	mu.Lock()
	defer mu.Unlock()
	delete(sessions, handle)
}

func lookup(handle int64) (*Session, error) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := sessions[handle]
	if !ok {
		return nil, fmt.Errorf("bridge: unknown session handle %d", handle)
	}
	return s, nil
}

// PrefixSum overwrites data in place with its prefix sum (spec.md §6
// prefix_sum). kernel.PrefixSum allocates its group-state scratch itself;
// the caller supplies only the data buffer.
func (s *Session) PrefixSum(ctx context.Context, data []uint32, exclusive bool) error {
	return kernel.PrefixSum(ctx, buffer.U32(data), exclusive, s.disp)
}

// PrefixSum is the package-level convenience wrapper taking a handle,
// matching the teacher's C.int64_t-handle export functions.
func PrefixSum(ctx context.Context, handle int64, data []uint32, exclusive bool) error {
	s, err := lookup(handle)
	if err != nil {
		return err
	}
	return s.PrefixSum(ctx, data, exclusive)
}

// RadixSort sorts keys ascending in place (spec.md §6 radix_sort). The
// session allocates the ping-pong buffer; kernel.RadixSort allocates the
// four 8-bit-group histograms and a fresh segment-state table per pass.
func (s *Session) RadixSort(ctx context.Context, keys []uint32) error {
	n := len(keys)
	alt := make([]uint32, n)
	return kernel.RadixSort(ctx, buffer.U32(keys), buffer.U32(alt), n, s.disp)
}

func RadixSort(ctx context.Context, handle int64, keys []uint32) error {
	s, err := lookup(handle)
	if err != nil {
		return err
	}
	return s.RadixSort(ctx, keys)
}

// RadixSortBy sorts keys ascending in place and permutes values
// identically (spec.md §6 radix_sort_by).
func (s *Session) RadixSortBy(ctx context.Context, keys, values []uint32) error {
	if len(keys) != len(values) {
		return fmt.Errorf("bridge: RadixSortBy requires len(keys) == len(values), got %d and %d", len(keys), len(values))
	}
	n := len(keys)
	altKeys := make([]uint32, n)
	altValues := make([]uint32, n)
	return kernel.RadixSortBy(ctx, buffer.U32(keys), buffer.U32(altKeys), buffer.U32(values), buffer.U32(altValues), n, s.disp)
}

func RadixSortBy(ctx context.Context, handle int64, keys, values []uint32) error {
	s, err := lookup(handle)
	if err != nil {
		return err
	}
	return s.RadixSortBy(ctx, keys, values)
}

// FindRuns returns the run count and run-start indices of a sorted buffer
// (spec.md §6 find_runs). The session allocates the zeroed mark scratch.
func (s *Session) FindRuns(ctx context.Context, sorted []uint32) (runCount int, runStarts []uint32, err error) {
	n := len(sorted)
	marks := make([]uint32, n)
	return kernel.FindRuns(ctx, buffer.U32(sorted), buffer.U32(marks), n, s.disp)
}

func FindRuns(ctx context.Context, handle int64, sorted []uint32) (runCount int, runStarts []uint32, err error) {
	s, err := lookup(handle)
	if err != nil {
		return 0, nil, err
	}
	return s.FindRuns(ctx, sorted)
}
