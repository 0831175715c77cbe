package kernel

import (
	"context"
	"fmt"

	"gpuprim/buffer"
)

// Gather writes out[i] = in[idx[i]] for i < n (spec.md §4.6). No bounds
// checking: the caller guarantees idx[0:n] indexes within in, generalizing
// the teacher's inPlacePermuteInt64 family from an in-place, distinct-
// index cycle permutation to an arbitrary not-necessarily-injective
// indirection.
func Gather(ctx context.Context, out, in buffer.U32, idx buffer.U32, n int, disp buffer.Dispatcher) error {
	if n < 0 || n > out.Len() || n > idx.Len() {
		return fmt.Errorf("kernel: Gather requires n <= len(out) and len(idx), got n=%d len(out)=%d len(idx)=%d", n, out.Len(), idx.Len())
	}
	if disp == nil {
		return fmt.Errorf("kernel: Gather requires a non-nil Dispatcher")
	}
	if n == 0 {
		return nil
	}

	segments := int(ceilDiv(uint32(n), HistogramSegmentSize))
	grid := buffer.GridShape{X: uint32(segments)}
	return disp.Dispatch(ctx, grid, func(workgroup uint32) {
		start := int(workgroup) * HistogramSegmentSize
		end := start + HistogramSegmentSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			out[i] = in[idx[i]]
		}
	})
}

// ScatterBy writes out[idx[i]] = in[i] for i < len(idx) (spec.md §4.6). No
// bounds checking. Collisions are implementation-defined — the last
// workgroup to complete that index wins; the radix pipeline itself never
// issues colliding indices (spec.md §4.4 Step E's offset arithmetic writes
// each output index exactly once per pass), so this only matters for
// direct callers of ScatterBy.
func ScatterBy(ctx context.Context, out, in buffer.U32, idx buffer.U32, disp buffer.Dispatcher) error {
	n := idx.Len()
	if n > in.Len() {
		return fmt.Errorf("kernel: ScatterBy requires len(idx) <= len(in), got len(idx)=%d len(in)=%d", n, in.Len())
	}
	if disp == nil {
		return fmt.Errorf("kernel: ScatterBy requires a non-nil Dispatcher")
	}
	if n == 0 {
		return nil
	}

	segments := int(ceilDiv(uint32(n), HistogramSegmentSize))
	grid := buffer.GridShape{X: uint32(segments)}
	return disp.Dispatch(ctx, grid, func(workgroup uint32) {
		start := int(workgroup) * HistogramSegmentSize
		end := start + HistogramSegmentSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			out[idx[i]] = in[i]
		}
	})
}
