package kernel

import (
	"context"
	"fmt"
	"sync/atomic"

	"gpuprim/buffer"
)

// ComputeHistograms builds the four 256-entry global histograms H[g][d]
// (spec.md §4.2) from keys[0:n]. hist must have length RadixGroups *
// RadixDigits (1024) and should be zeroed by the caller; on return
// hist[g*RadixDigits+d] holds the number of keys whose radix group g digit
// equals d. Bins sum to n within each group (spec.md §3 invariant).
func ComputeHistograms(ctx context.Context, keys buffer.U32, hist []uint32, disp buffer.Dispatcher) error {
	n := keys.Len()
	if len(hist) != RadixGroups*RadixDigits {
		return fmt.Errorf("kernel: ComputeHistograms requires hist of length %d, got %d", RadixGroups*RadixDigits, len(hist))
	}
	if n == 0 {
		return nil
	}
	if disp == nil {
		return fmt.Errorf("kernel: ComputeHistograms requires a non-nil Dispatcher")
	}

	segments := int(ceilDiv(uint32(n), HistogramSegmentSize))
	globalHist := make([]atomic.Uint32, RadixGroups*RadixDigits)

	grid := buffer.GridShape{X: uint32(segments)}
	err := disp.Dispatch(ctx, grid, func(workgroup uint32) {
		seg := int(workgroup)
		start := seg * HistogramSegmentSize
		end := start + HistogramSegmentSize
		if end > n {
			end = n
		}

		// Thread-local -> workgroup-local -> global accumulation bounds
		// global-atomic contention to O(256 * #workgroups * 4)
		// regardless of n (spec.md §4.2).
		var local [RadixGroups][RadixDigits]uint32
		for i := start; i < end; i++ {
			key := keys[i]
			for g := 0; g < RadixGroups; g++ {
				d := digitOf(key, radixOffsets[g])
				local[g][d]++
			}
		}
		for g := 0; g < RadixGroups; g++ {
			for d := 0; d < RadixDigits; d++ {
				if local[g][d] == 0 {
					continue
				}
				globalHist[g*RadixDigits+d].Add(local[g][d])
			}
		}
	})
	if err != nil {
		return err
	}

	for i := range hist {
		hist[i] = globalHist[i].Load()
	}
	return nil
}
