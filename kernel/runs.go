package kernel

import (
	"context"
	"fmt"

	"gpuprim/buffer"
)

// FindRuns locates every maximal run of equal values in sorted[0:n],
// which must already be non-decreasing (spec.md §4.5). It returns the
// number of distinct runs and their strictly increasing starting indices,
// runStarts[0:runCount], with runStarts[0] == 0. marks must be a scratch
// buffer of length n, zeroed by the caller (spec.md §6 "Scratch T[n]");
// FindRuns overwrites it with each position's 0-based run index.
func FindRuns(ctx context.Context, sorted buffer.U32, marks buffer.U32, n int, disp buffer.Dispatcher) (runCount int, runStarts []uint32, err error) {
	if n < 0 || n > sorted.Len() || n > marks.Len() {
		return 0, nil, fmt.Errorf("kernel: FindRuns requires n <= len(sorted) and len(marks), got n=%d len(sorted)=%d len(marks)=%d", n, sorted.Len(), marks.Len())
	}
	if disp == nil {
		return 0, nil, fmt.Errorf("kernel: FindRuns requires a non-nil Dispatcher")
	}
	if n == 0 {
		return 0, nil, nil
	}

	// Sub-kernel 1: mark run starts (spec.md §4.5 step 1). Segmented the
	// same as a scan pass, since this is a scan-shaped elementwise compare.
	segments := int(ceilDiv(uint32(n), ScanSegmentSize))
	grid := buffer.GridShape{X: uint32(segments)}
	err = disp.Dispatch(ctx, grid, func(workgroup uint32) {
		start := int(workgroup) * ScanSegmentSize
		end := start + ScanSegmentSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			if i == 0 {
				continue
			}
			if sorted[i] != sorted[i-1] {
				marks[i] = 1
			}
		}
	})
	if err != nil {
		return 0, nil, fmt.Errorf("kernel: FindRuns mark phase: %w", err)
	}

	// Sub-kernel 2: inclusive scan over the marks reuses the decoupled-
	// lookback prefix sum (spec.md §2, §4.5 step 2) — the literal
	// machinery-reuse the spec calls out.
	if err := PrefixSum(ctx, marks[:n], false, disp); err != nil {
		return 0, nil, fmt.Errorf("kernel: FindRuns scan phase: %w", err)
	}

	// Sub-kernel 3: run count, the "count - 1" form spec.md §9 resolves
	// the off-by-one ambiguity in favor of.
	runCount = int(marks[n-1]) + 1

	// Sub-kernel 4: collect run starts (spec.md §4.5 step 4).
	runStarts = make([]uint32, runCount)
	err = disp.Dispatch(ctx, grid, func(workgroup uint32) {
		start := int(workgroup) * ScanSegmentSize
		end := start + ScanSegmentSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			if i == 0 || marks[i] != marks[i-1] {
				runStarts[marks[i]] = uint32(i)
			}
		}
	})
	if err != nil {
		return 0, nil, fmt.Errorf("kernel: FindRuns collect phase: %w", err)
	}
	return runCount, runStarts, nil
}
