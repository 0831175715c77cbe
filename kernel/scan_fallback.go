package kernel

import (
	"context"
	"fmt"

	"gpuprim/buffer"
)

// PrefixSumMultiPass is the classical three-pass fallback scan spec.md
// §4.1/§9 requires implementations to offer for environments that cannot
// guarantee the weak-OBE forward-progress model decoupled lookback depends
// on: segment reduction, a serial scan over segment totals, then a uniform
// per-segment add. Slower (three full passes over the data instead of one)
// but correct under any scheduler, including one that can starve an
// earlier-indexed workgroup indefinitely.
func PrefixSumMultiPass(ctx context.Context, data buffer.U32, exclusive bool, disp buffer.Dispatcher) error {
	n := len(data)
	if n == 0 {
		return nil
	}
	if disp == nil {
		return fmt.Errorf("kernel: PrefixSumMultiPass requires a non-nil Dispatcher")
	}

	segments := int(ceilDiv(uint32(n), ScanSegmentSize))
	local := make([][]uint32, segments)
	sums := make([]uint32, segments)

	grid := buffer.GridShape{X: uint32(segments)}

	// Pass 1: per-segment local scan + reduction, no cross-segment
	// communication at all.
	err := disp.Dispatch(ctx, grid, func(workgroup uint32) {
		seg := int(workgroup)
		start := seg * ScanSegmentSize
		end := start + ScanSegmentSize
		if end > n {
			end = n
		}
		width := end - start
		if width <= 0 {
			local[seg] = nil
			return
		}
		buf := make([]uint32, width)
		copy(buf, data[start:end])
		for stride := 1; stride < width; stride *= 2 {
			for i := width - 1; i >= stride; i-- {
				buf[i] += buf[i-stride]
			}
		}
		local[seg] = buf
		sums[seg] = buf[width-1]
	})
	if err != nil {
		return err
	}

	// Pass 2: serial exclusive scan over segment sums. Negligible size
	// (one entry per 2048 elements), done without dispatch.
	bases := make([]uint32, segments)
	var running uint32
	for i, s := range sums {
		bases[i] = running
		running += s
	}

	// Pass 3: uniform add of each segment's base into its local scan.
	return disp.Dispatch(ctx, grid, func(workgroup uint32) {
		seg := int(workgroup)
		start := seg * ScanSegmentSize
		end := start + ScanSegmentSize
		if end > n {
			end = n
		}
		width := end - start
		if width <= 0 {
			return
		}
		base := bases[seg]
		buf := local[seg]
		for i := 0; i < width; i++ {
			if exclusive {
				if i == 0 {
					data[start+i] = base
				} else {
					data[start+i] = base + buf[i-1]
				}
			} else {
				data[start+i] = base + buf[i]
			}
		}
	})
}
