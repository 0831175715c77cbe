package kernel

import (
	"context"
	"fmt"

	"gpuprim/buffer"
)

// RadixSort sorts keys[0:n] ascending in place using the four-pass LSD
// radix scatter (spec.md §4.4, §6). alt must be a scratch buffer of the
// same length as keys; the two buffers ping-pong across the four 8-bit
// passes, and alt holds intermediate data on return. RadixSort always
// leaves the final sorted sequence in keys by swapping the caller's views
// an even number of times (four passes).
func RadixSort(ctx context.Context, keys, alt buffer.U32, n int, disp buffer.Dispatcher) error {
	return radixSortCore(ctx, keys, alt, nil, nil, false, n, disp)
}

// RadixSortBy sorts keys[0:n] ascending in place and permutes values[0:n]
// identically (spec.md §4.4 "Ping-pong", §6 radix_sort_by). altKeys and
// altValues are scratch buffers the same length as keys/values.
func RadixSortBy(ctx context.Context, keys, altKeys, values, altValues buffer.U32, n int, disp buffer.Dispatcher) error {
	return radixSortCore(ctx, keys, altKeys, values, altValues, true, n, disp)
}

func radixSortCore(ctx context.Context, keys, alt, values, altValues buffer.U32, hasValues bool, n int, disp buffer.Dispatcher) error {
	if n < 0 || n > keys.Len() || n > alt.Len() {
		return fmt.Errorf("kernel: RadixSort requires n <= len(keys) and len(alt), got n=%d len(keys)=%d len(alt)=%d", n, keys.Len(), alt.Len())
	}
	if n >= MaxElements {
		return fmt.Errorf("kernel: RadixSort: n=%d exceeds the 30-bit segment-state payload bound (%d, spec.md §7)", n, MaxElements)
	}
	if hasValues && (n > values.Len() || n > altValues.Len()) {
		return fmt.Errorf("kernel: RadixSortBy requires n <= len(values) and len(altValues), got n=%d len(values)=%d len(altValues)=%d", n, values.Len(), altValues.Len())
	}
	if disp == nil {
		return fmt.Errorf("kernel: RadixSort requires a non-nil Dispatcher")
	}
	if n <= 1 {
		return nil
	}

	segments := int(ceilDiv(uint32(n), ScatterSegmentSize))
	cur, next := keys, alt
	valCur, valNext := values, altValues

	for pass := 0; pass < RadixGroups; pass++ {
		radixOffset := radixOffsets[pass]

		hist := make([]uint32, RadixGroups*RadixDigits)
		if err := ComputeHistograms(ctx, cur[:n], hist, disp); err != nil {
			return fmt.Errorf("kernel: RadixSort pass %d histogram: %w", pass, err)
		}
		if err := GlobalBucketOffsets(ctx, hist, disp); err != nil {
			return fmt.Errorf("kernel: RadixSort pass %d offsets: %w", pass, err)
		}
		base := hist[pass*RadixDigits : pass*RadixDigits+RadixDigits]

		table := buffer.NewSegmentStateTable(segments, RadixDigits)
		var counter buffer.GroupCounter

		grid := buffer.GridShape{X: uint32(segments)}
		err := disp.Dispatch(ctx, grid, func(uint32) {
			groupIndex := counter.Next()
			radixScatterSegment(cur, next, valCur, valNext, hasValues, n, int(groupIndex), radixOffset, base, table)
		})
		if err != nil {
			return fmt.Errorf("kernel: RadixSort pass %d scatter: %w", pass, err)
		}

		cur, next = next, cur
		if hasValues {
			valCur, valNext = valNext, valCur
		}
	}

	// Four passes (an even count) means cur is back to pointing at the
	// caller's original keys buffer; nothing further to copy.
	if &cur[0] != &keys[0] {
		// Defensive: only reachable if RadixGroups is ever changed to an
		// odd count. Copy the sorted data back into the caller's buffer.
		copy(keys[:n], cur[:n])
		if hasValues {
			copy(values[:n], valCur[:n])
		}
	}
	return nil
}
