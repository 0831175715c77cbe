package kernel

import (
	"context"
	"fmt"

	"gpuprim/buffer"
)

// GlobalBucketOffsets transforms each of the four 256-entry rows of hist in
// place from occurrence counts into exclusive prefix sums (spec.md §4.3):
// hist[g*RadixDigits+d] becomes the base output offset of digit d within
// radix group g. One workgroup per radix group (4 total), matching spec.md
// exactly — the shared workspace is sized to RadixDigits (256), not to an
// arbitrary workgroup size, so there is no unread tail-lane slot (spec.md
// §9's second open question does not apply to this implementation).
func GlobalBucketOffsets(ctx context.Context, hist []uint32, disp buffer.Dispatcher) error {
	if len(hist) != RadixGroups*RadixDigits {
		return fmt.Errorf("kernel: GlobalBucketOffsets requires hist of length %d, got %d", RadixGroups*RadixDigits, len(hist))
	}
	if disp == nil {
		return fmt.Errorf("kernel: GlobalBucketOffsets requires a non-nil Dispatcher")
	}

	grid := buffer.GridShape{X: RadixGroups}
	return disp.Dispatch(ctx, grid, func(workgroup uint32) {
		row := hist[workgroup*RadixDigits : workgroup*RadixDigits+RadixDigits]

		var scan [RadixDigits]uint32
		copy(scan[:], row)
		for stride := 1; stride < RadixDigits; stride *= 2 {
			for i := RadixDigits - 1; i >= stride; i-- {
				scan[i] += scan[i-stride]
			}
		}

		// Shift right by one lane: exclusive[i] = inclusive[i-1], slot 0 <- 0.
		row[0] = 0
		for i := RadixDigits - 1; i >= 1; i-- {
			row[i] = scan[i-1]
		}
	})
}
