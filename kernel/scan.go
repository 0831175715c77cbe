package kernel

import (
	"context"
	"fmt"
	"sync/atomic"

	"gpuprim/buffer"
)

// dlsStatus is the per-segment status of the decoupled-lookback scan
// (spec.md §3, §4.1): X (not ready), A (aggregate published), P (inclusive
// prefix published).
type dlsStatus uint32

const (
	dlsNotReady dlsStatus = iota
	dlsAggregate
	dlsPrefix
)

// dlsGroupState is one segment's decoupled-lookback state: three
// independent atomic u32 slots (spec.md §3 — unlike the radix segment
// table, scan payloads are full 32-bit sums, so they are not packed into
// buffer.SegSlot's 30-bit payload). Cache-line padded so adjacent segments'
// spin-loops never bounce the same line.
type dlsGroupState struct {
	aggregate       atomic.Uint32
	inclusivePrefix atomic.Uint32
	status          atomic.Uint32 // dlsStatus
	_               [64 - 3*4]byte
}

func (g *dlsGroupState) publishAggregate(v uint32) {
	g.aggregate.Store(v)
	g.status.Store(uint32(dlsAggregate))
}

func (g *dlsGroupState) publishPrefix(v uint32) {
	g.inclusivePrefix.Store(v)
	g.status.Store(uint32(dlsPrefix))
}

func (g *dlsGroupState) load() (dlsStatus, uint32) {
	st := dlsStatus(g.status.Load())
	switch st {
	case dlsPrefix:
		return st, g.inclusivePrefix.Load()
	case dlsAggregate:
		return st, g.aggregate.Load()
	default:
		return st, 0
	}
}

// PrefixSum overwrites data in place with its inclusive or exclusive
// prefix sum, using the single-pass decoupled-lookback scan (spec.md
// §4.1). Addition wraps at 2^32; there is no overflow detection. disp must
// provide weak-OBE forward progress (buffer.WorkerPoolDispatcher does); see
// PrefixSumMultiPass for dispatchers that cannot guarantee that.
func PrefixSum(ctx context.Context, data buffer.U32, exclusive bool, disp buffer.Dispatcher) error {
	n := len(data)
	if n == 0 {
		return nil
	}
	if disp == nil {
		return fmt.Errorf("kernel: PrefixSum requires a non-nil Dispatcher")
	}

	segments := int(ceilDiv(uint32(n), ScanSegmentSize))
	states := make([]dlsGroupState, segments)
	var counter buffer.GroupCounter

	grid := buffer.GridShape{X: uint32(segments)}
	return disp.Dispatch(ctx, grid, func(uint32) {
		groupIndex := counter.Next()
		scanSegment(data, n, int(groupIndex), exclusive, states)
	})
}

// scanSegment performs the full three-phase decoupled-lookback scan for one
// segment: local Hillis-Steele scan, lookback over predecessors, broadcast
// and apply.
func scanSegment(data buffer.U32, n int, groupIndex int, exclusive bool, states []dlsGroupState) {
	start := groupIndex * ScanSegmentSize
	end := start + ScanSegmentSize
	if end > n {
		end = n
	}
	if start >= end {
		// Empty segment: unreachable, since PrefixSum dispatches exactly
		// ceilDiv(n, ScanSegmentSize) workgroups, so every group index
		// names a non-empty segment. This branch publishes no state.
		return
	}
	width := end - start

	// Phase 1: local inclusive Hillis-Steele scan over this segment.
	local := make([]uint32, width)
	copy(local, data[start:end])
	for stride := 1; stride < width; stride *= 2 {
		for i := width - 1; i >= stride; i-- {
			local[i] += local[i-stride]
		}
	}
	aggregate := local[width-1]

	state := &states[groupIndex]

	// Phase 2: decoupled lookback (spec.md §4.1 Phase 2).
	var prefix uint32
	if groupIndex == 0 {
		state.publishPrefix(aggregate)
	} else {
		state.publishAggregate(aggregate)
		var running uint32
		for i := groupIndex - 1; i >= 0; i-- {
			st, val := spinLoad(&states[i])
			running += val
			if st == dlsPrefix {
				break
			}
			// st == dlsAggregate: keep walking backwards.
		}
		prefix = running
		state.publishPrefix(running + aggregate)
	}

	// Phase 3: broadcast prefix, write output.
	for i := 0; i < width; i++ {
		if exclusive {
			if i == 0 {
				data[start+i] = prefix
			} else {
				data[start+i] = prefix + local[i-1]
			}
		} else {
			data[start+i] = prefix + local[i]
		}
	}
}

// spinLoad busy-waits on a predecessor segment's status until it reports A
// or P (spec.md §5 "Suspension / blocking": a thread never blocks except at
// barriers and at inter-workgroup spin-loads of another segment's status).
func spinLoad(state *dlsGroupState) (dlsStatus, uint32) {
	for {
		if st, val := state.load(); st != dlsNotReady {
			return st, val
		}
	}
}
