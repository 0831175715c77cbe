package buffer

import "sync/atomic"

// SegStatus is the 2-bit status tag of a segment-state slot (spec.md §3).
type SegStatus uint32

const (
	// StatusNotReady carries no meaningful payload.
	StatusNotReady SegStatus = iota
	// StatusLocal carries a segment's local count for one digit.
	StatusLocal
	// StatusGlobal carries the inclusive global prefix through this
	// segment for one digit. Final: never rewritten once reached.
	StatusGlobal
)

const (
	payloadBits = 30
	payloadMask = 1<<payloadBits - 1
	statusShift = payloadBits
)

// SegSlot is one entry of the segment-state table S[segment][digit]: a
// single atomic u32 with a 2-bit status in the high bits and a 30-bit
// payload in the low bits. This bounds payloads (segment-local and
// accumulated global bucket counts) to N < 2^30, the hard limit spec.md §7
// documents.
//
// This encoding relies on the status store and payload becoming visible
// together, which requires an acquire/release-capable atomic. Go's
// sync/atomic gives sequential consistency on every platform the Go
// toolchain targets, which is strictly stronger, so a single combined
// store/load is sound here. SplitSlot (status_split.go) implements the
// spec's alternate relaxed-only encoding for portability to environments
// without that guarantee.
type SegSlot struct {
	v atomic.Uint32
}

// Publish stores status and payload atomically as one word. payload is
// truncated to its low 30 bits.
func (s *SegSlot) Publish(status SegStatus, payload uint32) {
	s.v.Store(uint32(status)<<statusShift | (payload & payloadMask))
}

// Load returns the current status and payload.
func (s *SegSlot) Load() (SegStatus, uint32) {
	raw := s.v.Load()
	return SegStatus(raw >> statusShift), raw & payloadMask
}

// Reset returns the slot to StatusNotReady with a zero payload. Callers
// must do this for every slot before each radix pass (spec.md §3
// Lifecycle); it is provided for symmetry with buffer.U32.Zero but the
// caller is expected to zero the whole backing array in one pass instead
// of calling this per slot.
func (s *SegSlot) Reset() {
	s.v.Store(0)
}
