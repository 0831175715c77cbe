package buffer

import "sync/atomic"

// SplitSlot is the spec's alternate encoding for platforms without
// acquire/release atomics (spec.md §9): the 30-bit payload is split across
// two independently-atomic halves, each tagged with a copy of the 2-bit
// status. A reader accepts a reconstructed payload only when both halves
// report the same status. Because a slot's status only ever moves forward
// (NotReady -> Local -> Global, never back), tag agreement implies both
// halves were written by the same Publish call: a reader can never observe
// half of a new write and half of an old one without seeing disagreeing
// tags.
//
// Go's sync/atomic already provides sequential consistency, so SegSlot is
// the right choice on every platform this module actually targets. SplitSlot
// exists to document and test the relaxed-only construction spec.md
// describes, and to give a future non-Go-memory-model backend (e.g. a cgo
// shim over a weaker atomic primitive) a ready-made equivalent.
type SplitSlot struct {
	lo atomic.Uint32 // status<<halfBits | low half of payload
	hi atomic.Uint32 // status<<halfBits | high half of payload
}

const (
	halfBits    = 15
	halfMask    = 1<<halfBits - 1
	splitShift  = halfBits
)

// Publish stores status and payload across the two halves. Order between
// the two stores is irrelevant to correctness: Load rejects any
// combination where the tags disagree.
func (s *SplitSlot) Publish(status SegStatus, payload uint32) {
	payload &= payloadMask
	lo := payload & halfMask
	hi := (payload >> halfBits) & halfMask
	s.lo.Store(uint32(status)<<splitShift | lo)
	s.hi.Store(uint32(status)<<splitShift | hi)
}

// Load returns (status, payload, true) if both halves agree on status, or
// (StatusNotReady, 0, false) if they disagree (a write is in flight).
// Callers must retry on false rather than trust a partial reconstruction.
func (s *SplitSlot) Load() (SegStatus, uint32, bool) {
	lo := s.lo.Load()
	hi := s.hi.Load()
	loStatus := SegStatus(lo >> splitShift)
	hiStatus := SegStatus(hi >> splitShift)
	if loStatus != hiStatus {
		return StatusNotReady, 0, false
	}
	payload := (hi&halfMask)<<halfBits | (lo & halfMask)
	return loStatus, payload, true
}

// Reset returns the slot to StatusNotReady with a zero payload.
func (s *SplitSlot) Reset() {
	s.lo.Store(0)
	s.hi.Store(0)
}
