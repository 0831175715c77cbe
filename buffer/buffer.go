// Package buffer defines the linear storage and grid-dispatch contracts that
// the kernel package treats as externally owned: buffer allocation, device
// residency, and command submission stay the caller's problem. This package
// only describes the shapes those collaborators must present.
package buffer

// U32 is a tightly packed sequence of 32-bit unsigned elements. It stands in
// for both the key buffer and an opaque 32-bit payload buffer (spec calls
// the latter's element type "arbitrary"; this core never interprets payload
// bits, so a single alias covers both roles).
type U32 []uint32

// Len reports the element count, mirroring types.Series.Length in the
// teacher's column abstraction.
func (b U32) Len() int { return len(b) }

// Zero clears every element to 0. The mark buffer used by FindRuns is the
// one caller-supplied scratch buffer, and it must be zeroed before each
// invocation; FindRuns does not clear it. The scan group-state array and
// the radix segment-state tables and group counters are not supplied by
// the caller: PrefixSum and RadixSort allocate them fresh on every call.
func (b U32) Zero() {
	for i := range b {
		b[i] = 0
	}
}
