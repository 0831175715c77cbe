package buffer

// NewSegmentStateTable allocates a zeroed S[segments][digits] table for the
// radix-scatter decoupled lookback (spec.md §3, §4.4 Step D). The caller
// must allocate a fresh table (or call Reset on every slot) before each of
// the four radix passes; slots are never implicitly cleared between passes.
func NewSegmentStateTable(segments, digits int) [][]SegSlot {
	table := make([][]SegSlot, segments)
	for i := range table {
		table[i] = make([]SegSlot, digits)
	}
	return table
}

// NewGroupCounters allocates n independent GroupCounters, one per radix
// pass or scan invocation that needs its own segment-ordering sequence.
func NewGroupCounters(n int) []GroupCounter {
	return make([]GroupCounter, n)
}
