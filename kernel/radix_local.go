package kernel

import "gpuprim/buffer"

// radixScatterSegment performs the full per-segment body of one radix-
// scatter pass (spec.md §4.4 Steps A-E) for the segment identified by
// groupIndex. hasValues selects whether the parallel value buffer is
// permuted alongside keys.
func radixScatterSegment(
	cur, next buffer.U32,
	valCur, valNext buffer.U32,
	hasValues bool,
	n int,
	groupIndex int,
	radixOffset uint32,
	base []uint32, // this group's 256 global bucket offsets (exclusive)
	table [][]buffer.SegSlot, // segment-state table S[segment][digit] for this pass
) {
	start := groupIndex * ScatterSegmentSize
	end := start + ScatterSegmentSize
	if end > n {
		end = n
	}
	if start >= end {
		return
	}
	segLen := end - start   // real (non-padding) elements in this segment
	padCount := ScatterSegmentSize - segLen

	// Step A: load the segment, padding the tail with 0xFFFFFFFF so the
	// local sort sinks it without per-key bounds checks (spec.md §3, §9).
	localKeys := make([]uint32, ScatterSegmentSize)
	localIdx := make([]int, ScatterSegmentSize) // maps local sorted position -> original local offset
	for i := 0; i < ScatterSegmentSize; i++ {
		if i < segLen {
			localKeys[i] = cur[start+i]
		} else {
			localKeys[i] = padKey
		}
		localIdx[i] = i
	}

	// Step B: local radix sort of this segment's 8-bit digit, bit by bit.
	localRadixBitSort(localKeys, localIdx, radixOffset)

	// Step C: run extraction.
	runStart, digitOfRun := extractRuns(localKeys, radixOffset)
	numRuns := len(digitOfRun)
	runIndexOf := make([]int, ScatterSegmentSize)
	for r := 0; r < numRuns; r++ {
		for i := runStart[r]; i < runStart[r+1]; i++ {
			runIndexOf[i] = r
		}
	}

	var bucketCount [RadixDigits]uint32
	for r := 0; r < numRuns; r++ {
		length := uint32(runStart[r+1] - runStart[r])
		d := digitOfRun[r]
		if d == RadixDigits-1 {
			// The padding key's digit is always 0xFF in every radix
			// group; padding is stable-sorted to the tail of this
			// run (it was appended after all real keys before the
			// sort, and the split is stable), so only the last
			// padCount entries of the digit-255 run, if any, belong
			// to padding rather than real keys.
			length -= uint32(padCount)
		}
		bucketCount[d] = length
	}

	// Step D: per-digit decoupled lookback over segment-state slots.
	own := table[groupIndex]
	var exclusiveOffset [RadixDigits]uint32
	if groupIndex == 0 {
		for d := 0; d < RadixDigits; d++ {
			own[d].Publish(buffer.StatusGlobal, bucketCount[d])
		}
	} else {
		for d := 0; d < RadixDigits; d++ {
			own[d].Publish(buffer.StatusLocal, bucketCount[d])
		}
		for d := 0; d < RadixDigits; d++ {
			var accumulated uint32
			for i := groupIndex - 1; i >= 0; i-- {
				st, payload := spinLoadSeg(&table[i][d])
				accumulated += payload
				if st == buffer.StatusGlobal {
					break
				}
				// StatusLocal: keep walking backwards.
			}
			exclusiveOffset[d] = accumulated
			own[d].Publish(buffer.StatusGlobal, accumulated+bucketCount[d])
		}
	}

	// Step E: scatter.
	for i := 0; i < segLen; i++ {
		d := digitOf(localKeys[i], radixOffset)
		withinBucket := uint32(i - runStart[runIndexOf[i]])
		outIdx := base[d] + exclusiveOffset[d] + withinBucket
		next[outIdx] = localKeys[i]
		if hasValues {
			valNext[outIdx] = valCur[start+localIdx[i]]
		}
	}
}

func spinLoadSeg(slot *buffer.SegSlot) (buffer.SegStatus, uint32) {
	for {
		if st, payload := slot.Load(); st != buffer.StatusNotReady {
			return st, payload
		}
	}
}

// localRadixBitSort performs the eight single-bit stable splits that sort
// keys (and the parallel idx permutation) by the 8-bit digit starting at
// radixOffset (spec.md §4.4 Step B).
func localRadixBitSort(keys []uint32, idx []int, radixOffset uint32) {
	width := len(keys)
	w := make([]uint32, width)
	tmpKeys := make([]uint32, width)
	tmpIdx := make([]int, width)

	for bit := radixOffset; bit < radixOffset+RadixBitsPerPass; bit++ {
		// w[i] = 1 if bit(i-1) == 0 else 0, w[0] = 0.
		w[0] = 0
		for i := 1; i < width; i++ {
			prevBit := (keys[i-1] >> bit) & 1
			if prevBit == 0 {
				w[i] = 1
			} else {
				w[i] = 0
			}
		}
		// Inclusive scan of w (Hillis-Steele).
		for stride := 1; stride < width; stride *= 2 {
			for i := width - 1; i >= stride; i-- {
				w[i] += w[i-stride]
			}
		}

		lastBit := (keys[width-1] >> bit) & 1
		totalFalse := w[width-1]
		if lastBit == 0 {
			totalFalse++
		}

		for i := 0; i < width; i++ {
			thisBit := (keys[i] >> bit) & 1
			var newPos uint32
			if thisBit == 0 {
				newPos = w[i]
			} else {
				newPos = totalFalse + uint32(i) - w[i]
			}
			tmpKeys[newPos] = keys[i]
			tmpIdx[newPos] = idx[i]
		}
		copy(keys, tmpKeys)
		copy(idx, tmpIdx)
	}
}

// extractRuns marks run boundaries in the locally-sorted keys (by the
// current 8-bit digit) and returns the start offset of every run plus a
// sentinel equal to len(keys), and each run's digit value (spec.md §4.4
// Step C).
func extractRuns(keys []uint32, radixOffset uint32) (runStart []int, digitOfRun []uint32) {
	width := len(keys)
	marks := make([]uint32, width)
	marks[0] = 0
	for i := 1; i < width; i++ {
		if digitOf(keys[i], radixOffset) != digitOf(keys[i-1], radixOffset) {
			marks[i] = 1
		}
	}
	// Inclusive scan -> run index per position.
	runIndex := make([]int, width)
	var running uint32
	for i := 0; i < width; i++ {
		running += marks[i]
		runIndex[i] = int(running)
	}
	numRuns := runIndex[width-1] + 1

	runStart = make([]int, numRuns+1)
	digitOfRun = make([]uint32, numRuns)
	runStart[numRuns] = width // sentinel
	for i := 0; i < width; i++ {
		if i == 0 || marks[i] == 1 {
			r := runIndex[i]
			runStart[r] = i
			digitOfRun[r] = digitOf(keys[i], radixOffset)
		}
	}
	return runStart, digitOfRun
}
