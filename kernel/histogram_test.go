package kernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpuprim/buffer"
	"gpuprim/internal/testdata"
)

func TestComputeHistogramsSumsToN(t *testing.T) {
	sizes := []int{0, 1, HistogramSegmentSize - 1, HistogramSegmentSize, HistogramSegmentSize + 1, HistogramSegmentSize*4 + 9}
	for _, n := range sizes {
		keys := buffer.U32(testdata.Keys(uint64(n)*3+1, n))
		hist := make([]uint32, RadixGroups*RadixDigits)
		require.NoError(t, ComputeHistograms(context.Background(), keys, hist, newDisp()))

		for g := 0; g < RadixGroups; g++ {
			var sum uint64
			for d := 0; d < RadixDigits; d++ {
				sum += uint64(hist[g*RadixDigits+d])
			}
			assert.Equal(t, uint64(n), sum, "group %d bins must sum to n=%d", g, n)
		}
	}
}

func TestComputeHistogramsExactCounts(t *testing.T) {
	keys := buffer.U32{0x00, 0x01, 0x0100, 0x0101, 0xFF}
	hist := make([]uint32, RadixGroups*RadixDigits)
	require.NoError(t, ComputeHistograms(context.Background(), keys, hist, newDisp()))

	// group 0 (bits [0,8)): digits are 0x00,0x01,0x00,0x01,0xFF
	assert.Equal(t, uint32(2), hist[0*RadixDigits+0x00])
	assert.Equal(t, uint32(2), hist[0*RadixDigits+0x01])
	assert.Equal(t, uint32(1), hist[0*RadixDigits+0xFF])

	// group 1 (bits [8,16)): digits are 0x00,0x00,0x01,0x01,0x00
	assert.Equal(t, uint32(3), hist[1*RadixDigits+0x00])
	assert.Equal(t, uint32(2), hist[1*RadixDigits+0x01])
}

func TestComputeHistogramsWrongHistLength(t *testing.T) {
	keys := buffer.U32{1, 2, 3}
	err := ComputeHistograms(context.Background(), keys, make([]uint32, 10), newDisp())
	assert.Error(t, err)
}

func TestComputeHistogramsNilDispatcher(t *testing.T) {
	keys := buffer.U32{1, 2, 3}
	err := ComputeHistograms(context.Background(), keys, make([]uint32, RadixGroups*RadixDigits), nil)
	assert.Error(t, err)
}
