package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionReturnsValidHandle(t *testing.T) {
	h := NewSession()
	assert.NotEqual(t, int64(-1), h, "NewSession should return a valid handle")
	defer CloseSession(h)
}

func TestCloseSessionThenUseFails(t *testing.T) {
	h := NewSession()
	CloseSession(h)
	err := PrefixSum(context.Background(), h, []uint32{1, 2, 3}, false)
	assert.Error(t, err)
}

func TestUnknownHandle(t *testing.T) {
	err := RadixSort(context.Background(), 99999, []uint32{1, 2, 3})
	assert.Error(t, err)
}

func TestBridgePrefixSum(t *testing.T) {
	h := NewSession()
	defer CloseSession(h)
	data := []uint32{3, 1, 4, 1, 5, 9, 2, 6}
	require.NoError(t, PrefixSum(context.Background(), h, data, false))
	assert.Equal(t, []uint32{3, 4, 8, 9, 14, 23, 25, 31}, data)
}

func TestBridgeRadixSort(t *testing.T) {
	h := NewSession()
	defer CloseSession(h)
	keys := []uint32{0xFFFFFFFF, 0, 0x00010000, 0x00000001, 0x00010000}
	require.NoError(t, RadixSort(context.Background(), h, keys))
	assert.Equal(t, []uint32{0, 1, 0x00010000, 0x00010000, 0xFFFFFFFF}, keys)
}

func TestBridgeRadixSortBy(t *testing.T) {
	h := NewSession()
	defer CloseSession(h)
	keys := []uint32{3, 1, 2}
	values := []uint32{30, 10, 20}
	require.NoError(t, RadixSortBy(context.Background(), h, keys, values))
	assert.Equal(t, []uint32{1, 2, 3}, keys)
	assert.Equal(t, []uint32{10, 20, 30}, values)
}

func TestBridgeRadixSortByMismatchedLengths(t *testing.T) {
	h := NewSession()
	defer CloseSession(h)
	err := RadixSortBy(context.Background(), h, []uint32{1, 2}, []uint32{1})
	assert.Error(t, err)
}

func TestBridgeFindRuns(t *testing.T) {
	h := NewSession()
	defer CloseSession(h)
	sorted := []uint32{1, 1, 1, 2, 2, 3, 3, 3, 3}
	runCount, runStarts, err := FindRuns(context.Background(), h, sorted)
	require.NoError(t, err)
	assert.Equal(t, 3, runCount)
	assert.Equal(t, []uint32{0, 3, 5}, runStarts)
}

func TestSessionsAreIndependent(t *testing.T) {
	h1 := NewSession()
	h2 := NewSession()
	defer CloseSession(h1)
	defer CloseSession(h2)
	assert.NotEqual(t, h1, h2)
}
