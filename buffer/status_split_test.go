package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSlotPublishLoad(t *testing.T) {
	var s SplitSlot
	status, payload, ok := s.Load()
	assert.True(t, ok, "a zero-value slot has both halves agreeing on StatusNotReady")
	assert.Equal(t, StatusNotReady, status)
	assert.Equal(t, uint32(0), payload)

	s.Publish(StatusLocal, 777)
	status, payload, ok = s.Load()
	assert.True(t, ok)
	assert.Equal(t, StatusLocal, status)
	assert.Equal(t, uint32(777), payload)

	s.Publish(StatusGlobal, payloadMask)
	status, payload, ok = s.Load()
	assert.True(t, ok)
	assert.Equal(t, StatusGlobal, status)
	assert.Equal(t, uint32(payloadMask), payload)
}

func TestSplitSlotReset(t *testing.T) {
	var s SplitSlot
	s.Publish(StatusGlobal, 42)
	s.Reset()
	status, payload, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, StatusNotReady, status)
	assert.Equal(t, uint32(0), payload)
}

// TestSplitSlotDisagreementRejected exercises the reader contract directly:
// if the two halves ever carry different status tags, Load must refuse to
// reconstruct a payload rather than return a torn value.
func TestSplitSlotDisagreementRejected(t *testing.T) {
	var s SplitSlot
	s.lo.Store(uint32(StatusLocal) << splitShift)
	s.hi.Store(uint32(StatusGlobal) << splitShift)
	status, payload, ok := s.Load()
	assert.False(t, ok)
	assert.Equal(t, StatusNotReady, status)
	assert.Equal(t, uint32(0), payload)
}
