package heapcore

import (
	"testing"

	"github.com/climber/heapcore/assert"
)

func TestArenaExtendAdvancesHighWaterMark(t *testing.T) {
	a := NewArena(64)
	assert.Equal(t, a.Low(), a.High())

	old, ok := a.Extend(16)
	assert.True[bool](t, ok)
	assert.Equal(t, a.Low(), old)
	assert.Equal(t, uintptr(16), uintptr(a.High())-uintptr(a.Low()))

	// I8: high-water mark never decreases, and extend never overruns capacity.
	_, ok = a.Extend(64)
	assert.True[bool](t, !ok)
	assert.Equal(t, uintptr(16), a.Used())
}

func TestArenaExhaustionIsExact(t *testing.T) {
	a := NewArena(32)

	_, ok := a.Extend(32)
	assert.True[bool](t, ok)

	_, ok = a.Extend(1)
	assert.True[bool](t, !ok)
}

// NewArena must hand back a 16-aligned Low() regardless of the requested
// capacity (spec.md §3), not just for capacities that happen to land on a
// Go size class whose backing allocation is already 16-aligned.
func TestArenaLowIsAlwaysSixteenAligned(t *testing.T) {
	for _, capacity := range []uintptr{1, 3, 7, 9, 17, 31, 33, 100, 129, 1000, 4096, 1 << 20} {
		a := NewArena(capacity)
		assert.Aligned16(t, uintptr(a.Low()))
		assert.Equal(t, capacity, a.Capacity())
	}
}
