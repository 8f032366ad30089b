package heapcore

import (
	"testing"
	"unsafe"

	"github.com/climber/heapcore/assert"
)

func newTestAllocator(t *testing.T, capacity uintptr) *Allocator {
	t.Helper()
	arena := NewArena(capacity)
	a, err := NewAllocator(arena, nil)
	assert.NoError(t, err)
	return a
}

func TestInitEmptyHeapChecks(t *testing.T) {
	a := newTestAllocator(t, 4096)
	ok, err := a.Check(0)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

func TestAllocReturnsAlignedPointer(t *testing.T) {
	a := newTestAllocator(t, 4096)
	p := a.Alloc(24)
	assert.NotNull(t, p)
	assert.Aligned16(t, uintptr(p))
}

func TestZeroSizeAllocReturnsNull(t *testing.T) {
	a := newTestAllocator(t, 4096)
	assert.Null(t, a.Alloc(0))
}

// Scenario 1 (spec §8): a later request too large for the freed block forces
// a heap extension instead of splitting it, and the freed block stays alone
// in its class.
func TestScenarioSplitKeepsFreedBlockInClass(t *testing.T) {
	a := newTestAllocator(t, 1<<20)

	p1 := a.Alloc(24)
	p2 := a.Alloc(24)
	assert.NotNull(t, p1)
	assert.NotNull(t, p2)

	a.Release(p1)

	p3 := a.Alloc(2048)
	assert.NotNull(t, p3)

	h1 := headerFromPayload(p1)
	assert.Equal(t, h1, a.lists.heads[0])
	assert.Null(t, freeNext(h1))

	ok, err := a.Check(1)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

// Scenario 2 (spec §8): releasing the first and third of four equal blocks,
// then the second, merges the second with both free neighbors at once and
// yields one free block sized 40+40+40+16 = 136 in index 5.
func TestScenarioCoalesceBoth(t *testing.T) {
	a := newTestAllocator(t, 1<<16)

	pa := a.Alloc(40)
	pb := a.Alloc(40)
	pc := a.Alloc(40)
	pd := a.Alloc(40)
	assert.NotNull(t, pa)
	assert.NotNull(t, pb)
	assert.NotNull(t, pc)
	assert.NotNull(t, pd)

	a.Release(pa)
	a.Release(pc)
	a.Release(pb)

	merged := headerFromPayload(pa)
	assert.Equal(t, uint64(136), blockSize(merged))
	assert.Equal(t, 5, indexFor(blockSize(merged)))
	assert.Equal(t, merged, a.lists.heads[5])

	ok, err := a.Check(2)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

// Scenario 3 (spec §8): reusing a released 200-byte block for a 40-byte
// request splits it into a 40-byte allocation and a 152-byte free
// remainder, landing in index 6.
func TestScenarioSplitOnReuse(t *testing.T) {
	a := newTestAllocator(t, 1<<16)

	big := a.Alloc(200)
	assert.NotNull(t, big)
	a.Release(big)

	small := a.Alloc(40)
	assert.NotNull(t, small)
	assert.Equal(t, big, small) // the reused block starts at the same address

	h := headerFromPayload(small)
	assert.Equal(t, uint64(40), blockSize(h))

	remainder := nextHeader(h)
	assert.Equal(t, uint64(152), blockSize(remainder))
	assert.Equal(t, 6, indexFor(blockSize(remainder)))

	ok, err := a.Check(3)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

// Scenario 4 (spec §8): growing a block via Resize preserves its prefix.
func TestScenarioResizeGrowPreservesPrefix(t *testing.T) {
	a := newTestAllocator(t, 1<<16)

	p := a.Alloc(24)
	assert.NotNull(t, p)
	fillByte(p, 24, 0xAB)

	q := a.Resize(p, 100)
	assert.NotNull(t, q)
	assert.True[bool](t, bytesEqual(q, 24, 0xAB))

	ok, err := a.Check(4)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

// Scenario 5 (spec §8): shrinking a block via Resize preserves the
// retained prefix and releases the original.
func TestScenarioResizeShrinkPreservesPrefix(t *testing.T) {
	a := newTestAllocator(t, 1<<16)

	p := a.Alloc(100)
	assert.NotNull(t, p)
	fillByte(p, 100, 0xCD)

	q := a.Resize(p, 16)
	assert.NotNull(t, q)
	assert.True[bool](t, bytesEqual(q, 16, 0xCD))

	ok, err := a.Check(5)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

// Scenario 6 (spec §8): exhaustion against a capped provider returns nil
// without corrupting state, and releases afterward still coalesce.
func TestScenarioExhaustionThenRecovery(t *testing.T) {
	a := newTestAllocator(t, 256)

	var live []unsafe.Pointer
	for {
		p := a.Alloc(40)
		if p == nil {
			break
		}
		live = append(live, p)
	}

	assert.True[bool](t, len(live) > 0)
	assert.True[bool](t, a.stats.OOMCount > 0)

	ok, err := a.Check(6)
	assert.True[bool](t, ok)
	assert.NoError(t, err)

	for _, p := range live {
		a.Release(p)
	}

	ok, err = a.Check(6)
	assert.True[bool](t, ok)
	assert.NoError(t, err)

	// the freed space must be reusable
	p := a.Alloc(40)
	assert.NotNull(t, p)
}

// Round-trip (spec §8): alloc followed by release returns the allocator to
// an equivalent state — same tail anchor, same single free block. The heap
// is warmed first, since an allocation that extends the heap moves the tail
// anchor and the heap never shrinks.
func TestRoundTripAllocRelease(t *testing.T) {
	a := newTestAllocator(t, 1<<16)

	warm := a.Alloc(64)
	assert.NotNull(t, warm)
	a.Release(warm)

	class := indexFor(quantize(64))
	tailBefore := a.tail
	headBefore := a.lists.heads[class]
	p := a.Alloc(64)
	assert.NotNull(t, p)
	a.Release(p)

	assert.Equal(t, tailBefore, a.tail)
	assert.Equal(t, headBefore, a.lists.heads[class])

	ok, err := a.Check(7)
	assert.True[bool](t, ok)
	assert.NoError(t, err)
}

func fillByte(p unsafe.Pointer, n uintptr, b byte) {
	s := unsafe.Slice((*byte)(p), n)
	for i := range s {
		s[i] = b
	}
}

func bytesEqual(p unsafe.Pointer, n uintptr, b byte) bool {
	s := unsafe.Slice((*byte)(p), n)
	for _, v := range s {
		if v != b {
			return false
		}
	}
	return true
}
