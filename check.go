package heapcore

import (
	"fmt"
	"unsafe"
)

// Check walks the heap and every free list verifying invariants I1-I7
// (spec §8). It is a diagnostic aid, not part of the caller-visible error
// surface (spec §7): callers are expected to call it only from tests or
// interactively, tagging the call site with line the way malloc-lab's own
// mm_check(int line) convention does. Every violation is logged through the
// Logger as it's found, not just returned — this is ambient observability,
// not a panic surface.
func (a *Allocator) Check(line int) (bool, error) {
	fail := func(format string, args ...any) (bool, error) {
		err := fmt.Errorf("check(%d): "+format, append([]any{line}, args...)...)
		a.log.Warn().Value("line", line).Msg(err.Error())
		return false, err
	}

	lo := uintptr(a.provider.Low())
	hi := uintptr(a.provider.High())

	leftmost := header(unsafe.Pointer(uintptr(a.prologue) + 8))

	freeInHeap := make(map[header]struct{})

	if uintptr(leftmost) < hi {
		prevAlloc := true
		cur := leftmost
		var sum uintptr

		for {
			if isPrevAlloc(cur) != prevAlloc {
				return fail("I2 violated at %p: P=%v, want %v", unsafe.Pointer(cur), isPrevAlloc(cur), prevAlloc)
			}

			size := blockSize(cur)
			if size < minPayload || (size-8)%16 != 0 {
				return fail("I7 violated at %p: unlawful size %d", unsafe.Pointer(cur), size)
			}
			if uintptr(payload(cur))%16 != 0 {
				return fail("I6 violated at %p: payload not 16-aligned", unsafe.Pointer(cur))
			}

			alloc := isAlloc(cur)
			if !alloc {
				if !prevAlloc {
					return fail("I4 violated at %p: two adjacent free blocks", unsafe.Pointer(cur))
				}

				f := footerOf(cur)
				if footerSize(f) != size {
					return fail("I3 violated at %p: header size %d != footer size %d", unsafe.Pointer(cur), size, footerSize(f))
				}

				freeInHeap[cur] = struct{}{}
			}

			sum += strideOf(cur)

			if a.isTail(cur) {
				break
			}
			prevAlloc = alloc
			cur = nextHeader(cur)

			if uintptr(cur) >= hi {
				return fail("I1 violated: walked past heap high without reaching tail anchor")
			}
		}

		if lo+8+sum != hi {
			return fail("I1 violated: tiling sum %d != heap extent %d", sum, hi-lo-8)
		}
	} else if a.tail != a.prologue {
		return fail("I1 violated: tail anchor set but heap has no blocks")
	}

	freeInLists := make(map[header]struct{})
	for i := 0; i < numSizeClasses; i++ {
		for b := a.lists.heads[i]; b != nil; b = freeNext(b) {
			if got := indexFor(blockSize(b)); got != i {
				return fail("I5 violated: block %p of size %d sits in list %d, wants %d", unsafe.Pointer(b), blockSize(b), i, got)
			}
			freeInLists[b] = struct{}{}
		}
	}

	if len(freeInLists) != len(freeInHeap) {
		return fail("I5 violated: %d blocks in free lists, %d free blocks in heap", len(freeInLists), len(freeInHeap))
	}
	for b := range freeInHeap {
		if _, ok := freeInLists[b]; !ok {
			return fail("I5 violated: free block %p is not in any free list", unsafe.Pointer(b))
		}
	}

	return true, nil
}
