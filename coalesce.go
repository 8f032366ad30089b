package heapcore

import "unsafe"

// Release frees the block at payload pointer p (spec §4.4). A nil pointer,
// or one that does not lie in the provider's current [lo, hi), is silently
// ignored (spec §7) — double-release and interior-pointer release remain
// undefined behavior, never detected.
func (a *Allocator) Release(p unsafe.Pointer) {
	if p == nil || !a.withinHeap(p) {
		return
	}

	h := headerFromPayload(p)
	size := blockSize(h)

	nextFree := !a.isTail(h) && !isAlloc(nextHeader(h))
	prevFree := !a.isLeftmost(h) && !isPrevAlloc(h)

	a.stats.onRelease(size)

	switch {
	case prevFree && nextFree:
		a.coalesceBoth(h)
	case nextFree:
		a.coalesceNext(h)
	case prevFree:
		a.coalescePrev(h)
	default:
		a.coalesceNone(h)
	}
}

// coalesceBoth merges h with both free neighbors (spec §4.4 case A). The
// surviving block is the lower-address neighbor l.
func (a *Allocator) coalesceBoth(h header) {
	l := prevHeader(h)
	r := nextHeader(h)

	lSize, hSize, rSize := blockSize(l), blockSize(h), blockSize(r)

	a.lists.remove(l, indexFor(lSize))
	a.lists.remove(r, indexFor(rSize))

	newSize := lSize + hSize + rSize + 16
	pFlag := isPrevAlloc(l)
	wasTail := a.isTail(r)

	setHeader(l, newSize, false, pFlag)
	setFooterSize(footerOf(l), newSize)

	if wasTail {
		a.tail = l
	}

	a.lists.insertBySize(l)
}

// coalesceNext merges h with its free successor (spec §4.4 case B). The
// surviving block is h.
func (a *Allocator) coalesceNext(h header) {
	next := nextHeader(h)
	hSize, nextSize := blockSize(h), blockSize(next)

	a.lists.remove(next, indexFor(nextSize))

	newSize := hSize + nextSize + 8
	pFlag := isPrevAlloc(h)
	wasTail := a.isTail(next)

	setHeader(h, newSize, false, pFlag)
	setFooterSize(footerOf(h), newSize)

	if wasTail {
		a.tail = h
	}

	a.lists.insertBySize(h)
}

// coalescePrev merges h with its free predecessor (spec §4.4 case C). The
// surviving block is l.
func (a *Allocator) coalescePrev(h header) {
	l := prevHeader(h)
	lSize, hSize := blockSize(l), blockSize(h)
	successor := nextHeader(h)
	wasTail := a.isTail(h)

	a.lists.remove(l, indexFor(lSize))

	newSize := lSize + hSize + 8
	pFlag := isPrevAlloc(l)

	setHeader(l, newSize, false, pFlag)
	setFooterSize(footerOf(l), newSize)

	if wasTail {
		a.tail = l
	} else {
		clearPrevAlloc(successor)
	}

	a.lists.insertBySize(l)
}

// coalesceNone frees h in place, with neither neighbor free (spec §4.4
// case D). The surviving block is h.
func (a *Allocator) coalesceNone(h header) {
	size := blockSize(h)

	clearAlloc(h)
	setFooterSize(footerOf(h), size)

	if !a.isTail(h) {
		clearPrevAlloc(nextHeader(h))
	}

	a.lists.insertBySize(h)
}
