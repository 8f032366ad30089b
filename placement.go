package heapcore

import "unsafe"

// Alloc services a variable-sized allocation request (spec §4.3). An empty
// request (size 0) returns nil.
func (a *Allocator) Alloc(size uint64) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	q := quantize(size)

	if b, i := a.findFit(q); b != nil {
		return a.place(b, i, q)
	}

	return a.extend(q)
}

// findFit walks the segregated index starting at indexFor(q), applying the
// search policy of spec §4.3 step 3: classes 0-3 hold blocks of exactly one
// size, so the head either fits or the whole class is skipped; classes 4+
// are scanned linearly for the first block big enough.
func (a *Allocator) findFit(q uint64) (header, int) {
	for i := indexFor(q); i < numSizeClasses; i++ {
		head := a.lists.heads[i]
		if head == nil {
			continue
		}

		if i <= 3 {
			if blockSize(head) >= q {
				return head, i
			}
			continue
		}

		for b := head; b != nil; b = freeNext(b) {
			if blockSize(b) >= q {
				return b, i
			}
		}
	}

	return nil, -1
}

// place carves q bytes out of free block b (already known to fit, currently
// in free list i) and returns its payload, splitting off a remainder when
// there's enough left over (spec §4.3 step 4).
func (a *Allocator) place(b header, i int, q uint64) unsafe.Pointer {
	a.lists.remove(b, i)

	total := blockSize(b)
	leftover := total - q

	if leftover >= minBlockStride {
		wasTail := a.isTail(b)

		setSize(b, q)
		setAlloc(b)

		r := nextHeader(b)
		remainderSize := leftover - 8
		setHeader(r, remainderSize, false, true)
		setFooterSize(footerOf(r), remainderSize)
		a.lists.insertBySize(r)

		if wasTail {
			a.tail = r
		}
	} else {
		setAlloc(b)
		if !a.isTail(b) {
			setPrevAlloc(nextHeader(b))
		}
	}

	a.stats.onAlloc(blockSize(b))
	return payload(b)
}

// extend grows the heap via the provider when no free block fits (spec
// §4.3 step 5), returning nil on provider failure with allocator state
// unchanged.
func (a *Allocator) extend(q uint64) unsafe.Pointer {
	prevAllocFlag := isAlloc(a.tail)

	old, ok := a.provider.Extend(8 + uintptr(q))
	if !ok {
		a.stats.onOOM()
		a.log.Warn().Value("size", q).Msg("heap provider exhausted")
		return nil
	}

	h := header(old)
	setHeader(h, q, true, prevAllocFlag)
	a.tail = h

	a.stats.onExtend(uint64(uintptr(a.provider.High()) - uintptr(a.provider.Low())))
	a.stats.onAlloc(q)
	a.log.Debug().Value("size", q).Msg("heap extended")

	return payload(h)
}
