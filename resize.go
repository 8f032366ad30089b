package heapcore

import "unsafe"

// Resize changes the size of the block at oldPayload (spec §4.5). A nil
// oldPayload behaves as Alloc; a zero newSize behaves as Release and
// returns nil. Otherwise a new block is allocated, the lesser of the two
// sizes is copied over, and the old block is released.
func (a *Allocator) Resize(oldPayload unsafe.Pointer, newSize uint64) unsafe.Pointer {
	if oldPayload == nil {
		return a.Alloc(newSize)
	}

	if newSize == 0 {
		a.Release(oldPayload)
		return nil
	}

	oldSize := blockSize(headerFromPayload(oldPayload))

	newPayload := a.Alloc(newSize)
	if newPayload == nil {
		return nil
	}

	n := oldSize
	if newSize < n {
		n = newSize
	}
	copyBytes(newPayload, oldPayload, uintptr(n))

	a.Release(oldPayload)
	return newPayload
}

// ZeroAlloc allocates count*size bytes and zero-fills them, calloc-style.
// Returns nil on overflow of count*size or on provider exhaustion.
func (a *Allocator) ZeroAlloc(count, size uint64) unsafe.Pointer {
	total := count * size
	if count != 0 && total/count != size {
		return nil
	}

	p := a.Alloc(total)
	if p == nil {
		return nil
	}

	zeroBytes(p, uintptr(total))
	return p
}

func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	d := unsafe.Slice((*byte)(dst), n)
	s := unsafe.Slice((*byte)(src), n)
	copy(d, s)
}

func zeroBytes(p unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	clear(unsafe.Slice((*byte)(p), n))
}
