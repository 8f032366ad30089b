package heapcore

import "unsafe"

// Free-block payload layout (spec §3): the first 8 bytes of payload hold
// the next pointer, the next 8 the prev pointer, both pointing at payload
// addresses (not headers) of neighboring list members. The footer occupies
// the block's last 8 bytes.

func nextPtrSlot(h header) *unsafe.Pointer {
	return (*unsafe.Pointer)(payload(h))
}

func prevPtrSlot(h header) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Pointer(uintptr(payload(h)) + 8))
}

// linkTo and linkFrom convert between a list member's header and the payload
// address stored in a link slot; nil stays nil.
func linkTo(h header) unsafe.Pointer {
	if h == nil {
		return nil
	}
	return payload(h)
}

func linkFrom(p unsafe.Pointer) header {
	if p == nil {
		return nil
	}
	return headerFromPayload(p)
}

func freeNext(h header) header {
	return linkFrom(*nextPtrSlot(h))
}

func freePrev(h header) header {
	return linkFrom(*prevPtrSlot(h))
}

func setFreeNext(h header, next header) {
	*nextPtrSlot(h) = linkTo(next)
}

func setFreePrev(h header, prev header) {
	*prevPtrSlot(h) = linkTo(prev)
}

// freeLists is the segregated index: numSizeClasses doubly-linked list
// heads, each intrusive inside its members' payloads.
type freeLists struct {
	heads [numSizeClasses]header
}

func (f *freeLists) reset() {
	for i := range f.heads {
		f.heads[i] = nil
	}
}

// insert pushes b onto the head of list i (LIFO — spec §4.2 rationale: a
// just-freed block is the most likely to refit the next similar request).
func (f *freeLists) insert(b header, i int) {
	old := f.heads[i]
	setFreeNext(b, old)
	setFreePrev(b, nil)
	if old != nil {
		setFreePrev(old, b)
	}
	f.heads[i] = b
}

// remove unlinks b from list i via its stored prev/next.
func (f *freeLists) remove(b header, i int) {
	prev := freePrev(b)
	next := freeNext(b)

	if prev != nil {
		setFreeNext(prev, next)
	} else {
		f.heads[i] = next
	}

	if next != nil {
		setFreePrev(next, prev)
	}
}

// insertBySize is insert(b, indexFor(blockSize(b))) — the common case,
// since a block's size class is recomputed whenever its size changes.
func (f *freeLists) insertBySize(b header) {
	f.insert(b, indexFor(blockSize(b)))
}
