package heapcore

import "unsafe"

// header is a pointer to the 8-byte metadata word at the start of a block.
// The low 3 bits hold flags (bit 2 reserved, always zero); bits 3..63 hold
// the block size, always a multiple of 8 (24 + 16k).
type header unsafe.Pointer

const (
	flagAlloc     = uint64(1) << 0 // A: this block is allocated
	flagPrevAlloc = uint64(1) << 1 // P: the preceding block is allocated
	sizeMask      = ^uint64(0x7)
)

func wordAt(p unsafe.Pointer) *uint64 {
	return (*uint64)(p)
}

func readWord(h header) uint64 {
	return *wordAt(unsafe.Pointer(h))
}

func writeWord(h header, w uint64) {
	*wordAt(unsafe.Pointer(h)) = w
}

// blockSize returns the size field stored in the header: the block's payload
// size in bytes, not counting the 8-byte header itself.
func blockSize(h header) uint64 {
	return readWord(h) & sizeMask
}

func isAlloc(h header) bool {
	return readWord(h)&flagAlloc != 0
}

func isPrevAlloc(h header) bool {
	return readWord(h)&flagPrevAlloc != 0
}

// setHeader writes size and both flags in one shot, preserving nothing —
// used when a block is being (re)born, as opposed to the set*/clear* helpers
// below which preserve the untouched bits of an existing header.
func setHeader(h header, size uint64, alloc bool, prevAlloc bool) {
	w := size & sizeMask
	if alloc {
		w |= flagAlloc
	}
	if prevAlloc {
		w |= flagPrevAlloc
	}
	writeWord(h, w)
}

func setSize(h header, size uint64) {
	w := readWord(h)
	writeWord(h, (w &^ sizeMask) | (size & sizeMask))
}

func setAlloc(h header) {
	writeWord(h, readWord(h)|flagAlloc)
}

func clearAlloc(h header) {
	writeWord(h, readWord(h)&^flagAlloc)
}

func setPrevAlloc(h header) {
	writeWord(h, readWord(h)|flagPrevAlloc)
}

func clearPrevAlloc(h header) {
	writeWord(h, readWord(h)&^flagPrevAlloc)
}

// footerOf returns the header-shaped pointer to a free block's footer word,
// the last 8 bytes of its payload area.
func footerOf(h header) header {
	return header(unsafe.Pointer(uintptr(h) + 8 + uintptr(blockSize(h)) - 8))
}

// nextHeader returns the header immediately following h's payload.
func nextHeader(h header) header {
	return header(unsafe.Pointer(uintptr(h) + 8 + uintptr(blockSize(h))))
}

// prevFooter returns the footer word of the block preceding h. Only valid
// when !isPrevAlloc(h): an allocated predecessor has no footer.
func prevFooter(h header) header {
	return header(unsafe.Pointer(uintptr(h) - 8))
}

// prevHeader returns the header of the block preceding h, read via the
// predecessor's footer. Only valid when !isPrevAlloc(h).
func prevHeader(h header) header {
	pf := prevFooter(h)
	return header(unsafe.Pointer(uintptr(h) - 8 - uintptr(blockSize(pf))))
}

// payload returns the address of h's payload, 8 bytes past the header.
func payload(h header) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h) + 8)
}

// headerFromPayload is the inverse of payload.
func headerFromPayload(p unsafe.Pointer) header {
	return header(unsafe.Pointer(uintptr(p) - 8))
}

// strideOf returns the total bytes a block occupies in the heap (header +
// payload), the increment next_header advances by.
func strideOf(h header) uintptr {
	return 8 + uintptr(blockSize(h))
}

// setFooterSize writes a free block's footer word. Footers exist only on
// free blocks (spec §4.4 rationale — the "footer optimization") and carry
// only a size; the low three bits are unused.
func setFooterSize(f header, size uint64) {
	writeWord(f, size&sizeMask)
}

func footerSize(f header) uint64 {
	return readWord(f) & sizeMask
}

