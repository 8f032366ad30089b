package heapcore

import (
	"errors"
	"unsafe"

	"github.com/google/uuid"
)

// ErrProviderExhausted is returned by NewAllocator when the provider cannot
// even produce the 8-byte prologue.
var ErrProviderExhausted = errors.New("heapcore: heap provider exhausted")

// Allocator is the process-wide allocator state: the segregated free index,
// the tail anchor, and the heap provider backing the region it manages. It
// is not safe for concurrent use (spec §5) — exactly one goroutine may call
// into a given Allocator at a time.
type Allocator struct {
	provider HeapProvider
	log      Logger
	id       uuid.UUID

	lists    freeLists
	prologue header
	tail     header // header of the highest-address block, or prologue if the heap holds none

	stats Stats
}

// NewAllocator constructs an Allocator over provider. It allocates the
// 8-byte prologue word (spec §6 init) and fails only if the provider cannot
// produce those first 8 bytes. log may be nil, in which case logging is a
// no-op.
func NewAllocator(provider HeapProvider, log Logger) (*Allocator, error) {
	if log == nil {
		log = noopLogger{}
	}

	a := &Allocator{
		provider: provider,
		log:      log,
		id:       uuid.New(),
	}

	old, ok := provider.Extend(8)
	if !ok {
		return nil, ErrProviderExhausted
	}

	a.prologue = header(old)
	setHeader(a.prologue, 0, true, true)
	a.tail = a.prologue

	a.log.Info().Value("session", a.id.String()).Msg("allocator initialized")

	return a, nil
}

// ID identifies this Allocator instance for log correlation and the /stats
// surface (spec §6 ambient stack).
func (a *Allocator) ID() uuid.UUID {
	return a.id
}

// Stats returns a snapshot of the allocator's bookkeeping counters. Safe to
// call at any point between top-level requests.
func (a *Allocator) Stats() Stats {
	s := a.stats

	var counts [numSizeClasses]uint64
	for i := 0; i < numSizeClasses; i++ {
		for b := a.lists.heads[i]; b != nil; b = freeNext(b) {
			counts[i]++
		}
	}
	s.FreeBlocksByClass = counts

	return s
}

func (a *Allocator) isTail(h header) bool {
	return h == a.tail
}

func (a *Allocator) isLeftmost(h header) bool {
	return h == header(unsafe.Pointer(uintptr(a.prologue)+8))
}

// withinHeap reports whether p lies in [lo, hi), the provider's current
// bounds — the only pointers Release will act on (spec §7).
func (a *Allocator) withinHeap(p unsafe.Pointer) bool {
	lo := uintptr(a.provider.Low())
	hi := uintptr(a.provider.High())
	up := uintptr(p)
	return up >= lo && up < hi
}
