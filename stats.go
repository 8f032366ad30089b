package heapcore

// Stats is a read-only summary of allocator state, safe to poll between
// requests without perturbing anything (spec §1 treats deeper debug
// instrumentation as out of scope; this is deliberately shallow — no heap
// walk). The counters are updated on every Alloc and Release;
// FreeBlocksByClass is filled in by Allocator.Stats, which walks the free
// lists.
type Stats struct {
	LiveBytes         uint64                  // sum of payload sizes of currently allocated blocks
	LiveBlocks        uint64
	FreeBlocksByClass [numSizeClasses]uint64 // free block count, broken down by size class
	Extensions        uint64                  // number of successful HeapProvider.Extend calls made by Alloc (the prologue's is not counted)
	AllocCalls        uint64
	ReleaseCalls      uint64
	OOMCount          uint64 // allocations that returned nil because the provider could not extend the heap
	HighWaterMark     uint64 // bytes the provider has ever handed out (heap-relative offset of High())
}

// FreeBlocks returns the total free block count across every size class.
func (s *Stats) FreeBlocks() uint64 {
	var total uint64
	for _, n := range s.FreeBlocksByClass {
		total += n
	}
	return total
}

func (s *Stats) onAlloc(payloadSize uint64) {
	s.AllocCalls++
	s.LiveBlocks++
	s.LiveBytes += payloadSize
}

func (s *Stats) onRelease(payloadSize uint64) {
	s.ReleaseCalls++
	if s.LiveBlocks > 0 {
		s.LiveBlocks--
	}
	if s.LiveBytes >= payloadSize {
		s.LiveBytes -= payloadSize
	}
}

func (s *Stats) onExtend(newHigh uint64) {
	s.Extensions++
	s.HighWaterMark = newHigh
}

func (s *Stats) onOOM() {
	s.OOMCount++
}
