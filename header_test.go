package heapcore

import (
	"testing"
	"unsafe"

	"github.com/climber/heapcore/assert"
)

func TestHeaderCodecRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	h := header(unsafe.Pointer(&buf[0]))

	setHeader(h, 40, true, false)
	assert.Equal(t, uint64(40), blockSize(h))
	assert.True[bool](t, isAlloc(h))
	assert.True[bool](t, !isPrevAlloc(h))

	setPrevAlloc(h)
	assert.True[bool](t, isPrevAlloc(h))

	clearAlloc(h)
	assert.True[bool](t, !isAlloc(h))
	// size and P must survive a flag flip untouched
	assert.Equal(t, uint64(40), blockSize(h))
	assert.True[bool](t, isPrevAlloc(h))

	setSize(h, 56)
	assert.Equal(t, uint64(56), blockSize(h))
}

func TestNextHeaderAndPayload(t *testing.T) {
	buf := make([]byte, 128)
	h := header(unsafe.Pointer(&buf[0]))
	setHeader(h, 40, true, true)

	assert.Equal(t, uintptr(unsafe.Pointer(&buf[8])), uintptr(payload(h)))
	assert.Equal(t, uintptr(unsafe.Pointer(&buf[48])), uintptr(nextHeader(h)))
	assert.Equal(t, h, headerFromPayload(payload(h)))
}

func TestFooterRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	h := header(unsafe.Pointer(&buf[0]))
	setHeader(h, 40, false, true)

	f := footerOf(h)
	setFooterSize(f, 40)
	assert.Equal(t, uint64(40), footerSize(f))
	assert.Equal(t, uintptr(unsafe.Pointer(&buf[8+40-8])), uintptr(unsafe.Pointer(f)))
}
