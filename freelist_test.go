package charpool

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func TestPointerHeadPacking(t *testing.T) {
	for _, tc := range [...]struct {
		version uint64
		addr    uintptr
	}{
		{0, 0},
		{1, 0x1000},
		{0xffff, 0x7fff_ffff_f000},
	} {
		version, addr := unpackPointerHead(packPointerHead(tc.version, tc.addr))
		assert.Equal(t, tc.version&0xffff, version)
		assert.Equal(t, tc.addr, addr)
	}
}

func TestLargeFreeList_lifo(t *testing.T) {
	var l largeFreeList

	_, ok := l.pop()
	assert.False(t, ok)

	bufs := [][]byte{
		alignedAlloc(64, sizeOfPointer),
		alignedAlloc(64, sizeOfPointer),
		alignedAlloc(64, sizeOfPointer),
	}
	for _, b := range bufs {
		l.push(runAddr(b))
	}
	for i := len(bufs) - 1; i >= 0; i-- {
		addr, ok := l.pop()
		require.True(t, ok)
		assert.Equal(t, runAddr(bufs[i]), addr)
	}
	_, ok = l.pop()
	assert.False(t, ok)

	runtime.KeepAlive(bufs)
}

func TestLargeFreeList_versionMonotonicity(t *testing.T) {
	var l largeFreeList

	a := alignedAlloc(64, sizeOfPointer)
	b := alignedAlloc(64, sizeOfPointer)

	l.push(runAddr(a))
	version, _ := unpackPointerHead(l.head.Load())
	assert.Equal(t, uint64(1), version)

	l.push(runAddr(b))
	version, _ = unpackPointerHead(l.head.Load())
	assert.Equal(t, uint64(2), version)

	// pop carries the version through unchanged
	_, ok := l.pop()
	require.True(t, ok)
	version, addr := unpackPointerHead(l.head.Load())
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, runAddr(a), addr)

	// a fresh push strictly advances the observable version, invalidating
	// any snapshot taken before it
	l.push(runAddr(b))
	version, _ = unpackPointerHead(l.head.Load())
	assert.Equal(t, uint64(3), version)

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestLargeFreeList_linkInRunBytes(t *testing.T) {
	var l largeFreeList

	a := alignedAlloc(64, sizeOfPointer)
	b := alignedAlloc(64, sizeOfPointer)

	l.push(runAddr(a))
	l.push(runAddr(b))

	// the head run's first bytes hold the address of the run below it
	assert.Equal(t, runAddr(a), *nextSlot(runAddr(b)))

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}
