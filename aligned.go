package charpool

import (
	"unsafe"
)

// alignedAlloc returns a buffer of length size whose first byte lies on an
// align-byte boundary. align must be a power of two. The returned slice has
// its capacity pinned to size, and keeps the (over-allocated) backing array
// reachable; dropping every reference to it is the matching free.
func alignedAlloc(size, align int) []byte {
	buf := make([]byte, size+align)
	off := int(-uintptr(unsafe.Pointer(unsafe.SliceData(buf))) & uintptr(align-1))
	return buf[off : off+size : off+size]
}
