package charpool

import (
	"sync/atomic"
	"unsafe"
)

// block is one backing buffer in the pool's chain. Runs are bump-allocated
// from data by atomically advancing fill; the sub-range [old, old+n) claimed
// by a successful advance is the claiming goroutine's exclusive writable
// region. Only the chain head is ever advanced; once a block is unlinked from
// the head its fill is frozen and its bytes are immutable apart from live
// runs owned by callers.
type block struct {
	data []byte  // cache-line-aligned backing buffer, len == blockSize
	base uintptr // address of data[0]
	next *block  // previous head of the chain
	fill atomic.Uint64
}

// newBlock allocates a block with an aligned backing buffer of exactly
// blockSize bytes and a zero fill index.
func newBlock(blockSize int) *block {
	b := &block{data: alignedAlloc(blockSize, sizeOfCacheLine)}
	b.base = uintptr(unsafe.Pointer(unsafe.SliceData(b.data)))
	return b
}

// run returns the n-byte run starting at offset off, with capacity pinned so
// the caller cannot append past its claimed region.
func (b *block) run(off, n uint64) []byte {
	return b.data[off : off+n : off+n]
}
