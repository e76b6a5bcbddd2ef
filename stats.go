package charpool

import (
	"sync/atomic"
)

// Stats is a snapshot of a Pool's operation counters, collected when the
// pool was created with WithStats(true). All counters are cumulative.
type Stats struct {
	// BumpAllocs counts runs claimed from a block via fetch-and-add.
	BumpAllocs uint64
	// BlockGrows counts fresh blocks installed at the chain head.
	BlockGrows uint64
	// SmallReuse counts allocations satisfied by an exact-size stack.
	SmallReuse uint64
	// LargeReuse counts allocations satisfied by a power-of-two bucket.
	LargeReuse uint64
	// OversizeAllocs counts requests of blockSize or more, served by the
	// system allocator.
	OversizeAllocs uint64
	// SmallReleases counts runs pushed onto an exact-size stack.
	SmallReleases uint64
	// LargeReleases counts runs pushed onto a power-of-two bucket.
	LargeReleases uint64
	// OversizeReleases counts releases handed back to the system allocator.
	OversizeReleases uint64
	// RemainderReclaims counts retired-block tails recycled into free lists.
	RemainderReclaims uint64
	// SpinFailures counts allocations that exhausted the grow spin budget.
	SpinFailures uint64
}

// poolStats is the live, atomically updated form of Stats.
type poolStats struct {
	bumpAllocs        atomic.Uint64
	blockGrows        atomic.Uint64
	smallReuse        atomic.Uint64
	largeReuse        atomic.Uint64
	oversizeAllocs    atomic.Uint64
	smallReleases     atomic.Uint64
	largeReleases     atomic.Uint64
	oversizeReleases  atomic.Uint64
	remainderReclaims atomic.Uint64
	spinFailures      atomic.Uint64
}

func (x *poolStats) snapshot() Stats {
	return Stats{
		BumpAllocs:        x.bumpAllocs.Load(),
		BlockGrows:        x.blockGrows.Load(),
		SmallReuse:        x.smallReuse.Load(),
		LargeReuse:        x.largeReuse.Load(),
		OversizeAllocs:    x.oversizeAllocs.Load(),
		SmallReleases:     x.smallReleases.Load(),
		LargeReleases:     x.largeReleases.Load(),
		OversizeReleases:  x.oversizeReleases.Load(),
		RemainderReclaims: x.remainderReclaims.Load(),
		SpinFailures:      x.spinFailures.Load(),
	}
}
