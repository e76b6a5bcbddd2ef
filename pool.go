package charpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joeycumines/logiface"
)

// growSpinBudget bounds how long a goroutine that lost the leader election
// busy-waits for a fresh head block before surfacing ErrOutOfMemory. The
// bound turns a pathological live-lock into a soft, retryable failure.
const growSpinBudget = 1000

// Pool is a concurrent fixed-purpose allocator for short byte strings.
// Instances must be created via New. See the package documentation for the
// allocation strategy and ownership rules.
type Pool struct {
	logger *logiface.Logger[logiface.Event]
	stats  *poolStats

	arena *nodeArena
	small []indexStack    // one per exact size in [smallMin, smallMax)
	large []largeFreeList // one per power-of-two class in [smallMax, blockSize)

	smallMin       int
	smallMax       int
	blockSize      int
	levelThreshold uint // floorLog2(smallMax)

	growMu sync.Mutex // serializes the decision to install a new head block
	block  atomic.Pointer[block]
	closed atomic.Bool
}

// New creates a Pool from the provided options. It returns ErrInvalidOptions
// (wrapped with detail) if the resolved options fail validation.
func New(opts ...Option) (*Pool, error) {
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		return nil, err
	}

	maxNodes := uint32(0)
	if cfg.maxFreeNodes > 0 {
		maxNodes = uint32(cfg.maxFreeNodes)
	}

	p := &Pool{
		logger:         cfg.logger,
		arena:          newNodeArena(maxNodes),
		smallMin:       cfg.smallMin,
		smallMax:       cfg.smallMax,
		blockSize:      cfg.blockSize,
		levelThreshold: floorLog2(uint(cfg.smallMax)),
	}
	if cfg.stats {
		p.stats = &poolStats{}
	}

	p.small = make([]indexStack, cfg.smallMax-cfg.smallMin)
	for i := range p.small {
		p.small[i].arena = p.arena
	}

	p.large = make([]largeFreeList, max(1, int(floorLog2(uint(cfg.blockSize))-p.levelThreshold)))

	p.block.Store(newBlock(cfg.blockSize))

	p.logger.Debug().
		Int(`smallMin`, cfg.smallMin).
		Int(`smallMax`, cfg.smallMax).
		Int(`blockSize`, cfg.blockSize).
		Int(`largeLists`, len(p.large)).
		Log(`charpool: pool created`)

	return p, nil
}

// Alloc returns a writable run of exactly n bytes. The run is exclusively
// owned by the caller until passed to Release, or until Close invalidates
// it. The contents are NOT zeroed; recycled runs carry stale bytes.
//
// Returns ErrInvalidSize if n is below the configured minimum, and
// ErrOutOfMemory if the bounded wait for a fresh block is exhausted (the
// caller may retry).
func (p *Pool) Alloc(n int) ([]byte, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}
	if n < p.smallMin {
		return nil, fmt.Errorf(`%w: %d is below the configured minimum %d`, ErrInvalidSize, n, p.smallMin)
	}

	// Oversize runs bypass the pool entirely.
	if n >= p.blockSize {
		if s := p.stats; s != nil {
			s.oversizeAllocs.Add(1)
		}
		return alignedAlloc(n, sizeOfCacheLine), nil
	}

	// Walk the exact-size stacks from n upward. A run from a larger class is
	// acceptable; the caller only uses n bytes of it.
	if n < p.smallMax {
		for i := n - p.smallMin; i < len(p.small); i++ {
			if addr, ok := p.small[i].pop(); ok {
				if s := p.stats; s != nil {
					s.smallReuse.Add(1)
				}
				return runBytes(addr, n), nil
			}
		}
	}

	// Walk the power-of-two buckets from the smallest class that is
	// guaranteed to hold n upward, probing each bucket once. Sizes at or
	// below half of smallMax resolve to a negative level and skip this walk.
	if level := int(ceilLog2(uint(n))) - int(p.levelThreshold); level >= 0 {
		for j := level; j < len(p.large); j++ {
			if addr, ok := p.large[j].pop(); ok {
				if s := p.stats; s != nil {
					s.largeReuse.Add(1)
				}
				return runBytes(addr, n), nil
			}
		}
	}

	return p.bumpAlloc(n)
}

// bumpAlloc claims n bytes from the head block, growing the chain when the
// head is exhausted. Exactly one goroutine wins the try-lock and installs the
// fresh block, claiming its [0, n) prefix; the rest retry against the new
// head, relax-spinning within growSpinBudget.
func (p *Pool) bumpAlloc(n int) ([]byte, error) {
	var last *block
	spins := 0
	for {
		b := p.block.Load()
		if b != last {
			end := b.fill.Add(uint64(n))
			off := end - uint64(n)
			if end <= uint64(p.blockSize) {
				if s := p.stats; s != nil {
					s.bumpAllocs.Add(1)
				}
				return b.run(off, uint64(n)), nil
			}

			// The head is exhausted for this request. Rather than winding the
			// fill index back (another goroutine may have advanced it), recycle
			// the trailing remainder through the free lists so it is not lost.
			// A failed push leaks the tail into the retired block until Close.
			if off < uint64(p.blockSize) && p.blockSize-int(off) >= p.smallMin {
				if p.releaseRun(b.base+uintptr(off), p.blockSize-int(off)) == nil {
					if s := p.stats; s != nil {
						s.remainderReclaims.Add(1)
					}
				}
			}
		}

		if p.growMu.TryLock() {
			// Another goroutine may have already grown the chain; if so the
			// fresh head's fill index is live and we retry against it.
			cur := p.block.Load()
			if cur != b {
				p.growMu.Unlock()
				last = nil
				continue
			}
			nb := newBlock(p.blockSize)
			// Claim the zeroth index for this goroutine by seeding the fill.
			nb.fill.Store(uint64(n))
			nb.next = cur
			p.block.Store(nb)
			p.growMu.Unlock()

			if s := p.stats; s != nil {
				s.blockGrows.Add(1)
			}
			p.logger.Debug().
				Int(`size`, n).
				Log(`charpool: grew block chain`)

			return nb.run(0, uint64(n)), nil
		}

		if spins >= growSpinBudget {
			if s := p.stats; s != nil {
				s.spinFailures.Add(1)
			}
			p.logger.Warning().
				Int(`size`, n).
				Int(`spins`, spins).
				Log(`charpool: exhausted spin budget waiting for a new block`)
			return nil, fmt.Errorf(`%w: exhausted spin budget waiting for a new block`, ErrOutOfMemory)
		}
		spins++
		runtime.Gosched()
		last = b
	}
}

// Release returns a run previously obtained from this pool. len(b) must
// equal the originally requested size. After Release the caller must not
// read or write the run.
//
// Returns ErrInvalidSize if len(b) is below the configured minimum, and
// ErrReleaseFailed if the free-node arena is exhausted; in the latter case
// the run is not recycled but no invariant is violated.
func (p *Pool) Release(b []byte) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	if len(b) < p.smallMin {
		return fmt.Errorf(`%w: %d is below the configured minimum %d`, ErrInvalidSize, len(b), p.smallMin)
	}
	return p.releaseRun(uintptr(unsafe.Pointer(unsafe.SliceData(b))), len(b))
}

// releaseRun routes the run at addr to the free list for size n. Callers
// have validated n >= smallMin.
func (p *Pool) releaseRun(addr uintptr, n int) error {
	if n < p.smallMax {
		if !p.small[n-p.smallMin].push(addr) {
			return fmt.Errorf(`%w: free node arena exhausted`, ErrReleaseFailed)
		}
		if s := p.stats; s != nil {
			s.smallReleases.Add(1)
		}
		return nil
	}

	if n >= p.blockSize {
		// Oversize runs were served directly by the system allocator;
		// dropping the last reference is the matching free.
		if s := p.stats; s != nil {
			s.oversizeReleases.Add(1)
		}
		return nil
	}

	// Release to the floorLog2 class, which guarantees that the bucket at
	// level i only holds runs of size 2^(i+levelThreshold) or larger.
	p.large[floorLog2(uint(n))-p.levelThreshold].push(addr)
	if s := p.stats; s != nil {
		s.largeReleases.Add(1)
	}
	return nil
}

// Copy allocates a run of len(data)+1 bytes holding a copy of data followed
// by a terminating NUL, and returns it. Failure modes are those of Alloc.
func (p *Pool) Copy(data []byte) ([]byte, error) {
	b, err := p.Alloc(len(data) + 1)
	if err != nil {
		return nil, err
	}
	copy(b, data)
	b[len(data)] = 0
	return b, nil
}

// CopyString is Copy for a string source.
func (p *Pool) CopyString(s string) ([]byte, error) {
	b, err := p.Alloc(len(s) + 1)
	if err != nil {
		return nil, err
	}
	copy(b, s)
	b[len(s)] = 0
	return b, nil
}

// Stats returns a snapshot of the pool's counters. It returns the zero value
// unless the pool was created with WithStats(true).
func (p *Pool) Stats() Stats {
	if s := p.stats; s != nil {
		return s.snapshot()
	}
	return Stats{}
}

// Close releases every backing block and the free-list machinery. It is not
// safe against concurrent users of the pool; callers must quiesce first.
// Runs still held by callers are invalidated together with their blocks.
// Close is idempotent, and always returns nil.
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.logger.Debug().Log(`charpool: pool closed`)

	// Dropping the references releases the chain, the node arena segments,
	// and every on-list run in one sweep.
	p.block.Store(nil)
	p.small = nil
	p.large = nil
	p.arena = nil
	return nil
}

// runBytes reinterprets the run at addr as a byte slice of length and
// capacity n. The address always lies within a pool-owned block, which the
// pool keeps reachable until Close.
func runBytes(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}
