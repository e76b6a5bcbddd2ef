// Package charpool provides a thread-safe pool for short-lived,
// variable-length byte strings, bump-allocating runs from large backing
// blocks and recycling released runs through size-segregated lock-free free
// lists.
//
// It targets workloads such as tokenizers, interners, parsers, and log
// aggregators, which produce millions of small strings on many goroutines and
// either discard them in bulk or release them individually for reuse.
//
// # Architecture
//
// A [Pool] owns a singly-linked chain of fixed-size, cache-line-aligned
// backing blocks. Allocation claims a disjoint sub-range of the current head
// block via an atomic fetch-and-add on the block's fill index. When the head
// is exhausted, exactly one goroutine is elected (via a non-blocking try-lock)
// to install a fresh block; the losers spin with a bounded relax loop against
// the new head.
//
// Released runs are recycled through two tiers of free lists:
//
//   - Exact-size stacks, one per size in [smallMin, smallMax), backed by a
//     shared lock-free node arena. Small runs are too short to store a link in
//     their own bytes, so the linking nodes are external.
//   - Power-of-two buckets, one per size class in [smallMax, blockSize),
//     where the freed run's own first bytes hold the link to the next freed
//     run, and the bucket head pairs the item with a version tag to defeat
//     the ABA problem.
//
// Requests of blockSize or more bypass the pool entirely and are served by
// the system allocator.
//
// # Thread Safety
//
// [Pool.Alloc], [Pool.Release], [Pool.Copy], and [Pool.CopyString] are safe
// to call from any goroutine. All mutation is lock-free atomics except block
// growth, which is serialized by a try-lock held only for the duration of the
// install. [Pool.Close] is NOT safe against concurrent users; quiesce first.
//
// # Ownership
//
// A run returned by [Pool.Alloc] is exclusively owned by the caller until it
// is passed back via [Pool.Release]. Runs still held at [Pool.Close] are
// invalidated together with their backing block and must not be released or
// dereferenced afterward. Blocks are only reclaimed at Close; the pool never
// defragments or frees blocks during its lifetime.
//
// # Usage
//
//	pool, err := charpool.New(
//	    charpool.WithBlockSize(1 << 16),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	b, err := pool.CopyString("some short-lived token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// ... use b ...
//	_ = pool.Release(b)
package charpool
