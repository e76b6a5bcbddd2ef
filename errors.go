package charpool

import (
	"errors"
)

var (
	// ErrInvalidOptions is returned by New when the resolved options fail
	// validation. It is wrapped with detail describing the offending option.
	ErrInvalidOptions = errors.New(`charpool: invalid options`)

	// ErrInvalidSize is returned by Alloc and Release when the requested size
	// is below the pool's configured minimum.
	ErrInvalidSize = errors.New(`charpool: invalid size`)

	// ErrOutOfMemory is returned by Alloc when the bounded spin waiting for a
	// new head block is exhausted. The caller may retry.
	ErrOutOfMemory = errors.New(`charpool: out of memory`)

	// ErrReleaseFailed is returned by Release when the free-node arena behind
	// the exact-size stacks is exhausted. The run is not recycled, but no
	// invariant is violated; its storage is reclaimed at Close.
	ErrReleaseFailed = errors.New(`charpool: release failed`)

	// ErrPoolClosed is returned by pool operations after Close.
	ErrPoolClosed = errors.New(`charpool: pool closed`)
)
