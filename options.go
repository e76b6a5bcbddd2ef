package charpool

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// Defaults applied by New when the corresponding option is not provided.
// They match the pool's intended sweet spot: sub-word strings recycled by
// exact size, word-to-page strings by power-of-two class.
const (
	DefaultSmallMin  = 1
	DefaultSmallMax  = 8
	DefaultBlockSize = 4096
)

// smallMaxLimit is the largest permitted smallMax; beyond this, exact-size
// segregation stops paying for its per-size stacks.
const smallMaxLimit = 256

// poolOptions holds configuration options for Pool creation.
type poolOptions struct {
	logger       *logiface.Logger[logiface.Event]
	smallMin     int
	smallMax     int
	blockSize    int
	maxFreeNodes int
	stats        bool
}

// Option configures a Pool instance.
type Option interface {
	applyPool(*poolOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (x *optionImpl) applyPool(opts *poolOptions) error {
	return x.applyPoolFunc(opts)
}

// WithSmallMin sets the smallest size Alloc will accept, in bytes.
// Must satisfy 1 <= n <= smallMax.
func WithSmallMin(n int) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.smallMin = n
		return nil
	}}
}

// WithSmallMax sets the boundary between the exact-size free stacks and the
// power-of-two buckets, in bytes. Must be a power of two, at most 256, and
// at least the native pointer size (a freed run at or above this size stores
// its free-list link in its own first bytes). Typically a machine word.
func WithSmallMax(n int) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.smallMax = n
		return nil
	}}
}

// WithBlockSize sets the size of each backing block, in bytes. Must be a
// power of two, at least smallMax. Requests of this size or larger bypass
// the pool and are served by the system allocator.
func WithBlockSize(n int) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.blockSize = n
		return nil
	}}
}

// WithMaxFreeNodes caps the free-node arena behind the exact-size stacks.
// Once the cap is reached, releasing a small run fails with ErrReleaseFailed
// until nodes are recycled by matching allocations. Zero (the default) means
// unbounded.
func WithMaxFreeNodes(n int) Option {
	return &optionImpl{func(opts *poolOptions) error {
		if n < 0 {
			return fmt.Errorf(`%w: max free nodes %d is negative`, ErrInvalidOptions, n)
		}
		opts.maxFreeNodes = n
		return nil
	}}
}

// WithLogger sets the structured logger used on cold paths (block growth,
// spin exhaustion, close). A nil logger disables logging; the allocation hot
// path never logs.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithStats enables runtime counter collection on the Pool.
// When enabled, counters can be accessed via Pool.Stats(). The overhead is
// one atomic increment per operation.
func WithStats(enabled bool) Option {
	return &optionImpl{func(opts *poolOptions) error {
		opts.stats = enabled
		return nil
	}}
}

// resolvePoolOptions applies Option instances to poolOptions and validates
// the result.
func resolvePoolOptions(opts []Option) (*poolOptions, error) {
	cfg := &poolOptions{
		smallMin:  DefaultSmallMin,
		smallMax:  DefaultSmallMax,
		blockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	switch {
	case cfg.smallMin < 1 || cfg.smallMin > cfg.smallMax:
		return nil, fmt.Errorf(`%w: small min %d must be in [1, %d]`, ErrInvalidOptions, cfg.smallMin, cfg.smallMax)
	case !isPowerOfTwo(uint(cfg.smallMax)):
		return nil, fmt.Errorf(`%w: small max %d must be a power of two`, ErrInvalidOptions, cfg.smallMax)
	case cfg.smallMax < sizeOfPointer:
		return nil, fmt.Errorf(`%w: small max %d is below the pointer size %d`, ErrInvalidOptions, cfg.smallMax, sizeOfPointer)
	case cfg.smallMax > smallMaxLimit:
		return nil, fmt.Errorf(`%w: small max %d exceeds the limit %d`, ErrInvalidOptions, cfg.smallMax, smallMaxLimit)
	case !isPowerOfTwo(uint(cfg.blockSize)):
		return nil, fmt.Errorf(`%w: block size %d must be a power of two`, ErrInvalidOptions, cfg.blockSize)
	case cfg.blockSize < cfg.smallMax:
		return nil, fmt.Errorf(`%w: block size %d is below small max %d`, ErrInvalidOptions, cfg.blockSize, cfg.smallMax)
	}
	return cfg, nil
}
