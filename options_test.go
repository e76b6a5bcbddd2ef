package charpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_defaults(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, DefaultSmallMin, p.smallMin)
	assert.Equal(t, DefaultSmallMax, p.smallMax)
	assert.Equal(t, DefaultBlockSize, p.blockSize)
	assert.Equal(t, uint(3), p.levelThreshold)
	assert.Len(t, p.small, DefaultSmallMax-DefaultSmallMin)
	assert.Len(t, p.large, 9) // floorLog2(4096) - floorLog2(8)
	assert.NotNil(t, p.block.Load())
	assert.Nil(t, p.stats)
}

func TestNew_nilOptionsSkipped(t *testing.T) {
	p, err := New(nil, WithStats(true), nil)
	require.NoError(t, err)
	defer p.Close()
	assert.NotNil(t, p.stats)
}

func TestNew_invalidOptions(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		opts []Option
	}{
		{`zero small min`, []Option{WithSmallMin(0)}},
		{`small min above small max`, []Option{WithSmallMin(9), WithSmallMax(8)}},
		{`small max not power of two`, []Option{WithSmallMax(12)}},
		{`small max below pointer size`, []Option{WithSmallMin(1), WithSmallMax(4)}},
		{`small max above limit`, []Option{WithSmallMax(512), WithBlockSize(4096)}},
		{`block size not power of two`, []Option{WithBlockSize(1000)}},
		{`block size below small max`, []Option{WithSmallMax(64), WithBlockSize(32)}},
		{`negative max free nodes`, []Option{WithMaxFreeNodes(-1)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.opts...)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestNew_smallestBlock(t *testing.T) {
	// blockSize == smallMax degenerates to a single large list that can
	// never be populated; every in-range request is small or oversize.
	p, err := New(WithSmallMax(64), WithBlockSize(64))
	require.NoError(t, err)
	defer p.Close()
	assert.Len(t, p.large, 1)

	b, err := p.Alloc(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
	require.NoError(t, p.Release(b))
}

func TestNew_optionError(t *testing.T) {
	_, err := New(WithMaxFreeNodes(-1), WithSmallMin(0))
	// option errors surface before validation
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.True(t, errors.Is(err, ErrInvalidOptions))
}
