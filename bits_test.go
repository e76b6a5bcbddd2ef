package charpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPowerOfTwo(t *testing.T) {
	for _, tc := range [...]struct {
		v    uint
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{4, true},
		{6, false},
		{8, true},
		{255, false},
		{256, true},
		{1 << 20, true},
		{1<<20 + 1, false},
	} {
		assert.Equal(t, tc.want, isPowerOfTwo(tc.v), `isPowerOfTwo(%d)`, tc.v)
	}
}

func TestFloorLog2(t *testing.T) {
	for _, tc := range [...]struct {
		v    uint
		want uint
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{9, 3},
		{100, 6},
		{1024, 10},
		{1025, 10},
	} {
		assert.Equal(t, tc.want, floorLog2(tc.v), `floorLog2(%d)`, tc.v)
	}
}

func TestCeilLog2(t *testing.T) {
	for _, tc := range [...]struct {
		v    uint
		want uint
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{70, 7},
		{100, 7},
		{1024, 10},
	} {
		assert.Equal(t, tc.want, ceilLog2(tc.v), `ceilLog2(%d)`, tc.v)
	}
}
