package gen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stardrift/server/internal/gen"
)

func TestCellSeedDeterminism(t *testing.T) {
	assert.Equal(t, gen.CellSeed(20771, 3, -4), gen.CellSeed(20771, 3, -4))
	assert.Equal(t, gen.CellSeed(0, 0, 0), gen.CellSeed(0, 0, 0))
}

func TestCellSeedSpread(t *testing.T) {
	// Neighboring cells and swapped axes must land on different seeds.
	base := gen.CellSeed(20771, 0, 0)
	assert.NotEqual(t, base, gen.CellSeed(20771, 1, 0))
	assert.NotEqual(t, base, gen.CellSeed(20771, 0, 1))
	assert.NotEqual(t, base, gen.CellSeed(20771, -1, 0))
	assert.NotEqual(t, gen.CellSeed(20771, 2, 5), gen.CellSeed(20771, 5, 2))

	// A different world is a different world everywhere.
	assert.NotEqual(t, base, gen.CellSeed(20772, 0, 0))

	// No collisions across a block of nearby cells.
	seen := make(map[int64]bool)
	for x := -10; x <= 10; x++ {
		for y := -10; y <= 10; y++ {
			s := gen.CellSeed(20771, x, y)
			assert.False(t, seen[s], "collision at (%d,%d)", x, y)
			seen[s] = true
		}
	}
}

func TestSubSeed(t *testing.T) {
	parent := gen.CellSeed(20771, 2, 2)

	assert.Equal(t, gen.SubSeed(parent, 3), gen.SubSeed(parent, 3))
	assert.NotEqual(t, gen.SubSeed(parent, 0), gen.SubSeed(parent, 1))
	assert.NotEqual(t, gen.SubSeed(parent, 1), gen.SubSeed(parent, 2))
	assert.NotEqual(t, parent, gen.SubSeed(parent, 0))
}
