package gen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardrift/server/internal/gen"
)

// countingSource fabricates minimal sprites and counts generation calls.
type countingSource struct {
	calls int
}

func (s *countingSource) AssetFor(kind gen.Kind, seed int64) gen.Sprite {
	s.calls++
	return gen.Sprite{Kind: kind, Seed: seed, W: 2, H: 2, Pixels: make([]byte, 4)}
}

func TestLibraryCachesSprites(t *testing.T) {
	src := &countingSource{}
	lib := gen.NewLibrary(src, 16)

	a := lib.Sprite(gen.KindPlanet, 1)
	b := lib.Sprite(gen.KindPlanet, 1)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, lib.Len())

	// Same seed under a different kind is a different asset.
	lib.Sprite(gen.KindComet, 1)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 2, lib.Len())

	lib.Clear()
	assert.Equal(t, 0, lib.Len())
	lib.Sprite(gen.KindPlanet, 1)
	assert.Equal(t, 3, src.calls, "cleared assets regenerate")
}

func TestLibraryEvictionBound(t *testing.T) {
	src := &countingSource{}
	lib := gen.NewLibrary(src, 3)

	for seed := int64(0); seed < 10; seed++ {
		lib.Sprite(gen.KindStation, seed)
	}
	assert.Equal(t, 3, lib.Len())
	assert.Equal(t, 10, src.calls)

	// Newest three survive; the oldest re-renders on demand.
	lib.Sprite(gen.KindStation, 9)
	assert.Equal(t, 10, src.calls)
	lib.Sprite(gen.KindStation, 0)
	assert.Equal(t, 11, src.calls)
}

func TestGeneratorAssetsAreDeterministic(t *testing.T) {
	g := newTestGenerator(t)

	for _, kind := range []gen.Kind{gen.KindPlanet, gen.KindAsteroidField, gen.KindStation} {
		first := g.AssetFor(kind, 31337)
		second := g.AssetFor(kind, 31337)
		assert.Equal(t, first, second, "kind %s", kind)

		require.Positive(t, first.W, "kind %s", kind)
		require.Positive(t, first.H, "kind %s", kind)
		assert.Len(t, first.Pixels, first.W*first.H, "kind %s", kind)
		assert.Equal(t, kind, first.Kind)
		assert.Equal(t, int64(31337), first.Seed)
	}
}

func TestGeneratorAssetDimensions(t *testing.T) {
	g := newTestGenerator(t)

	field := g.AssetFor(gen.KindAsteroidField, 5)
	assert.Equal(t, 48, field.W)
	assert.Equal(t, 48, field.H)

	station := g.AssetFor(gen.KindStation, 5)
	assert.Equal(t, 24, station.W)
	assert.Equal(t, 16, station.H)

	// Planet sprites scale with the size class rolled for that seed, so the
	// sprite agrees with the descriptor the same seed produces.
	planet := g.AssetFor(gen.KindPlanet, 5)
	assert.Equal(t, planet.W, planet.H)
	assert.GreaterOrEqual(t, planet.W, 8)
	assert.LessOrEqual(t, planet.W, 40)
}
