package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardrift/server/internal/entity"
	"github.com/stardrift/server/internal/gen"
)

func TestHandleLayout(t *testing.T) {
	h := entity.NewHandle(gen.KindComet, 5, 9)
	assert.Equal(t, gen.KindComet, h.Kind())
	assert.Equal(t, uint32(5), h.Generation())
	assert.Equal(t, uint32(9), h.Index())
	assert.False(t, h.IsZero())

	assert.True(t, entity.NoHandle.IsZero())
	assert.Equal(t, uint32(0), entity.NoHandle.Generation())
}

func TestPoolAcquireRelease(t *testing.T) {
	p := entity.NewPool(gen.KindPlanet, 3, false, nil, nil, nil)
	assert.Equal(t, 3, p.Total())
	assert.Equal(t, 3, p.Idle())
	assert.Equal(t, 0, p.Loaned())
	assert.Equal(t, gen.KindPlanet, p.Kind())

	h, in, ok := p.Acquire()
	require.True(t, ok)
	require.NotNil(t, in)
	assert.Equal(t, gen.KindPlanet, in.Kind)
	assert.True(t, in.Active)
	assert.Equal(t, 2, p.Idle())
	assert.Equal(t, 1, p.Loaned())

	assert.True(t, p.Release(h))
	assert.Equal(t, 3, p.Idle())
	assert.Equal(t, 0, p.Loaned())
	assert.False(t, in.Active)
}

func TestPoolExhaustion(t *testing.T) {
	p := entity.NewPool(gen.KindStation, 3, false, nil, nil, nil)

	handles := make([]entity.Handle, 0, 3)
	for i := 0; i < 3; i++ {
		h, _, ok := p.Acquire()
		require.True(t, ok)
		handles = append(handles, h)
	}

	// Fourth acquire fails; nothing about the pool changes.
	h, in, ok := p.Acquire()
	assert.False(t, ok)
	assert.Equal(t, entity.NoHandle, h)
	assert.Nil(t, in)
	assert.Equal(t, 3, p.Loaned())
	assert.Equal(t, 0, p.Idle())

	// After one release the pool serves again.
	require.True(t, p.Release(handles[0]))
	_, _, ok = p.Acquire()
	assert.True(t, ok)
}

func TestPoolConservation(t *testing.T) {
	p := entity.NewPool(gen.KindAsteroidField, 8, false, nil, nil, nil)

	check := func() {
		assert.Equal(t, p.Total(), p.Idle()+p.Loaned())
	}

	var handles []entity.Handle
	check()
	for i := 0; i < 5; i++ {
		h, _, ok := p.Acquire()
		require.True(t, ok)
		handles = append(handles, h)
		check()
	}
	for _, h := range handles[:3] {
		require.True(t, p.Release(h))
		check()
	}
	assert.Equal(t, 8, p.Total())
}

func TestPoolDoubleReleaseIsNoOp(t *testing.T) {
	p := entity.NewPool(gen.KindPlanet, 2, false, nil, nil, nil)

	h, _, ok := p.Acquire()
	require.True(t, ok)

	assert.True(t, p.Release(h))
	assert.False(t, p.Release(h), "second release of the same handle")
	assert.Equal(t, 2, p.Idle())
	assert.Equal(t, 0, p.Loaned())
}

func TestPoolStaleHandleAfterRecycle(t *testing.T) {
	p := entity.NewPool(gen.KindPlanet, 1, false, nil, nil, nil)

	h1, in1, ok := p.Acquire()
	require.True(t, ok)
	require.True(t, p.Release(h1))

	// Same slot comes back with a bumped generation.
	h2, in2, ok := p.Acquire()
	require.True(t, ok)
	assert.Equal(t, h1.Index(), h2.Index())
	assert.Equal(t, h1.Generation()+1, h2.Generation())
	assert.NotEqual(t, h1, h2)
	assert.Same(t, in1, in2)

	// The old handle no longer resolves and cannot free the new loan.
	assert.Nil(t, p.Get(h1))
	assert.False(t, p.Release(h1))
	assert.Same(t, in2, p.Get(h2))
	assert.Equal(t, 1, p.Loaned())
}

func TestPoolRejectsForeignHandles(t *testing.T) {
	p := entity.NewPool(gen.KindPlanet, 2, false, nil, nil, nil)
	q := entity.NewPool(gen.KindStation, 2, false, nil, nil, nil)

	h, _, ok := q.Acquire()
	require.True(t, ok)

	assert.False(t, p.Release(h), "wrong kind")
	assert.Nil(t, p.Get(h))

	big := entity.NewHandle(gen.KindPlanet, 1, 500)
	assert.False(t, p.Release(big), "index out of range")
	assert.Nil(t, p.Get(big))
}

func TestPoolAutoExpand(t *testing.T) {
	p := entity.NewPool(gen.KindAsteroidField, 1, true, nil, nil, nil)

	_, _, ok := p.Acquire()
	require.True(t, ok)
	_, _, ok = p.Acquire()
	assert.True(t, ok, "auto-expanding pool must grow instead of failing")
	assert.Equal(t, 2, p.Total())
	assert.Equal(t, 2, p.Loaned())
}

func TestPoolResetOnRelease(t *testing.T) {
	p := entity.NewPool(gen.KindPlanet, 1, false, nil, nil, nil)

	h, in, ok := p.Acquire()
	require.True(t, ok)
	in.Seed = 42
	in.Name = "Kel Prime"
	in.Pos = entity.WorldPos{X: 10, Y: 20}
	in.Home = entity.WorldPos{X: 10, Y: 20}
	in.VelX = 1.5
	in.Integrity = 60
	require.True(t, p.Release(h))

	// The recycled instance starts clean, keeping only its kind.
	_, in2, ok := p.Acquire()
	require.True(t, ok)
	assert.Equal(t, gen.KindPlanet, in2.Kind)
	assert.Equal(t, int64(0), in2.Seed)
	assert.Empty(t, in2.Name)
	assert.Equal(t, entity.WorldPos{}, in2.Pos)
	assert.Equal(t, entity.WorldPos{}, in2.Home)
	assert.Zero(t, in2.VelX)
	assert.Zero(t, in2.Integrity)
	assert.True(t, in2.Active)
}

func TestPoolCustomBuildAndReset(t *testing.T) {
	built := 0
	resets := 0
	build := func() *entity.Instance {
		built++
		return &entity.Instance{Integrity: 100}
	}
	reset := func(in *entity.Instance) {
		resets++
		in.Name = ""
	}

	p := entity.NewPool(gen.KindStation, 2, false, build, reset, nil)
	assert.Equal(t, 2, built)

	h, in, ok := p.Acquire()
	require.True(t, ok)
	assert.Equal(t, 100, in.Integrity)

	in.Name = "Depot Gamma"
	require.True(t, p.Release(h))
	assert.Equal(t, 1, resets)
	assert.Empty(t, in.Name)
}
