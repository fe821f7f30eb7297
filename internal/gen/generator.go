package gen

import (
	"fmt"
	"math/rand"

	"github.com/stardrift/server/internal/data"
)

// Generator is the contract the streamer calls during cell load. Generate is
// referentially transparent: the same seed always yields the same descriptor
// set, so already-held descriptors are never regenerated.
type Generator interface {
	Generate(seed int64) ([]Descriptor, error)
}

// AssetSource produces visual assets for generated content. Reached only
// through the asset cache, never from the streamer.
type AssetSource interface {
	AssetFor(kind Kind, seed int64) Sprite
}

// sizeWeights drives the size-class roll. Indexed by SizeClass.
var sizeWeights = [sizeClassCount]int{10, 25, 35, 20, 10}

// moonRange gives [min, max] moon count per planet size class.
var moonRange = [sizeClassCount][2]int{
	SizeTiny:   {0, 0},
	SizeSmall:  {0, 0},
	SizeMedium: {0, 1},
	SizeLarge:  {0, 2},
	SizeGiant:  {1, 3},
}

type resolvedKind struct {
	kind Kind
	tmpl *data.KindTemplate
}

// DefaultGenerator is the built-in content generator. All rolls come from a
// seed-keyed PRNG, so output is a pure function of the seed. Single-goroutine
// access only (game loop), like the streamer that calls it.
type DefaultGenerator struct {
	kinds       []resolvedKind
	emptyWeight int
	totalWeight int
	maxEntities int
	cellSpan    float64
	namer       *namer
}

// NewDefaultGenerator resolves the kind table against the closed kind set.
// Unknown kind names in the table are rejected here, not at generation time.
func NewDefaultGenerator(table *data.KindTable, cellSpan float64) (*DefaultGenerator, error) {
	if cellSpan <= 0 {
		return nil, fmt.Errorf("cell span must be positive, got %v", cellSpan)
	}
	g := &DefaultGenerator{
		emptyWeight: table.EmptyWeight,
		totalWeight: table.EmptyWeight,
		maxEntities: table.MaxEntities,
		cellSpan:    cellSpan,
		namer:       newNamer(),
	}
	for _, tmpl := range table.All() {
		kind, ok := KindByName(tmpl.Kind)
		if !ok {
			return nil, fmt.Errorf("kind_list references unknown kind %q", tmpl.Kind)
		}
		g.kinds = append(g.kinds, resolvedKind{kind: kind, tmpl: tmpl})
		g.totalWeight += tmpl.SpawnWeight
	}
	if g.totalWeight <= 0 {
		return nil, fmt.Errorf("kind_list has zero total spawn weight")
	}
	return g, nil
}

// Template returns the kind table entry backing a kind, or nil when the
// table does not define it.
func (g *DefaultGenerator) Template(kind Kind) *data.KindTemplate {
	for _, rk := range g.kinds {
		if rk.kind == kind {
			return rk.tmpl
		}
	}
	return nil
}

// Generate rolls the content of one cell. An empty result is a valid
// "nothing here" cell, not an error.
func (g *DefaultGenerator) Generate(seed int64) ([]Descriptor, error) {
	rng := rand.New(rand.NewSource(seed))

	var out []Descriptor
	counts := make(map[Kind]int, len(g.kinds))
	for slot := 0; slot < g.maxEntities; slot++ {
		rk, ok := g.rollKind(rng)
		if !ok {
			continue // empty slot
		}
		if counts[rk.kind] >= rk.tmpl.MaxPerCell {
			continue // kind already at its per-cell cap; slot stays empty
		}
		counts[rk.kind]++
		out = append(out, g.rollDescriptor(rk, SubSeed(seed, slot)))
	}
	return out, nil
}

// rollKind picks a kind (or empty) by spawn weight. The walk order is the
// kind table's file order, which keeps the roll deterministic.
func (g *DefaultGenerator) rollKind(rng *rand.Rand) (resolvedKind, bool) {
	roll := rng.Intn(g.totalWeight)
	if roll < g.emptyWeight {
		return resolvedKind{}, false
	}
	roll -= g.emptyWeight
	for _, rk := range g.kinds {
		if roll < rk.tmpl.SpawnWeight {
			return rk, true
		}
		roll -= rk.tmpl.SpawnWeight
	}
	return resolvedKind{}, false
}

// rollDescriptor synthesizes one descriptor from its entity seed. Attributes
// depend only on the entity seed, not on what else the cell rolled.
func (g *DefaultGenerator) rollDescriptor(rk resolvedKind, seed int64) Descriptor {
	rng := rand.New(rand.NewSource(seed))
	d := Descriptor{
		Kind: rk.kind,
		Seed: seed,
		Offset: Offset{
			DX: rng.Float64() * g.cellSpan,
			DY: rng.Float64() * g.cellSpan,
		},
		Size:    rollSize(rng),
		Variant: rng.Intn(rk.tmpl.Variants),
	}
	if len(rk.tmpl.Palettes) > 0 {
		d.Palette = rk.tmpl.Palettes[rng.Intn(len(rk.tmpl.Palettes))]
	}
	d.Name = g.namer.entityName(rng, rk.kind, rk.tmpl)

	if rk.kind == KindPlanet {
		d.Moons = g.rollMoons(d, rng)
	}
	return d
}

func (g *DefaultGenerator) rollMoons(parent Descriptor, rng *rand.Rand) []Descriptor {
	r := moonRange[parent.Size]
	n := r[0]
	if span := r[1] - r[0]; span > 0 {
		n += rng.Intn(span + 1)
	}
	if n == 0 {
		return nil
	}
	moons := make([]Descriptor, 0, n)
	for i := 0; i < n; i++ {
		mseed := SubSeed(parent.Seed, i+1)
		mrng := rand.New(rand.NewSource(mseed))
		moons = append(moons, Descriptor{
			Kind: KindPlanet,
			Seed: mseed,
			Offset: Offset{
				// Close orbit around the parent, clamped to the cell.
				DX: clamp(parent.Offset.DX+(mrng.Float64()-0.5)*g.cellSpan/8, 0, g.cellSpan),
				DY: clamp(parent.Offset.DY+(mrng.Float64()-0.5)*g.cellSpan/8, 0, g.cellSpan),
			},
			Size:    SizeTiny,
			Variant: 0,
			Palette: parent.Palette,
			Name:    g.namer.moonName(parent.Name, i),
		})
	}
	return moons
}

func rollSize(rng *rand.Rand) SizeClass {
	total := 0
	for _, w := range sizeWeights {
		total += w
	}
	roll := rng.Intn(total)
	for s, w := range sizeWeights {
		if roll < w {
			return SizeClass(s)
		}
		roll -= w
	}
	return SizeMedium
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
