package gen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardrift/server/internal/data"
	"github.com/stardrift/server/internal/gen"
)

const testKindYAML = `
empty_weight: 5
max_entities_per_cell: 4
kinds:
  - kind: planet
    spawn_weight: 10
    max_per_cell: 1
    variants: 4
    palettes: [ocher, jade]
    name_prefixes: [kel, vor]
    name_suffixes: [prime, haven]
  - kind: asteroid_field
    spawn_weight: 20
    max_per_cell: 3
    variants: 2
    palettes: [slate]
    name_prefixes: [belt]
    name_suffixes: [cluster]
  - kind: station
    spawn_weight: 5
    max_per_cell: 1
    variants: 3
    palettes: [chrome]
    name_prefixes: [port]
    name_suffixes: [alpha]
`

func writeKindTable(t *testing.T, yaml string) *data.KindTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kind_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	table, err := data.LoadKindTable(path)
	require.NoError(t, err)
	return table
}

func newTestGenerator(t *testing.T) *gen.DefaultGenerator {
	t.Helper()
	g, err := gen.NewDefaultGenerator(writeKindTable(t, testKindYAML), 512)
	require.NoError(t, err)
	return g
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newTestGenerator(t)

	for _, seed := range []int64{0, 1, -1, 12345, 1 << 40} {
		first, err := g.Generate(seed)
		require.NoError(t, err)
		second, err := g.Generate(seed)
		require.NoError(t, err)
		assert.Equal(t, first, second, "seed %d", seed)
	}

	// Different seeds produce different content somewhere in a small range.
	base, err := g.Generate(1000)
	require.NoError(t, err)
	differs := false
	for seed := int64(1001); seed < 1050 && !differs; seed++ {
		other, err := g.Generate(seed)
		require.NoError(t, err)
		if !assert.ObjectsAreEqual(base, other) {
			differs = true
		}
	}
	assert.True(t, differs, "fifty seeds produced identical cells")
}

func TestGenerateRespectsTableLimits(t *testing.T) {
	g := newTestGenerator(t)

	for seed := int64(0); seed < 200; seed++ {
		descs, err := g.Generate(seed)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(descs), 4, "seed %d", seed)

		counts := map[gen.Kind]int{}
		for _, d := range descs {
			counts[d.Kind]++

			assert.GreaterOrEqual(t, d.Offset.DX, 0.0)
			assert.LessOrEqual(t, d.Offset.DX, 512.0)
			assert.GreaterOrEqual(t, d.Offset.DY, 0.0)
			assert.LessOrEqual(t, d.Offset.DY, 512.0)
			assert.NotEmpty(t, d.Name, "seed %d kind %s", seed, d.Kind)
		}
		assert.LessOrEqual(t, counts[gen.KindPlanet], 1, "seed %d", seed)
		assert.LessOrEqual(t, counts[gen.KindAsteroidField], 3, "seed %d", seed)
		assert.LessOrEqual(t, counts[gen.KindStation], 1, "seed %d", seed)
	}
}

func TestMoonsOnlyOnPlanets(t *testing.T) {
	g := newTestGenerator(t)

	sawMoon := false
	for seed := int64(0); seed < 400; seed++ {
		descs, err := g.Generate(seed)
		require.NoError(t, err)
		for _, d := range descs {
			if d.Kind != gen.KindPlanet {
				assert.Empty(t, d.Moons, "seed %d kind %s", seed, d.Kind)
				continue
			}
			for _, m := range d.Moons {
				sawMoon = true
				assert.Equal(t, gen.KindPlanet, m.Kind)
				assert.Equal(t, gen.SizeTiny, m.Size)
				assert.Empty(t, m.Moons, "moons never nest")
				assert.GreaterOrEqual(t, m.Offset.DX, 0.0)
				assert.LessOrEqual(t, m.Offset.DX, 512.0)
			}
		}
	}
	assert.True(t, sawMoon, "four hundred cells rolled no moon at all")
}

func TestHighEmptyWeightYieldsEmptyCells(t *testing.T) {
	table := writeKindTable(t, `
empty_weight: 1000
max_entities_per_cell: 3
kinds:
  - kind: planet
    spawn_weight: 1
`)
	g, err := gen.NewDefaultGenerator(table, 512)
	require.NoError(t, err)

	empty := 0
	for seed := int64(0); seed < 50; seed++ {
		descs, err := g.Generate(seed)
		require.NoError(t, err)
		if len(descs) == 0 {
			empty++
		}
	}
	assert.Greater(t, empty, 40, "empty cells are a valid result, not an error")
}

func TestTemplateLookup(t *testing.T) {
	g := newTestGenerator(t)

	tmpl := g.Template(gen.KindPlanet)
	require.NotNil(t, tmpl)
	assert.Equal(t, "planet", tmpl.Kind)
	assert.Equal(t, 10, tmpl.SpawnWeight)

	assert.Nil(t, g.Template(gen.KindComet), "kind missing from the table")
}

func TestNewDefaultGeneratorRejections(t *testing.T) {
	table := writeKindTable(t, testKindYAML)

	_, err := gen.NewDefaultGenerator(table, 0)
	assert.Error(t, err)
	_, err = gen.NewDefaultGenerator(table, -5)
	assert.Error(t, err)

	unknown := writeKindTable(t, `
kinds:
  - kind: nebula
    spawn_weight: 5
`)
	_, err = gen.NewDefaultGenerator(unknown, 512)
	assert.Error(t, err, "unknown kind name must be rejected up front")

	zeroWeight := writeKindTable(t, `
empty_weight: 0
kinds:
  - kind: planet
    spawn_weight: 0
`)
	_, err = gen.NewDefaultGenerator(zeroWeight, 512)
	assert.Error(t, err, "zero total weight cannot roll anything")
}
