package gen

import "math/rand"

// Sprite is a generated visual asset: a grid of palette indices plus
// metadata. Drawing is someone else's job; this package only guarantees the
// bytes are a pure function of (kind, seed).
type Sprite struct {
	Kind    Kind
	Seed    int64
	W, H    int
	Palette string
	Pixels  []byte // palette indices, row-major, len == W*H
}

// AssetKey identifies one cached asset.
type AssetKey struct {
	Kind Kind
	Seed int64
}

// Library memoizes asset generation behind the bounded cache. The streamer
// never touches this; renderers and the prefetch system do.
type Library struct {
	cache *Cache[AssetKey, Sprite]
	src   AssetSource
}

func NewLibrary(src AssetSource, capacity int) *Library {
	return &Library{
		cache: NewCache[AssetKey, Sprite](capacity),
		src:   src,
	}
}

// Sprite returns the asset for (kind, seed), generating it on first use.
func (l *Library) Sprite(kind Kind, seed int64) Sprite {
	return l.cache.GetOrInsert(AssetKey{Kind: kind, Seed: seed}, func() Sprite {
		return l.src.AssetFor(kind, seed)
	})
}

// Len returns the number of cached assets.
func (l *Library) Len() int { return l.cache.Len() }

// Clear drops every cached asset.
func (l *Library) Clear() { l.cache.Clear() }

// spriteDims maps kind and size class to sprite dimensions.
func spriteDims(kind Kind, size SizeClass) (int, int) {
	switch kind {
	case KindPlanet:
		d := 8 * (int(size) + 1)
		return d, d
	case KindAsteroidField:
		return 48, 48
	case KindStation:
		return 24, 16
	case KindComet:
		return 16, 4
	default:
		return 8, 8
	}
}

// AssetFor synthesizes the sprite for (kind, seed). The first rolls replay
// rollDescriptor's stream so the sprite scale matches the descriptor's size
// class; keep the two in lockstep when changing either.
func (g *DefaultGenerator) AssetFor(kind Kind, seed int64) Sprite {
	rng := rand.New(rand.NewSource(seed))
	rng.Float64() // offset X, unused here
	rng.Float64() // offset Y, unused here
	size := rollSize(rng)

	var palette string
	if tmpl := g.Template(kind); tmpl != nil {
		rng.Intn(tmpl.Variants) // variant, unused here but keeps the stream aligned
		if len(tmpl.Palettes) > 0 {
			palette = tmpl.Palettes[rng.Intn(len(tmpl.Palettes))]
		}
	}

	w, h := spriteDims(kind, size)
	px := rand.New(rand.NewSource(SubSeed(seed, 7)))
	pixels := make([]byte, w*h)
	switch kind {
	case KindPlanet:
		fillPlanet(pixels, w, h, px)
	case KindAsteroidField:
		fillSpeckle(pixels, px, 6)
	case KindStation:
		fillBlocks(pixels, w, h, px)
	default:
		fillSpeckle(pixels, px, 3)
	}
	return Sprite{Kind: kind, Seed: seed, W: w, H: h, Palette: palette, Pixels: pixels}
}

// fillPlanet shades concentric bands from the center outward.
func fillPlanet(pixels []byte, w, h int, rng *rand.Rand) {
	cx, cy := float64(w)/2, float64(h)/2
	rMax := cx
	if cy < rMax {
		rMax = cy
	}
	jitter := rng.Float64() * 0.5
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := dx*dx + dy*dy
			if d > rMax*rMax {
				continue // transparent corner
			}
			band := int((d/(rMax*rMax) + jitter) * 4)
			pixels[y*w+x] = byte(1 + band%4)
		}
	}
}

// fillSpeckle scatters density percent of the area with random indices.
func fillSpeckle(pixels []byte, rng *rand.Rand, density int) {
	n := len(pixels) * density / 100
	for i := 0; i < n; i++ {
		pixels[rng.Intn(len(pixels))] = byte(1 + rng.Intn(4))
	}
}

// fillBlocks draws mirrored rectangular modules, station style.
func fillBlocks(pixels []byte, w, h int, rng *rand.Rand) {
	for i := 0; i < 4; i++ {
		bw := 2 + rng.Intn(w/4)
		bh := 2 + rng.Intn(h/2)
		bx := rng.Intn(w/2 - 1)
		by := rng.Intn(h - bh + 1)
		idx := byte(1 + rng.Intn(4))
		for y := by; y < by+bh && y < h; y++ {
			for x := bx; x < bx+bw && x < w/2; x++ {
				pixels[y*w+x] = idx
				pixels[y*w+(w-1-x)] = idx // mirror
			}
		}
	}
}
