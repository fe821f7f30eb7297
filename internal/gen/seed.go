package gen

// Seed derivation. Every value here is a pure function of its inputs; no
// global state, no math/rand defaults. Stability across versions matters:
// a world seed must produce the same content forever, so the constants below
// must never change once a survey database exists.

// GeneratorVersion is bumped whenever derivation or descriptor synthesis
// changes in a way that alters generated content for an existing seed.
const GeneratorVersion = 1

// mix64 finalizes a 64-bit hash (splitmix64 finalizer).
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// CellSeed derives the deterministic seed for a cell from the world seed and
// the cell coordinates. Large odd constants decorrelate the axes.
func CellSeed(worldSeed int64, x, y int) int64 {
	h := uint64(worldSeed)
	h ^= uint64(uint32(int32(x))) * 0x9e3779b1
	h ^= uint64(uint32(int32(y))) * 0x85ebca6b
	return int64(mix64(h))
}

// SubSeed derives the seed for the n-th entity (or sub-entity) within a
// parent seed's content. Used for per-descriptor attribute streams and moon
// sub-descriptors.
func SubSeed(parent int64, n int) int64 {
	return int64(mix64(uint64(parent) + uint64(n)*0xc2b2ae3d27d4eb4f))
}
