package gen

// SizeClass buckets content by scale. Affects asset dimensions and, for
// planets, the moon count range.
type SizeClass uint8

const (
	SizeTiny SizeClass = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeGiant

	sizeClassCount
)

var sizeNames = [sizeClassCount]string{"tiny", "small", "medium", "large", "giant"}

func (s SizeClass) String() string {
	if s < sizeClassCount {
		return sizeNames[s]
	}
	return "medium"
}

// MarshalYAML renders the name rather than the raw ordinal.
func (s SizeClass) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Offset is a position within a cell, in world units relative to the cell's
// origin corner. Always in [0, cell_span).
type Offset struct {
	DX float64
	DY float64
}

// Descriptor describes one piece of generated content. It is produced once
// per cell generation and never mutated afterwards; all runtime state
// (drift, damage) lives on the live instance built from it, never here.
type Descriptor struct {
	Kind    Kind
	Seed    int64 // per-entity seed, derived from the cell seed
	Offset  Offset
	Size    SizeClass
	Variant int    // sprite/template variant index within the kind
	Palette string // palette/theme name from the kind table
	Name    string // generated display name

	// Moons holds sub-descriptors orbiting this entity. Planets only;
	// empty for every other kind. Never nested further.
	Moons []Descriptor
}
