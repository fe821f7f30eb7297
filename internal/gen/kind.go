package gen

import "fmt"

// Kind tags one category of cell content. The set is closed: spawn and reset
// behavior dispatch on it through per-kind lookup tables, never through
// runtime probing.
type Kind uint8

const (
	KindPlanet Kind = iota
	KindAsteroidField
	KindStation
	KindComet

	KindCount // number of kinds, for lookup table sizing
)

var kindNames = [KindCount]string{
	KindPlanet:        "planet",
	KindAsteroidField: "asteroid_field",
	KindStation:       "station",
	KindComet:         "comet",
}

func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalYAML renders the name rather than the raw ordinal.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// KindByName resolves a YAML/script kind name to its tag.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Pooled reports whether live instances of this kind are recycled through an
// entity pool. Comets are one-shot and cheap; they are built and destroyed
// directly.
func (k Kind) Pooled() bool {
	return k != KindComet
}
