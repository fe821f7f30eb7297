package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KindTemplate holds static data for one content kind loaded from YAML.
// Pool sizing lives here rather than in server.toml because it is per-kind
// content data, like everything else in this file.
type KindTemplate struct {
	Kind           string   `yaml:"kind"`
	SpawnWeight    int      `yaml:"spawn_weight"` // relative weight per content slot
	MaxPerCell     int      `yaml:"max_per_cell"`
	PoolSize       int      `yaml:"pool_size"`
	PoolAutoExpand bool     `yaml:"pool_auto_expand"`
	Variants       int      `yaml:"variants"`    // sprite variant count, >= 1
	DriftSpeed     float64  `yaml:"drift_speed"` // world units per second, 0 = static
	Palettes       []string `yaml:"palettes"`
	NamePrefixes   []string `yaml:"name_prefixes"`
	NameSuffixes   []string `yaml:"name_suffixes"`
}

type kindListFile struct {
	EmptyWeight int            `yaml:"empty_weight"`
	MaxEntities int            `yaml:"max_entities_per_cell"`
	Kinds       []KindTemplate `yaml:"kinds"`
}

// KindTable holds all kind templates in file order. Generation iterates the
// ordered slice, never the map, since map order would break determinism.
type KindTable struct {
	templates map[string]*KindTemplate
	ordered   []*KindTemplate

	// EmptyWeight is the relative weight of a content slot rolling "nothing".
	// Zero means every slot produces content.
	EmptyWeight int
	// MaxEntities caps content slots rolled per cell.
	MaxEntities int
}

// LoadKindTable loads kind templates from a YAML file.
func LoadKindTable(path string) (*KindTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kind_list: %w", err)
	}
	var f kindListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse kind_list: %w", err)
	}
	if len(f.Kinds) == 0 {
		return nil, fmt.Errorf("kind_list %s: no kinds defined", path)
	}
	if f.EmptyWeight < 0 {
		return nil, fmt.Errorf("kind_list %s: negative empty_weight", path)
	}
	if f.MaxEntities < 1 {
		f.MaxEntities = 3
	}

	t := &KindTable{
		templates:   make(map[string]*KindTemplate, len(f.Kinds)),
		ordered:     make([]*KindTemplate, 0, len(f.Kinds)),
		EmptyWeight: f.EmptyWeight,
		MaxEntities: f.MaxEntities,
	}
	for i := range f.Kinds {
		k := &f.Kinds[i]
		if k.Kind == "" {
			return nil, fmt.Errorf("kind_list %s: entry %d has no kind name", path, i)
		}
		if _, dup := t.templates[k.Kind]; dup {
			return nil, fmt.Errorf("kind_list %s: duplicate kind %q", path, k.Kind)
		}
		if k.SpawnWeight < 0 {
			return nil, fmt.Errorf("kind_list %s: kind %q has negative spawn_weight", path, k.Kind)
		}
		if k.Variants < 1 {
			k.Variants = 1
		}
		if k.MaxPerCell < 1 {
			k.MaxPerCell = 1
		}
		t.templates[k.Kind] = k
		t.ordered = append(t.ordered, k)
	}
	return t, nil
}

// Get returns the template for a kind name, or nil.
func (t *KindTable) Get(kind string) *KindTemplate {
	return t.templates[kind]
}

// All returns all templates in file order.
func (t *KindTable) All() []*KindTemplate {
	return t.ordered
}

// Count returns the number of kind templates.
func (t *KindTable) Count() int {
	return len(t.ordered)
}
