package gen

import (
	"fmt"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stardrift/server/internal/data"
)

var planetNumerals = []string{"II", "III", "IV", "V", "VI"}

// namer assembles display names from the kind table's word lists.
// cases.Title replaces the deprecated strings.Title; the caser is stateful,
// which is fine under the package's single-goroutine contract.
type namer struct {
	title cases.Caser
}

func newNamer() *namer {
	return &namer{title: cases.Title(language.English)}
}

// entityName builds a name like "Kel Prime IV" or "Port Alpha C-41".
// Empty word lists yield an empty name; callers tolerate unnamed content.
// Titling happens before the numeral/designation suffix, which must keep
// its own casing.
func (n *namer) entityName(rng *rand.Rand, kind Kind, tmpl *data.KindTemplate) string {
	if len(tmpl.NamePrefixes) == 0 || len(tmpl.NameSuffixes) == 0 {
		return ""
	}
	prefix := tmpl.NamePrefixes[rng.Intn(len(tmpl.NamePrefixes))]
	suffix := tmpl.NameSuffixes[rng.Intn(len(tmpl.NameSuffixes))]
	name := n.title.String(prefix + " " + suffix)

	switch kind {
	case KindPlanet:
		if rng.Intn(3) == 0 {
			name += " " + planetNumerals[rng.Intn(len(planetNumerals))]
		}
	case KindStation:
		name = fmt.Sprintf("%s %c-%02d", name, 'A'+rune(rng.Intn(26)), rng.Intn(100))
	}
	return name
}

// moonName designates moons off the parent name, astronomy style
// ("Kessar Prime b"). The parent is already cased; the letter stays lower.
func (n *namer) moonName(parentName string, index int) string {
	if parentName == "" {
		return ""
	}
	return fmt.Sprintf("%s %c", parentName, 'b'+rune(index))
}
