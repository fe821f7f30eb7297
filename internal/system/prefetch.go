package system

import (
	"time"

	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/gen"
	"github.com/stardrift/server/internal/world"
)

// PrefetchSystem renders sprites for freshly loaded cells while they are
// still PRELOADED, so activation finds every asset already cached. Phase 2
// (PostUpdate). The budget is cells per tick; one cell may render several
// sprites.
type PrefetchSystem struct {
	streamer *world.Streamer
	library  *gen.Library
	budget   int
	queue    []world.CellCoord
}

func NewPrefetchSystem(streamer *world.Streamer, library *gen.Library, budget int) *PrefetchSystem {
	s := &PrefetchSystem{streamer: streamer, library: library, budget: budget}
	streamer.Events().CellLoaded.Subscribe(func(ev world.CellLoaded) {
		if ev.Descriptors > 0 {
			s.queue = append(s.queue, ev.Coord)
		}
	})
	return s
}

func (s *PrefetchSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *PrefetchSystem) Update(_ time.Duration) {
	for n := 0; n < s.budget && len(s.queue) > 0; n++ {
		c := s.queue[0]
		s.queue = s.queue[1:]
		// Descriptors returns nil if the cell was unloaded meanwhile.
		for _, d := range s.streamer.Descriptors(c) {
			s.library.Sprite(d.Kind, d.Seed)
			for _, m := range d.Moons {
				s.library.Sprite(m.Kind, m.Seed)
			}
		}
	}
}

// Pending reports how many loaded cells still await sprite rendering.
func (s *PrefetchSystem) Pending() int { return len(s.queue) }
