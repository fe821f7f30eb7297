package system

import (
	"time"

	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/entity"
	"github.com/stardrift/server/internal/world"
)

// DriftSystem advances live instances along their drift velocity, bouncing
// them back when they stray too far from their spawn point. Phase 2
// (PostUpdate): runs on whatever the streamer left active this tick.
type DriftSystem struct {
	streamer *world.Streamer
	registry *entity.Registry
	maxDrift float64 // world units an instance may stray from home
}

func NewDriftSystem(streamer *world.Streamer, registry *entity.Registry, maxDrift float64) *DriftSystem {
	return &DriftSystem{streamer: streamer, registry: registry, maxDrift: maxDrift}
}

func (s *DriftSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DriftSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	for _, c := range s.streamer.ActiveCells() {
		for _, h := range s.streamer.EntitiesIn(c) {
			in := s.registry.Resolve(h)
			if in == nil || (in.VelX == 0 && in.VelY == 0) {
				continue
			}
			in.Pos.X += in.VelX * sec
			in.Pos.Y += in.VelY * sec
			if d := in.Pos.X - in.Home.X; d > s.maxDrift || d < -s.maxDrift {
				in.VelX = -in.VelX
			}
			if d := in.Pos.Y - in.Home.Y; d > s.maxDrift || d < -s.maxDrift {
				in.VelY = -in.VelY
			}
		}
	}
}
