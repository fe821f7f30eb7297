package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/entity"
	"github.com/stardrift/server/internal/gen"
	"github.com/stardrift/server/internal/world"
)

// StatsSystem logs a streaming digest at a fixed interval. Phase 2
// (PostUpdate), after the tick's transitions are done.
type StatsSystem struct {
	streamer  *world.Streamer
	pools     []*entity.Pool
	library   *gen.Library
	log       *zap.Logger
	interval  int // log every N ticks
	tickCount int
}

func NewStatsSystem(streamer *world.Streamer, pools []*entity.Pool, library *gen.Library, intervalTicks int, log *zap.Logger) *StatsSystem {
	return &StatsSystem{
		streamer: streamer,
		pools:    pools,
		library:  library,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *StatsSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	st := s.streamer.Stats()
	fields := []zap.Field{
		zap.Int("cells", st.CellsTracked),
		zap.Int("active", st.Active),
		zap.Int("preloaded", st.Preloaded),
		zap.Int("load_queue", st.LoadQueue),
		zap.Int("unload_queue", st.UnloadQueue),
		zap.Uint64("loads", st.Loads),
		zap.Uint64("unloads", st.Unloads),
		zap.Uint64("dropped_loads", st.DroppedLoads),
	}
	if st.GenFailures > 0 {
		fields = append(fields, zap.Uint64("gen_failures", st.GenFailures))
	}
	if st.SpawnFailures > 0 {
		fields = append(fields, zap.Uint64("spawn_failures", st.SpawnFailures))
	}
	for _, p := range s.pools {
		fields = append(fields,
			zap.Int(p.Kind().String()+"_loaned", p.Loaned()),
			zap.Int(p.Kind().String()+"_idle", p.Idle()))
	}
	if s.library != nil {
		fields = append(fields, zap.Int("sprites_cached", s.library.Len()))
	}
	s.log.Info("streaming digest", fields...)
}
