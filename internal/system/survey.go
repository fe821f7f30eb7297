package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/gen"
	"github.com/stardrift/server/internal/persist"
	"github.com/stardrift/server/internal/world"
)

// pendingCap bounds the in-memory survey backlog when the database is down.
const pendingCap = 8192

// SurveySystem records discovered cells and the flight checkpoint to the
// database in periodic batches. Phase 3 (Persist). Failures keep the batch
// for the next interval; streaming never waits on the database.
type SurveySystem struct {
	repo      *persist.SurveyRepo
	streamer  *world.Streamer
	worldSeed int64
	log       *zap.Logger
	interval  int // flush every N ticks
	tickCount int
	ticks     int64
	pending   []persist.SurveyCellRow
}

func NewSurveySystem(repo *persist.SurveyRepo, streamer *world.Streamer, worldSeed int64, intervalTicks int, log *zap.Logger) *SurveySystem {
	s := &SurveySystem{
		repo:      repo,
		streamer:  streamer,
		worldSeed: worldSeed,
		log:       log,
		interval:  intervalTicks,
	}
	streamer.Events().CellLoaded.Subscribe(func(ev world.CellLoaded) {
		if len(s.pending) >= pendingCap {
			s.log.Warn("survey backlog full, dropping oldest half",
				zap.Int("pending", len(s.pending)))
			s.pending = append(s.pending[:0], s.pending[pendingCap/2:]...)
		}
		s.pending = append(s.pending, persist.SurveyCellRow{
			X:           ev.Coord.X,
			Y:           ev.Coord.Y,
			Seed:        gen.CellSeed(s.worldSeed, ev.Coord.X, ev.Coord.Y),
			EntityCount: ev.Descriptors,
		})
	})
	return s
}

func (s *SurveySystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SurveySystem) Update(_ time.Duration) {
	s.ticks++
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes the pending batch and the current checkpoint immediately.
// Called on the save interval and once more at shutdown.
func (s *SurveySystem) Flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(s.pending) > 0 {
		if err := s.repo.RecordCells(ctx, s.pending); err != nil {
			s.log.Error("survey batch failed", zap.Int("cells", len(s.pending)), zap.Error(err))
		} else {
			s.log.Debug("survey batch saved", zap.Int("cells", len(s.pending)))
			s.pending = s.pending[:0]
		}
	}

	if focus, ok := s.streamer.Focus(); ok {
		cp := persist.Checkpoint{X: focus.X, Y: focus.Y, Tick: s.ticks}
		if err := s.repo.SaveCheckpoint(ctx, cp); err != nil {
			s.log.Error("checkpoint save failed", zap.Error(err))
		}
	}
}
