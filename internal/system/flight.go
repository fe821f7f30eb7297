package system

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/world"
)

// FlightSystem is the demo focus driver: a ship wandering between waypoints
// with an occasional long-range jump. Phase 0 (Input): the focus must be
// settled before the streamer drains its queues. The walk is seeded, so a
// given flight seed always flies the same route.
type FlightSystem struct {
	streamer  *world.Streamer
	log       *zap.Logger
	rng       *rand.Rand
	speed     float64 // cells per second
	jumpEvery int
	jumpRange int

	x, y   float64 // position in cell units
	tx, ty float64 // current waypoint
	ticks  int
}

func NewFlightSystem(streamer *world.Streamer, speed float64, jumpEvery, jumpRange int, seed int64, start world.CellCoord, log *zap.Logger) *FlightSystem {
	f := &FlightSystem{
		streamer:  streamer,
		log:       log,
		rng:       rand.New(rand.NewSource(seed)),
		speed:     speed,
		jumpEvery: jumpEvery,
		jumpRange: jumpRange,
		x:         float64(start.X),
		y:         float64(start.Y),
	}
	f.pickWaypoint()
	return f
}

func (f *FlightSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (f *FlightSystem) Update(dt time.Duration) {
	f.ticks++
	if f.jumpEvery > 0 && f.ticks%f.jumpEvery == 0 {
		f.jump()
	} else {
		f.advance(dt.Seconds())
	}
	f.streamer.SetFocus(f.Cell())
}

// Cell returns the grid cell the ship currently occupies.
func (f *FlightSystem) Cell() world.CellCoord {
	return world.CellCoord{X: int(math.Floor(f.x)), Y: int(math.Floor(f.y))}
}

func (f *FlightSystem) advance(sec float64) {
	dx := f.tx - f.x
	dy := f.ty - f.y
	dist := math.Hypot(dx, dy)
	step := f.speed * sec
	if dist <= step {
		f.x, f.y = f.tx, f.ty
		f.pickWaypoint()
		return
	}
	f.x += dx / dist * step
	f.y += dy / dist * step
}

// pickWaypoint chooses the next wander leg, 4 to 12 cells out.
func (f *FlightSystem) pickWaypoint() {
	ang := f.rng.Float64() * 2 * math.Pi
	leg := 4 + f.rng.Float64()*8
	f.tx = f.x + math.Cos(ang)*leg
	f.ty = f.y + math.Sin(ang)*leg
}

// jump teleports the ship, exercising the streamer's budget spill: the whole
// new neighbourhood is queued at once and drains over the following ticks.
func (f *FlightSystem) jump() {
	f.x += float64(f.rng.Intn(2*f.jumpRange+1) - f.jumpRange)
	f.y += float64(f.rng.Intn(2*f.jumpRange+1) - f.jumpRange)
	f.pickWaypoint()
	f.log.Info("jump drive engaged",
		zap.Int("x", int(f.x)),
		zap.Int("y", int(f.y)))
}
