package world

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/stardrift/server/internal/entity"
	"github.com/stardrift/server/internal/gen"
)

// Streamer decides, tick by tick, which cells of the world exist in memory.
// It owns the cell table, the focus position and both work queues.
// Accessed only from the tick loop goroutine, so there are no locks.

// Config carries the streaming tunables. Radii are Manhattan distances in
// cells and must satisfy ActiveRadius <= PreloadRadius < UnloadDistance,
// giving deactivated cells a hysteresis band before they are discarded.
type Config struct {
	WorldSeed      int64
	CellSpan       float64 // world units per cell edge
	ActiveRadius   int
	PreloadRadius  int
	UnloadDistance int
	LoadBudget     int // max load-queue drains per tick
	UnloadBudget   int // max unload-queue drains per tick
	Bounds         Bounds
}

func (c Config) validate() error {
	if c.CellSpan <= 0 {
		return fmt.Errorf("cell span must be positive, got %v", c.CellSpan)
	}
	if c.ActiveRadius < 0 {
		return fmt.Errorf("active radius must not be negative, got %d", c.ActiveRadius)
	}
	if c.PreloadRadius < c.ActiveRadius {
		return fmt.Errorf("preload radius %d below active radius %d", c.PreloadRadius, c.ActiveRadius)
	}
	if c.UnloadDistance <= c.PreloadRadius {
		return fmt.Errorf("unload distance %d must exceed preload radius %d", c.UnloadDistance, c.PreloadRadius)
	}
	if c.LoadBudget < 1 {
		return fmt.Errorf("load budget must be at least 1, got %d", c.LoadBudget)
	}
	if c.UnloadBudget < 1 {
		return fmt.Errorf("unload budget must be at least 1, got %d", c.UnloadBudget)
	}
	if c.Bounds.MinX > c.Bounds.MaxX || c.Bounds.MinY > c.Bounds.MaxY {
		return fmt.Errorf("world bounds are inverted: %+v", c.Bounds)
	}
	return nil
}

// Stats is a snapshot of streamer counters and current table occupancy.
type Stats struct {
	CellsTracked int
	Preloaded    int
	Active       int
	LoadQueue    int
	UnloadQueue  int

	Loads         uint64
	Activations   uint64
	Deactivations uint64
	Unloads       uint64
	DroppedLoads  uint64
	GenFailures   uint64
	SpawnFailures uint64
}

type Streamer struct {
	cfg     Config
	genr    gen.Generator
	spawner entity.Spawner
	events  Events
	log     *zap.Logger

	cells   map[CellCoord]*cellRecord
	loadQ   *requestQueue
	unloadQ *requestQueue

	focus    CellCoord
	hasFocus bool

	stats Stats
}

// NewStreamer wires the scheduler to its collaborators. The generator and
// spawner are required; everything the streamer touches it was handed here.
func NewStreamer(cfg Config, g gen.Generator, sp entity.Spawner, log *zap.Logger) (*Streamer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("streamer config: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("streamer needs a generator")
	}
	if sp == nil {
		return nil, fmt.Errorf("streamer needs a spawner")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Streamer{
		cfg:     cfg,
		genr:    g,
		spawner: sp,
		log:     log,
		cells:   make(map[CellCoord]*cellRecord),
		loadQ:   newRequestQueue(),
		unloadQ: newRequestQueue(),
	}, nil
}

// Events exposes the lifecycle feeds for subscription.
func (s *Streamer) Events() *Events { return &s.events }

// Focus reports the current focus cell; ok is false before the first SetFocus.
func (s *Streamer) Focus() (CellCoord, bool) { return s.focus, s.hasFocus }

// SetFocus moves the focal point and recomputes every cell's desired state:
// cells inside the active radius are front-queued (or activated outright if
// their descriptors are already held), the preload ring is appended, actives
// that fell outside the radius are deactivated on the spot, and everything
// beyond the unload distance is queued for teardown. Pending requests in the
// opposite direction are cancelled rather than left to race.
func (s *Streamer) SetFocus(c CellCoord) {
	if !s.cfg.Bounds.Contains(c) {
		s.log.Warn("focus out of bounds", zap.Stringer("coord", c))
		return
	}
	if s.hasFocus && c == s.focus {
		return
	}
	old := s.focus
	s.focus = c
	s.hasFocus = true

	for _, rec := range s.cells {
		rec.dist = Manhattan(rec.coord, c)
	}

	// Active region, farthest ring first: each PushFront lands ahead of the
	// previous one, so the focus cell itself ends up at the very head.
	for d := s.cfg.ActiveRadius; d >= 0; d-- {
		eachAtDistance(c, d, func(cc CellCoord) {
			if s.cfg.Bounds.Contains(cc) {
				s.wantActive(cc)
			}
		})
	}
	// Preload ring, nearest first, behind all priority loads.
	for d := s.cfg.ActiveRadius + 1; d <= s.cfg.PreloadRadius; d++ {
		eachAtDistance(c, d, func(cc CellCoord) {
			if s.cfg.Bounds.Contains(cc) {
				s.wantPreloaded(cc)
			}
		})
	}

	// Deactivation is immediate: returning instances to their pools is cheap
	// and must not lag behind the focus.
	for _, rec := range s.sortedRecords() {
		if rec.state == StateActive && rec.dist > s.cfg.ActiveRadius {
			s.deactivate(rec)
		}
	}

	for _, rec := range s.sortedRecords() {
		if rec.dist <= s.cfg.UnloadDistance {
			continue
		}
		switch rec.state {
		case StateLoading:
			// Never generated; cancel the pending load outright.
			s.loadQ.Remove(rec.coord)
			delete(s.cells, rec.coord)
			s.stats.DroppedLoads++
		case StatePreloaded:
			rec.state = StateUnloading
			s.unloadQ.Push(rec.coord)
		}
	}

	s.events.FocusChanged.Publish(FocusChanged{Old: old, New: c})
	s.log.Debug("focus moved",
		zap.Stringer("from", old),
		zap.Stringer("to", c),
		zap.Int("load_queue", s.loadQ.Len()),
		zap.Int("unload_queue", s.unloadQ.Len()))
}

// wantActive brings cc toward ACTIVE: queue generation at the front if the
// cell is unknown, promote an already queued load, or activate held
// descriptors immediately. Only first-time generation waits in the queue.
func (s *Streamer) wantActive(cc CellCoord) {
	rec := s.cells[cc]
	if rec == nil {
		s.newRecord(cc)
		s.loadQ.PushFront(cc)
		return
	}
	switch rec.state {
	case StateLoading:
		s.loadQ.Remove(cc)
		s.loadQ.PushFront(cc)
	case StatePreloaded:
		s.activate(rec)
	case StateUnloading:
		s.rescue(rec)
		if rec.state == StatePreloaded {
			s.activate(rec)
		}
	}
}

// wantPreloaded makes sure cc is at least queued for generation, and rescues
// it from a pending unload if one is queued. A rescued cell that still holds
// live instances comes back ACTIVE; the deactivation sweep right after will
// wind it down if it now sits outside the active radius.
func (s *Streamer) wantPreloaded(cc CellCoord) {
	rec := s.cells[cc]
	if rec == nil {
		s.newRecord(cc)
		s.loadQ.Push(cc)
		return
	}
	if rec.state == StateUnloading {
		s.rescue(rec)
	}
}

// rescue cancels a pending unload, restoring the state the cell's held
// content implies. Instances that never got torn down are simply kept; no
// transition happened, so no event fires.
func (s *Streamer) rescue(rec *cellRecord) {
	s.unloadQ.Remove(rec.coord)
	if len(rec.live) > 0 {
		rec.state = StateActive
	} else {
		rec.state = StatePreloaded
	}
}

// Tick drains both queues up to their budgets. Excess work spills into later
// ticks; a focus jump never stalls a single frame.
func (s *Streamer) Tick() {
	s.processLoads()
	s.processUnloads()
}

func (s *Streamer) processLoads() {
	for n := 0; n < s.cfg.LoadBudget; n++ {
		c, ok := s.loadQ.Pop()
		if !ok {
			return
		}
		rec := s.cells[c]
		if rec == nil {
			continue
		}
		if s.hasFocus {
			rec.dist = Manhattan(c, s.focus)
			if rec.dist > s.cfg.UnloadDistance {
				// No longer wanted; drop without generating.
				delete(s.cells, c)
				s.stats.DroppedLoads++
				s.log.Debug("dropped stale load", zap.Stringer("coord", c))
				continue
			}
		}
		seed := gen.CellSeed(s.cfg.WorldSeed, c.X, c.Y)
		descs, err := s.genr.Generate(seed)
		if err != nil {
			// Back to UNLOADED; a later SetFocus or RequestLoad retries.
			delete(s.cells, c)
			s.stats.GenFailures++
			s.log.Warn("cell generation failed",
				zap.Stringer("coord", c),
				zap.Int64("seed", seed),
				zap.Error(err))
			continue
		}
		rec.seed = seed
		rec.descs = descs
		rec.generated = true
		rec.state = StatePreloaded
		s.stats.Loads++
		s.events.CellLoaded.Publish(CellLoaded{Coord: c, Descriptors: len(descs)})
		if s.hasFocus && rec.dist <= s.cfg.ActiveRadius {
			s.activate(rec)
		}
	}
}

func (s *Streamer) processUnloads() {
	for n := 0; n < s.cfg.UnloadBudget; n++ {
		c, ok := s.unloadQ.Pop()
		if !ok {
			return
		}
		rec := s.cells[c]
		if rec == nil {
			continue
		}
		if len(rec.live) > 0 {
			s.deactivate(rec)
		}
		delete(s.cells, c)
		s.stats.Unloads++
		s.events.CellUnloaded.Publish(CellUnloaded{Coord: c})
	}
}

// activate spawns every descriptor of an already generated cell. A spawn
// failure keeps the descriptor for the next activation and the cell still
// becomes ACTIVE with whatever did spawn.
func (s *Streamer) activate(rec *cellRecord) {
	failed := 0
	for _, d := range rec.descs {
		pos := s.worldPos(rec.coord, d.Offset)
		h, ok := s.spawner.Spawn(d, pos)
		if !ok {
			failed++
			continue
		}
		rec.live = append(rec.live, h)
	}
	rec.state = StateActive
	s.stats.Activations++
	if failed > 0 {
		s.stats.SpawnFailures += uint64(failed)
		s.log.Warn("cell activated with missing entities",
			zap.Stringer("coord", rec.coord),
			zap.Int("missing", failed))
	}
	s.events.CellActivated.Publish(CellActivated{Coord: rec.coord, Spawned: len(rec.live)})
}

// deactivate returns every live instance and drops the cell to PRELOADED.
// Descriptors stay held, so reactivation never regenerates.
func (s *Streamer) deactivate(rec *cellRecord) {
	for _, h := range rec.live {
		s.spawner.Despawn(h)
	}
	returned := len(rec.live)
	rec.live = rec.live[:0]
	rec.state = StatePreloaded
	s.stats.Deactivations++
	s.events.CellDeactivated.Publish(CellDeactivated{Coord: rec.coord, Returned: returned})
}

// RequestLoad queues c for generation outside any focus change. A pending
// unload for c is cancelled instead.
func (s *Streamer) RequestLoad(c CellCoord) {
	if !s.cfg.Bounds.Contains(c) {
		s.log.Warn("load request out of bounds", zap.Stringer("coord", c))
		return
	}
	rec := s.cells[c]
	if rec == nil {
		rec = s.newRecord(c)
		if s.hasFocus && rec.dist <= s.cfg.ActiveRadius {
			s.loadQ.PushFront(c)
		} else {
			s.loadQ.Push(c)
		}
		return
	}
	if rec.state == StateUnloading {
		s.rescue(rec)
	}
}

// RequestUnload queues c for teardown outside any focus change. A pending
// load for c is cancelled instead; untracked coordinates are ignored.
func (s *Streamer) RequestUnload(c CellCoord) {
	if !s.cfg.Bounds.Contains(c) {
		s.log.Warn("unload request out of bounds", zap.Stringer("coord", c))
		return
	}
	rec := s.cells[c]
	if rec == nil {
		return
	}
	switch rec.state {
	case StateLoading:
		s.loadQ.Remove(c)
		delete(s.cells, c)
		s.stats.DroppedLoads++
	case StatePreloaded, StateActive:
		rec.state = StateUnloading
		s.unloadQ.Push(c)
	}
}

// IsLoaded reports whether c currently holds generated descriptors.
func (s *Streamer) IsLoaded(c CellCoord) bool {
	rec := s.cells[c]
	if rec == nil {
		return false
	}
	return rec.state == StatePreloaded || rec.state == StateActive
}

// IsActive reports whether c has live instances spawned.
func (s *Streamer) IsActive(c CellCoord) bool {
	rec := s.cells[c]
	return rec != nil && rec.state == StateActive
}

// State answers the lifecycle state for any coordinate; untracked cells
// report StateUnloaded.
func (s *Streamer) State(c CellCoord) CellState {
	rec := s.cells[c]
	if rec == nil {
		return StateUnloaded
	}
	return rec.state
}

// EntitiesIn returns the handles live in c, or nil when c is not ACTIVE.
// The slice is a copy; callers cannot reach the cell table through it.
func (s *Streamer) EntitiesIn(c CellCoord) []entity.Handle {
	rec := s.cells[c]
	if rec == nil || rec.state != StateActive || len(rec.live) == 0 {
		return nil
	}
	out := make([]entity.Handle, len(rec.live))
	copy(out, rec.live)
	return out
}

// Descriptors returns a copy of the generated descriptors held for c, or nil
// when the cell holds none.
func (s *Streamer) Descriptors(c CellCoord) []gen.Descriptor {
	rec := s.cells[c]
	if rec == nil || !rec.generated || len(rec.descs) == 0 {
		return nil
	}
	out := make([]gen.Descriptor, len(rec.descs))
	copy(out, rec.descs)
	return out
}

// ActiveCells returns the coordinates currently ACTIVE, nearest first.
func (s *Streamer) ActiveCells() []CellCoord {
	var out []CellCoord
	for _, rec := range s.sortedRecords() {
		if rec.state == StateActive {
			out = append(out, rec.coord)
		}
	}
	return out
}

// Stats returns a snapshot of counters plus current occupancy.
func (s *Streamer) Stats() Stats {
	st := s.stats
	st.CellsTracked = len(s.cells)
	st.LoadQueue = s.loadQ.Len()
	st.UnloadQueue = s.unloadQ.Len()
	for _, rec := range s.cells {
		switch rec.state {
		case StatePreloaded:
			st.Preloaded++
		case StateActive:
			st.Active++
		}
	}
	return st
}

func (s *Streamer) newRecord(c CellCoord) *cellRecord {
	rec := &cellRecord{coord: c, state: StateLoading}
	if s.hasFocus {
		rec.dist = Manhattan(c, s.focus)
	}
	s.cells[c] = rec
	return rec
}

// sortedRecords snapshots the table ordered by distance then coordinate, so
// sweeps over the map stay deterministic run to run.
func (s *Streamer) sortedRecords() []*cellRecord {
	recs := make([]*cellRecord, 0, len(s.cells))
	for _, rec := range s.cells {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.coord.X != b.coord.X {
			return a.coord.X < b.coord.X
		}
		return a.coord.Y < b.coord.Y
	})
	return recs
}

func (s *Streamer) worldPos(c CellCoord, off gen.Offset) entity.WorldPos {
	return entity.WorldPos{
		X: float64(c.X)*s.cfg.CellSpan + off.DX,
		Y: float64(c.Y)*s.cfg.CellSpan + off.DY,
	}
}
