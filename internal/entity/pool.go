package entity

import (
	"go.uber.org/zap"

	"github.com/stardrift/server/internal/gen"
)

// Handle identifies a loaned instance without pinning the instance itself.
// Layout: kind (8 bits) | generation (24 bits) | slot index (32 bits).
// Generations start at 1, so the zero Handle never names a live instance.
type Handle uint64

// NoHandle is the zero Handle; it resolves to nothing.
const NoHandle Handle = 0

const genMask = 0xffffff

func NewHandle(kind gen.Kind, generation, index uint32) Handle {
	return Handle(uint64(kind)<<56 | uint64(generation&genMask)<<32 | uint64(index))
}

func (h Handle) Kind() gen.Kind     { return gen.Kind(h >> 56) }
func (h Handle) Generation() uint32 { return uint32(h>>32) & genMask }
func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) IsZero() bool       { return h == 0 }

type slot struct {
	inst   *Instance
	gen    uint32
	onLoan bool
}

// Pool recycles instances of a single kind. Slots are pre-built up front;
// Acquire hands one out, Release resets it and returns it to the free list.
// Stale handles (older generation, or a slot already idle) are ignored, so
// a duplicate release cannot free somebody else's loan.
type Pool struct {
	kind       gen.Kind
	autoExpand bool
	build      func() *Instance
	reset      func(*Instance)
	slots      []slot
	free       []uint32
	loaned     int
	log        *zap.Logger
}

// NewPool pre-builds size idle instances. With autoExpand the pool grows by
// one slot whenever Acquire finds the free list empty; without it Acquire
// reports exhaustion instead. build and reset may be nil for the defaults.
func NewPool(kind gen.Kind, size int, autoExpand bool, build func() *Instance, reset func(*Instance), log *zap.Logger) *Pool {
	if size < 0 {
		size = 0
	}
	if build == nil {
		build = func() *Instance { return &Instance{} }
	}
	if reset == nil {
		reset = (*Instance).resetTransient
	}
	p := &Pool{
		kind:       kind,
		autoExpand: autoExpand,
		build:      build,
		reset:      reset,
		slots:      make([]slot, 0, size),
		free:       make([]uint32, 0, size),
		log:        log,
	}
	for i := 0; i < size; i++ {
		p.grow()
	}
	return p
}

func (p *Pool) grow() uint32 {
	idx := uint32(len(p.slots))
	inst := p.build()
	inst.Kind = p.kind
	p.slots = append(p.slots, slot{inst: inst, gen: 1})
	p.free = append(p.free, idx)
	return idx
}

// Acquire loans out an idle instance. The returned instance is already reset;
// callers configure it and keep the Handle for the eventual Release. Reports
// false when the pool is exhausted and not allowed to expand.
func (p *Pool) Acquire() (Handle, *Instance, bool) {
	if len(p.free) == 0 {
		if !p.autoExpand {
			return NoHandle, nil, false
		}
		p.grow()
		if p.log != nil {
			p.log.Debug("pool expanded",
				zap.String("kind", p.kind.String()),
				zap.Int("total", len(p.slots)))
		}
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	s := &p.slots[idx]
	s.onLoan = true
	s.inst.Active = true
	p.loaned++
	return NewHandle(p.kind, s.gen, idx), s.inst, true
}

// Release resets the instance behind h and marks its slot idle. Handles from
// an earlier loan of the same slot, or handles for a slot that is already
// idle, do nothing and report false.
func (p *Pool) Release(h Handle) bool {
	idx := h.Index()
	if h.Kind() != p.kind || int(idx) >= len(p.slots) {
		return false
	}
	s := &p.slots[idx]
	if !s.onLoan || s.gen != h.Generation() {
		return false
	}
	p.reset(s.inst)
	s.inst.Active = false
	s.onLoan = false
	s.gen = (s.gen + 1) & genMask
	if s.gen == 0 {
		s.gen = 1
	}
	p.loaned--
	p.free = append(p.free, idx)
	return true
}

// Get resolves h to its instance, or nil when h is stale or not on loan.
func (p *Pool) Get(h Handle) *Instance {
	idx := h.Index()
	if h.Kind() != p.kind || int(idx) >= len(p.slots) {
		return nil
	}
	s := &p.slots[idx]
	if !s.onLoan || s.gen != h.Generation() {
		return nil
	}
	return s.inst
}

func (p *Pool) Kind() gen.Kind { return p.kind }
func (p *Pool) Idle() int      { return len(p.free) }
func (p *Pool) Loaned() int    { return p.loaned }
func (p *Pool) Total() int     { return len(p.slots) }
