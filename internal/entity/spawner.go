package entity

import (
	"go.uber.org/zap"

	"github.com/stardrift/server/internal/gen"
)

// Spawner realizes descriptors into live instances and tears them down again.
// Spawn reports false when no instance could be produced; the caller carries
// on without one.
type Spawner interface {
	Spawn(d gen.Descriptor, pos WorldPos) (Handle, bool)
	Despawn(h Handle)
	Resolve(h Handle) *Instance
}

// ConfigureFunc applies per-kind setup to a freshly loaned instance.
type ConfigureFunc func(in *Instance, d gen.Descriptor, pos WorldPos)

// Registry dispatches Spawn and Despawn to one Spawner per kind through a
// fixed lookup table. Kinds are a closed set, so a flat array does the job.
type Registry struct {
	byKind [gen.KindCount]Spawner
	log    *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

func (r *Registry) Register(k gen.Kind, s Spawner) {
	r.byKind[k] = s
}

func (r *Registry) Spawn(d gen.Descriptor, pos WorldPos) (Handle, bool) {
	s := r.byKind[d.Kind]
	if s == nil {
		if r.log != nil {
			r.log.Warn("no spawner registered", zap.String("kind", d.Kind.String()))
		}
		return NoHandle, false
	}
	return s.Spawn(d, pos)
}

func (r *Registry) Despawn(h Handle) {
	if h.IsZero() {
		return
	}
	k := h.Kind()
	if k >= gen.KindCount || r.byKind[k] == nil {
		return
	}
	r.byKind[k].Despawn(h)
}

func (r *Registry) Resolve(h Handle) *Instance {
	if h.IsZero() {
		return nil
	}
	k := h.Kind()
	if k >= gen.KindCount || r.byKind[k] == nil {
		return nil
	}
	return r.byKind[k].Resolve(h)
}

// PooledSpawner serves one kind out of a Pool. Spawn configures the loaned
// instance from the descriptor; exhaustion is logged and reported, never
// fatal. Despawn of a stale handle is a no-op.
type PooledSpawner struct {
	pool      *Pool
	configure ConfigureFunc
	log       *zap.Logger
}

func NewPooledSpawner(pool *Pool, configure ConfigureFunc, log *zap.Logger) *PooledSpawner {
	return &PooledSpawner{pool: pool, configure: configure, log: log}
}

func (s *PooledSpawner) Spawn(d gen.Descriptor, pos WorldPos) (Handle, bool) {
	h, in, ok := s.pool.Acquire()
	if !ok {
		if s.log != nil {
			s.log.Warn("pool exhausted",
				zap.String("kind", d.Kind.String()),
				zap.Int("loaned", s.pool.Loaned()))
		}
		return NoHandle, false
	}
	in.Seed = d.Seed
	in.Name = d.Name
	in.Pos = pos
	in.Home = pos
	in.Integrity = 100
	if s.configure != nil {
		s.configure(in, d, pos)
	}
	return h, true
}

func (s *PooledSpawner) Despawn(h Handle) {
	if !s.pool.Release(h) && s.log != nil {
		s.log.Debug("ignored stale despawn", zap.Uint64("handle", uint64(h)))
	}
}

func (s *PooledSpawner) Resolve(h Handle) *Instance {
	return s.pool.Get(h)
}

// TransientSpawner serves kinds that are created and destroyed outright
// instead of being recycled. Each spawn allocates; despawn simply drops the
// instance. Generation is fixed at 1 since slots are never reused.
type TransientSpawner struct {
	kind      gen.Kind
	next      uint32
	live      map[Handle]*Instance
	configure ConfigureFunc
	log       *zap.Logger
}

func NewTransientSpawner(kind gen.Kind, configure ConfigureFunc, log *zap.Logger) *TransientSpawner {
	return &TransientSpawner{
		kind:      kind,
		live:      make(map[Handle]*Instance),
		configure: configure,
		log:       log,
	}
}

func (s *TransientSpawner) Spawn(d gen.Descriptor, pos WorldPos) (Handle, bool) {
	h := NewHandle(s.kind, 1, s.next)
	s.next++
	in := &Instance{
		Kind:      s.kind,
		Seed:      d.Seed,
		Name:      d.Name,
		Pos:       pos,
		Home:      pos,
		Integrity: 100,
		Active:    true,
	}
	if s.configure != nil {
		s.configure(in, d, pos)
	}
	s.live[h] = in
	return h, true
}

func (s *TransientSpawner) Despawn(h Handle) {
	delete(s.live, h)
}

func (s *TransientSpawner) Resolve(h Handle) *Instance {
	return s.live[h]
}

// Live reports how many transient instances currently exist.
func (s *TransientSpawner) Live() int { return len(s.live) }
