package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/stardrift/server/internal/gen"
)

// Engine wraps a single gopher-lua VM that can override cell generation.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine loads the worldgen script and verifies it defines generate_cell.
func NewEngine(scriptPath string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoFile(scriptPath); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load %s: %w", scriptPath, err)
	}
	if vm.GetGlobal("generate_cell") == lua.LNil {
		vm.Close()
		return nil, fmt.Errorf("%s defines no generate_cell function", scriptPath)
	}

	log.Debug("loaded worldgen script", zap.String("file", scriptPath))
	return &Engine{vm: vm, log: log}, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// CellContext is the input handed to the Lua generate_cell hook.
type CellContext struct {
	Seed        int64
	CellSpan    float64
	MaxEntities int
}

// GenerateCell calls the Lua generate_cell function. The script returns an
// array of entity tables, or nil to defer to the built-in generator
// (handled = false). A script error is a generation failure and is returned
// as such; individually malformed entries are skipped with a warning.
func (e *Engine) GenerateCell(ctx CellContext) ([]gen.Descriptor, bool, error) {
	fn := e.vm.GetGlobal("generate_cell")
	if fn == lua.LNil {
		return nil, false, nil
	}

	t := e.vm.NewTable()
	// Lua numbers are float64; hand scripts a 31-bit seed so arithmetic on
	// it stays exact. The full seed is available as a hex string.
	t.RawSetString("seed", lua.LNumber(ctx.Seed&0x7fffffff))
	t.RawSetString("seed_hex", lua.LString(fmt.Sprintf("%016x", uint64(ctx.Seed))))
	t.RawSetString("cell_span", lua.LNumber(ctx.CellSpan))
	t.RawSetString("max_entities", lua.LNumber(ctx.MaxEntities))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return nil, false, fmt.Errorf("generate_cell: %w", err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return nil, false, nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, false, fmt.Errorf("generate_cell returned %s, want table or nil", result.Type())
	}

	descs := make([]gen.Descriptor, 0, rt.Len())
	for i := 1; i <= rt.Len(); i++ {
		if ctx.MaxEntities > 0 && len(descs) >= ctx.MaxEntities {
			e.log.Warn("script produced too many entities, truncating",
				zap.Int("max", ctx.MaxEntities))
			break
		}
		entry, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			e.log.Warn("script entity is not a table, skipping", zap.Int("index", i))
			continue
		}
		d, err := e.parseEntity(entry, ctx)
		if err != nil {
			e.log.Warn("script entity rejected", zap.Int("index", i), zap.Error(err))
			continue
		}
		descs = append(descs, d)
	}
	return descs, true, nil
}

func (e *Engine) parseEntity(t *lua.LTable, ctx CellContext) (gen.Descriptor, error) {
	name := lua.LVAsString(t.RawGetString("kind"))
	kind, ok := gen.KindByName(name)
	if !ok {
		return gen.Descriptor{}, fmt.Errorf("unknown kind %q", name)
	}

	dx := float64(lua.LVAsNumber(t.RawGetString("dx")))
	dy := float64(lua.LVAsNumber(t.RawGetString("dy")))
	if dx < 0 || dx > ctx.CellSpan || dy < 0 || dy > ctx.CellSpan {
		return gen.Descriptor{}, fmt.Errorf("offset (%v,%v) outside cell", dx, dy)
	}

	size := int(gen.SizeMedium)
	if v := t.RawGetString("size"); v != lua.LNil {
		size = int(lua.LVAsNumber(v))
		if size < int(gen.SizeTiny) || size > int(gen.SizeGiant) {
			size = int(gen.SizeMedium)
		}
	}
	variant := int(lua.LVAsNumber(t.RawGetString("variant")))
	if variant < 0 {
		variant = 0
	}

	seed := ctx.Seed
	if n := t.RawGetString("seed"); n != lua.LNil {
		seed = gen.SubSeed(ctx.Seed, int(lua.LVAsNumber(n)))
	}

	return gen.Descriptor{
		Kind:    kind,
		Seed:    seed,
		Offset:  gen.Offset{DX: dx, DY: dy},
		Size:    gen.SizeClass(size),
		Variant: variant,
		Palette: lua.LVAsString(t.RawGetString("palette")),
		Name:    lua.LVAsString(t.RawGetString("name")),
	}, nil
}

// ScriptedGenerator runs cells through the Lua hook first and falls back to
// the built-in generator for cells the script declines. It satisfies the
// same Generator contract, so the streamer cannot tell the difference.
type ScriptedGenerator struct {
	engine   *Engine
	fallback gen.Generator
	ctx      CellContext // template; Seed is filled per call
}

func NewScriptedGenerator(engine *Engine, fallback gen.Generator, cellSpan float64, maxEntities int) *ScriptedGenerator {
	return &ScriptedGenerator{
		engine:   engine,
		fallback: fallback,
		ctx:      CellContext{CellSpan: cellSpan, MaxEntities: maxEntities},
	}
}

func (s *ScriptedGenerator) Generate(seed int64) ([]gen.Descriptor, error) {
	ctx := s.ctx
	ctx.Seed = seed
	descs, handled, err := s.engine.GenerateCell(ctx)
	if err != nil {
		return nil, err
	}
	if !handled {
		return s.fallback.Generate(seed)
	}
	return descs, nil
}
