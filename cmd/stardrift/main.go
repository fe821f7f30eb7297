package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stardrift/server/internal/config"
	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/data"
	"github.com/stardrift/server/internal/entity"
	"github.com/stardrift/server/internal/gen"
	"github.com/stardrift/server/internal/persist"
	"github.com/stardrift/server/internal/scripting"
	"github.com/stardrift/server/internal/system"
	"github.com/stardrift/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Stardrift  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      deterministic sector streaming       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("STARDRIFT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. World data and generation pipeline
	printSection("world data")

	kinds, err := data.LoadKindTable(cfg.World.KindList)
	if err != nil {
		return fmt.Errorf("load kind table: %w", err)
	}
	printStat("entity kinds", kinds.Count())

	generator, err := gen.NewDefaultGenerator(kinds, cfg.World.CellSpan)
	if err != nil {
		return fmt.Errorf("generator: %w", err)
	}

	var source gen.Generator = generator
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Script, log)
		if err != nil {
			return fmt.Errorf("worldgen script: %w", err)
		}
		defer engine.Close()
		source = scripting.NewScriptedGenerator(engine, generator, cfg.World.CellSpan, kinds.MaxEntities)
		printOK("worldgen script loaded")
	}
	cached := gen.NewCachedGenerator(source, cfg.Cache.Descriptors)
	library := gen.NewLibrary(generator, cfg.Cache.Sprites)

	// 4. Pools and spawners, one per kind
	registry := entity.NewRegistry(log)
	var pools []*entity.Pool
	prebuilt := 0
	for _, tmpl := range kinds.All() {
		kind, ok := gen.KindByName(tmpl.Kind)
		if !ok {
			continue
		}
		configure := driftConfigure(tmpl.DriftSpeed)
		if kind.Pooled() {
			pool := entity.NewPool(kind, tmpl.PoolSize, tmpl.PoolAutoExpand, nil, nil, log)
			pools = append(pools, pool)
			registry.Register(kind, entity.NewPooledSpawner(pool, configure, log))
			prebuilt += pool.Total()
		} else {
			registry.Register(kind, entity.NewTransientSpawner(kind, configure, log))
		}
	}
	printStat("pooled instances", prebuilt)

	// 5. The streamer itself
	streamer, err := world.NewStreamer(world.Config{
		WorldSeed:      cfg.World.Seed,
		CellSpan:       cfg.World.CellSpan,
		ActiveRadius:   cfg.Streaming.ActiveRadius,
		PreloadRadius:  cfg.Streaming.PreloadRadius,
		UnloadDistance: cfg.Streaming.UnloadDistance,
		LoadBudget:     cfg.Streaming.LoadBudget,
		UnloadBudget:   cfg.Streaming.UnloadBudget,
		Bounds: world.Bounds{
			MinX: cfg.World.MinX, MinY: cfg.World.MinY,
			MaxX: cfg.World.MaxX, MaxY: cfg.World.MaxY,
		},
	}, cached, registry, log)
	if err != nil {
		return fmt.Errorf("streamer: %w", err)
	}
	streamer.Events().CellActivated.Subscribe(func(ev world.CellActivated) {
		log.Debug("sector online", zap.Stringer("coord", ev.Coord), zap.Int("entities", ev.Spawned))
	})
	fmt.Println()

	// 6. Survey database (optional)
	start := world.CellCoord{}
	var surveyRepo *persist.SurveyRepo
	printSection("survey database")
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		surveyRepo = persist.NewSurveyRepo(db)
		fp := persist.WorldFingerprint(cfg.World.Seed, gen.GeneratorVersion)
		if err := surveyRepo.EnsureWorld(ctx, fp); err != nil {
			return fmt.Errorf("world fingerprint: %w", err)
		}

		surveyed, err := surveyRepo.CountSurveyed(ctx)
		if err != nil {
			return fmt.Errorf("count surveyed: %w", err)
		}
		printStat("cells surveyed", int(surveyed))

		cp, err := surveyRepo.LoadCheckpoint(ctx)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		if cp != nil {
			start = world.CellCoord{X: cp.X, Y: cp.Y}
			printOK(fmt.Sprintf("resuming flight at %s", start))
		}
	} else {
		printOK("survey persistence disabled")
	}
	fmt.Println()

	// 7. Systems
	runner := coresys.NewRunner()
	if cfg.Flight.Enabled {
		runner.Register(system.NewFlightSystem(streamer,
			cfg.Flight.Speed, cfg.Flight.JumpEveryTicks, cfg.Flight.JumpRange,
			cfg.Flight.Seed, start, log))
	}
	runner.Register(system.NewStreamingSystem(streamer))
	runner.Register(system.NewDriftSystem(streamer, registry, cfg.World.CellSpan/16))
	runner.Register(system.NewPrefetchSystem(streamer, library, 4))
	runner.Register(system.NewStatsSystem(streamer, pools, library, 150, log))
	var survey *system.SurveySystem
	if surveyRepo != nil {
		survey = system.NewSurveySystem(surveyRepo, streamer, cfg.World.Seed, cfg.Database.SaveEveryTicks, log)
		runner.Register(survey)
	}

	// First focus, so the opening neighbourhood is queued before tick one.
	streamer.SetFocus(start)

	// 8. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.Tick)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("world seed %d", cfg.World.Seed))
	printReady(fmt.Sprintf("tick loop started (tick: %s, focus: %s)", cfg.Server.Tick, start))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Server.Tick)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			if survey != nil {
				survey.Flush()
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// driftConfigure gives spawned instances of a drifting kind a velocity in a
// direction fixed by their seed, so revisiting a cell restarts the same
// drift.
func driftConfigure(speed float64) entity.ConfigureFunc {
	if speed <= 0 {
		return nil
	}
	return func(in *entity.Instance, d gen.Descriptor, _ entity.WorldPos) {
		ang := float64(uint64(d.Seed)%3600) / 3600 * 2 * math.Pi
		in.VelX = math.Cos(ang) * speed
		in.VelY = math.Sin(ang) * speed
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
