package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/herbfield/internal/bridge"
	"github.com/udisondev/herbfield/internal/config"
	"github.com/udisondev/herbfield/internal/db"
	"github.com/udisondev/herbfield/internal/model"
	"github.com/udisondev/herbfield/internal/scene"
	"github.com/udisondev/herbfield/internal/spawn"
)

const ConfigPath = "config/herbfield.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("HERBFIELD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("herbfield starting", "config", cfgPath, "log_level", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	var (
		herbSource spawn.HerbSource = spawn.NewStaticHerbSource(cfg.HerbTypes())
		recorder   spawn.HarvestRecorder
	)

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		recorder = db.NewHarvestRepository(database.Pool())
		if cfg.HerbSource == config.HerbSourceDatabase {
			herbSource = db.NewHerbRepository(database.Pool())
		}
	}

	table, err := spawn.LoadTable(ctx, herbSource, cfg.Spawn.Exclude)
	if err != nil {
		return fmt.Errorf("loading herb table: %w", err)
	}

	// Scene layer with the player on it; herbs are drawn below the player
	layer := scene.New(cfg.MaxSceneHerbs)
	foreground := model.NodeID(cfg.ForegroundNode)
	if foreground != "" {
		if err := layer.AddNode(foreground, model.Position{}); err != nil {
			return fmt.Errorf("adding foreground node: %w", err)
		}
	}

	registry := spawn.NewRegistry(layer)
	var proximity *spawn.ProximityTracker
	if cfg.Spawn.RequireProximity {
		proximity = spawn.NewProximityTracker(registry)
	}
	harvest := spawn.NewHarvestService(registry, recorder, proximity)

	hub := bridge.NewHub(layer, proximity, harvest)
	layer.Subscribe(hub.HandleSceneEvent)

	orchestrator := spawn.NewOrchestrator(registry, spawn.NewRand(cfg.Seed), layer, foreground)
	spawnCfg := cfg.SpawnParams()

	if _, err := orchestrator.Initialize(ctx, spawnCfg, table); err != nil {
		return fmt.Errorf("initializing herb field: %w", err)
	}

	scheduler := spawn.NewCycleScheduler(orchestrator, spawnCfg, table, cfg.Spawn.Interval)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("POST /refresh", func(w http.ResponseWriter, r *http.Request) {
		scheduler.Trigger()
		w.WriteHeader(http.StatusAccepted)
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddress, strconv.Itoa(cfg.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting renderer bridge", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("renderer bridge: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := scheduler.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("spawn scheduler: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	registry.ClearAll()
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
