package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonnyspicer/mango"

	"benchcast/internal/clock"
	"benchcast/internal/collector"
	"benchcast/internal/config"
	"benchcast/internal/db"
	"benchcast/internal/leaderboard"
	"benchcast/internal/market"
	"benchcast/internal/publish"
	"benchcast/internal/resolvejob"
	"benchcast/internal/resolver"
	"benchcast/internal/scheduler"
)

func main() {
	// Parse CLI flags.
	resolveOnce := flag.Bool("resolve", false, "Run a single resolution pass and exit")
	todayOverride := flag.String("today", "", "Override today's date (YYYY-MM-DD) for deterministic replays")
	flag.Parse()

	// Load configuration.
	configPath := "config.toml"
	if p := os.Getenv("BENCHCAST_CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging at the configured level.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.General.SlogLevel(),
	})))

	slog.Info("benchcast starting", "log_level", cfg.General.LogLevel)

	// Initialize database.
	database, err := db.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	// The clock is the only source of "today" for resolution logic.
	var clk clock.Clock = clock.System{}
	if *todayOverride != "" {
		date, err := time.Parse("2006-01-02", *todayOverride)
		if err != nil {
			slog.Error("bad -today value", "value", *todayOverride, "error", err)
			os.Exit(1)
		}
		clk = clock.Fixed{Date: date}
		slog.Info("using fixed date", "today", *todayOverride)
	}

	res := resolver.New()
	pub := publish.NewPublisher(cfg.Resolve.OutputDir, database)
	runner := resolvejob.NewRunner(database, res, clk, cfg.Resolve, pub)

	// One-shot mode.
	if *resolveOnce {
		if err := runner.Run(context.Background()); err != nil {
			slog.Error("resolution pass failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Daemon mode — initialize the Manifold client and ingestion.
	mc := mango.DefaultClientInstance()
	slog.Info("manifold client initialized")

	scanner := market.NewScanner(mc)
	cache := market.NewCache(10 * time.Minute)
	coll := collector.NewCollector(scanner, cache, database, cfg.Collector)
	tracker := leaderboard.NewTracker(database)

	sched := scheduler.New(coll, runner, tracker, clk, cfg.Schedule)

	// Graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	slog.Info("benchcast stopped")
}
