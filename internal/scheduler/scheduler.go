package scheduler

import (
	"context"
	"log/slog"
	"time"

	"benchcast/internal/clock"
	"benchcast/internal/collector"
	"benchcast/internal/config"
	"benchcast/internal/leaderboard"
	"benchcast/internal/resolvejob"
)

// Scheduler orchestrates the pipeline's periodic jobs: data collection,
// resolution passes, and leaderboard reports.
type Scheduler struct {
	collector *collector.Collector
	runner    *resolvejob.Runner
	tracker   *leaderboard.Tracker
	clk       clock.Clock
	cfg       config.ScheduleConfig
}

// New creates a new Scheduler with all dependencies.
func New(
	coll *collector.Collector,
	runner *resolvejob.Runner,
	tracker *leaderboard.Tracker,
	clk clock.Clock,
	cfg config.ScheduleConfig,
) *Scheduler {
	return &Scheduler{
		collector: coll,
		runner:    runner,
		tracker:   tracker,
		clk:       clk,
		cfg:       cfg,
	}
}

// Run starts all periodic loops and blocks until context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"collect_interval", s.cfg.CollectInterval.Duration,
		"resolve_interval", s.cfg.ResolveInterval.Duration,
		"leaderboard_interval", s.cfg.LeaderboardInterval.Duration,
	)

	// Run the first cycle immediately.
	s.runCollection()
	s.runResolution(ctx)

	collectTicker := time.NewTicker(s.cfg.CollectInterval.Duration)
	resolveTicker := time.NewTicker(s.cfg.ResolveInterval.Duration)
	boardTicker := time.NewTicker(s.cfg.LeaderboardInterval.Duration)
	defer collectTicker.Stop()
	defer resolveTicker.Stop()
	defer boardTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()
		case <-collectTicker.C:
			s.runCollection()
		case <-resolveTicker.C:
			s.runResolution(ctx)
		case <-boardTicker.C:
			s.runLeaderboard()
		}
	}
}

func (s *Scheduler) runCollection() {
	slog.Info("starting data collection")
	if err := s.collector.Collect(s.clk.Today()); err != nil {
		slog.Error("collection failed", "error", err)
	}
}

func (s *Scheduler) runResolution(ctx context.Context) {
	if err := s.runner.Run(ctx); err != nil {
		slog.Error("resolution pass failed", "error", err)
	}
}

func (s *Scheduler) runLeaderboard() {
	report, err := s.tracker.Generate()
	if err != nil {
		slog.Error("leaderboard report failed", "error", err)
		return
	}
	leaderboard.LogReport(report)
}
