package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[general]
db_path = "/tmp/test.db"
log_level = "debug"

[schedule]
collect_interval = "6h"
resolve_interval = "12h"

[collector]
max_markets_per_scan = 100
min_volume = 50.0

[resolve]
question_set_dir = "/tmp/qs"
forecast_set_dir = "/tmp/fs"
output_dir = "/tmp/out"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.DBPath != "/tmp/test.db" || cfg.General.LogLevel != "debug" {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Schedule.CollectInterval.Duration != 6*time.Hour {
		t.Errorf("collect_interval = %v", cfg.Schedule.CollectInterval.Duration)
	}
	if cfg.Schedule.ResolveInterval.Duration != 12*time.Hour {
		t.Errorf("resolve_interval = %v", cfg.Schedule.ResolveInterval.Duration)
	}
	// Unset keys keep their defaults.
	if cfg.Schedule.LeaderboardInterval.Duration != 24*time.Hour {
		t.Errorf("leaderboard_interval = %v", cfg.Schedule.LeaderboardInterval.Duration)
	}
	if cfg.Collector.MaxMarketsPerScan != 100 || cfg.Collector.MinVolume != 50.0 {
		t.Errorf("collector = %+v", cfg.Collector)
	}
	if cfg.Resolve.QuestionSetDir != "/tmp/qs" || cfg.Resolve.OutputDir != "/tmp/out" {
		t.Errorf("resolve = %+v", cfg.Resolve)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		configured string
		want       slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		g := GeneralConfig{LogLevel: tt.configured}
		if got := g.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.configured, got, tt.want)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[schedule]\ncollect_interval = \"soon\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}
