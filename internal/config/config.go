package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General   GeneralConfig   `toml:"general"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Collector CollectorConfig `toml:"collector"`
	Resolve   ResolveConfig   `toml:"resolve"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

// SlogLevel maps the configured log_level to a slog level. Unknown values
// fall back to info.
func (g GeneralConfig) SlogLevel() slog.Level {
	switch strings.ToLower(g.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ScheduleConfig struct {
	CollectInterval     Duration `toml:"collect_interval"`
	ResolveInterval     Duration `toml:"resolve_interval"`
	LeaderboardInterval Duration `toml:"leaderboard_interval"`
}

type CollectorConfig struct {
	MaxMarketsPerScan int     `toml:"max_markets_per_scan"`
	MinVolume         float64 `toml:"min_volume"`
}

type ResolveConfig struct {
	QuestionSetDir string `toml:"question_set_dir"`
	ForecastSetDir string `toml:"forecast_set_dir"`
	OutputDir      string `toml:"output_dir"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/benchcast.db",
			LogLevel: "info",
		},
		Schedule: ScheduleConfig{
			CollectInterval:     Duration{24 * time.Hour},
			ResolveInterval:     Duration{24 * time.Hour},
			LeaderboardInterval: Duration{24 * time.Hour},
		},
		Collector: CollectorConfig{
			MaxMarketsPerScan: 500,
			MinVolume:         20.0,
		},
		Resolve: ResolveConfig{
			QuestionSetDir: "./data/question_sets",
			ForecastSetDir: "./data/forecast_sets",
			OutputDir:      "./data/output",
		},
	}
}
