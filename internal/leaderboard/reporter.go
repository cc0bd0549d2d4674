package leaderboard

import (
	"log/slog"
)

// LogReport logs the leaderboard as structured JSON.
func LogReport(r *Report) {
	slog.Info("=== LEADERBOARD ===", "total_scored", r.TotalScored, "entries", len(r.Entries))

	for rank, e := range r.Entries {
		slog.Info("standing",
			"rank", rank+1,
			"organization", e.Organization,
			"model", e.Model,
			"scored", e.Scored,
			"imputed", e.Imputed,
			"mean_brier", e.MeanBrier,
		)
		for source, stats := range e.SourceStats {
			slog.Debug("source breakdown",
				"organization", e.Organization,
				"model", e.Model,
				"source", source,
				"scored", stats.Scored,
				"mean_brier", stats.MeanBrier,
			)
		}
	}
}
