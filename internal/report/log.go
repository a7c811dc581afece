package report

import (
	"log/slog"

	"github.com/amishk599/offermatch/internal/ranking"
)

// Ensure LogReporter implements Reporter.
var _ Reporter = (*LogReporter)(nil)

// LogReporter writes ranked offers to the given logger as structured messages.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter that logs each ranked offer via slog.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report logs one line per ranked offer, best first.
// Returns nil (stdout logging does not fail).
func (n *LogReporter) Report(summary ranking.Summary) error {
	for rank, r := range summary.Ranked {
		args := []any{
			"rank", rank + 1,
			"title", r.Offer.Title,
			"score", r.Result.Score,
			"matched", len(r.Result.MatchedSkills),
			"missing", len(r.Result.MissingSkills),
		}
		if r.Offer.ContractType != "" {
			args = append(args, "contract", r.Offer.ContractType)
		}
		if r.Result.DistanceKm != nil {
			args = append(args, "distance_km", *r.Result.DistanceKm)
		}
		if p := r.Preparation; p != nil && p.Extracted {
			args = append(args, "extracted", p.Parsed, "unresolved", p.Resolve.Unresolved+p.Resolve.Failed)
		}
		if r.Result.Error != "" {
			args = append(args, "error", r.Result.Error)
		}
		n.logger.Info("ranked offer", args...)
	}
	return nil
}
