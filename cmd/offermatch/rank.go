package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/offermatch/internal/browse"
	"github.com/amishk599/offermatch/internal/config"
	"github.com/amishk599/offermatch/internal/input"
	"github.com/amishk599/offermatch/internal/matching"
	"github.com/amishk599/offermatch/internal/ranking"
	"github.com/amishk599/offermatch/internal/report"
)

var (
	offersFile string
	useTUI     bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank offers for a candidate",
	Long: "Scores a candidate against every offer of a file, drops offers with an incompatible contract " +
		"and prints them best first. --tui opens an interactive browser instead of printing JSON.",
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&candidateFile, "candidate", "", "candidate JSON file")
	rankCmd.Flags().StringVar(&offersFile, "offers", "", "offers JSON file (object or array)")
	rankCmd.Flags().BoolVar(&useTUI, "tui", false, "browse the ranking interactively")
	_ = rankCmd.MarkFlagRequired("candidate")
	_ = rankCmd.MarkFlagRequired("offers")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	if useTUI {
		// Log lines would tear the terminal UI.
		logger = discardLogger()
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	candidate, err := input.LoadCandidate(candidateFile)
	if err != nil {
		return err
	}
	offers, err := input.LoadOffers(offersFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var preparer ranking.OfferPreparer
	if needsExtraction(offers) {
		p, closeFn, err := buildPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()
		preparer = p
	}

	ranker := ranking.New(matching.NewScorer(cfg.Explanation.MaxNames), preparer, cfg.Ranking.Workers, cfg.Ranking.MinScore, logger)
	rankFn := func(ctx context.Context, progress ranking.Progress) (ranking.Summary, error) {
		return ranker.RankWithProgress(ctx, candidate, offers, progress)
	}

	var summary ranking.Summary
	if useTUI {
		summary, err = browse.RunLoader(ctx, len(offers), rankFn)
	} else {
		summary, err = rankFn(ctx, nil)
	}
	if err != nil {
		return err
	}

	for _, r := range setupReporters(cfg, useTUI, logger) {
		if err := r.Report(summary); err != nil {
			logger.Error("report failed", "error", err)
		}
	}

	if useTUI {
		return browse.Run(summary)
	}
	return report.WriteJSON(os.Stdout, summary)
}

// setupReporters always logs the ranking, except under the TUI, and adds
// Slack when a webhook is configured.
func setupReporters(cfg *config.Config, tui bool, logger *slog.Logger) []report.Reporter {
	var reporters []report.Reporter
	if !tui {
		reporters = append(reporters, report.NewLogReporter(logger))
	}
	if cfg.Report.SlackWebhookURL != "" {
		httpClient := &http.Client{Timeout: 30 * time.Second}
		reporters = append(reporters, report.NewSlackReporter(cfg.Report.SlackWebhookURL, httpClient, cfg.Report.Top, logger))
	}
	return reporters
}
