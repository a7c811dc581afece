package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/offermatch/internal/config"
	"github.com/amishk599/offermatch/internal/extract"
	"github.com/amishk599/offermatch/internal/input"
	"github.com/amishk599/offermatch/internal/matching"
	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/pipeline"
	"github.com/amishk599/offermatch/internal/report"
	"github.com/amishk599/offermatch/internal/resolver"
)

var (
	candidateFile string
	offerFile     string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate against one offer",
	Long: "Prints the MatchResult of a candidate against a single offer as JSON. " +
		"Offers without skills have them extracted from their title and description first.",
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&candidateFile, "candidate", "", "candidate JSON file")
	scoreCmd.Flags().StringVar(&offerFile, "offer", "", "offer JSON file")
	_ = scoreCmd.MarkFlagRequired("candidate")
	_ = scoreCmd.MarkFlagRequired("offer")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	candidate, err := input.LoadCandidate(candidateFile)
	if err != nil {
		return err
	}
	offers, err := input.LoadOffers(offerFile)
	if err != nil {
		return err
	}
	if len(offers) != 1 {
		return fmt.Errorf("%s holds %d offers, score takes exactly one (use rank)", offerFile, len(offers))
	}
	offer := offers[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if offer.Skills == nil {
		p, closeFn, err := buildPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()
		var prep pipeline.Report
		offer, prep = p.Prepare(ctx, offer)
		logPreparation(logger, prep)
	}

	result := matching.NewScorer(cfg.Explanation.MaxNames).Score(candidate, &offer)
	return report.WriteJSON(os.Stdout, result)
}

// buildPipeline wires dictionary, repository, resolver and extractor into an
// offer pipeline. The returned func closes the repository.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.OfferPipeline, func() error, error) {
	dict, err := loadDictionary(cfg)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureSeeded(ctx, st, dict, logger); err != nil {
		st.Close()
		return nil, nil, err
	}
	res := resolver.New(lookupRepository(st, cfg, logger), cfg.Resolver.Concurrency, cfg.Resolver.LookupTimeout, logger)
	return pipeline.New(extract.New(dict), res, logger), st.Close, nil
}

// logPreparation reports what extraction found for an offer given as text.
func logPreparation(logger *slog.Logger, r pipeline.Report) {
	if !r.Extracted {
		return
	}
	logger.Info("offer skills extracted",
		"title", r.Title,
		"parsed", r.Parsed,
		"resolved", r.Resolve.Resolved,
		"unresolved", r.Resolve.UnresolvedSlugs,
		"failed", r.Resolve.FailedSlugs,
	)
}

// needsExtraction reports whether any offer arrives without a skill list.
func needsExtraction(offers []model.JobOfferView) bool {
	for _, o := range offers {
		if o.Skills == nil {
			return true
		}
	}
	return false
}
