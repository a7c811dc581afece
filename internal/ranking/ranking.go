package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/offermatch/internal/filter"
	"github.com/amishk599/offermatch/internal/matching"
	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/pipeline"
)

// OfferPreparer completes an offer before scoring, typically by extracting
// skills from its text.
type OfferPreparer interface {
	Prepare(ctx context.Context, offer model.JobOfferView) (model.JobOfferView, pipeline.Report)
}

// Ranked is one scored offer. Index is the offer's position in the input.
// Preparation is set when the offer went through the preparer.
type Ranked struct {
	Index       int                `json:"index"`
	Offer       model.JobOfferView `json:"offer"`
	Result      model.MatchResult  `json:"result"`
	Preparation *pipeline.Report   `json:"preparation,omitempty"`
}

// Summary is the outcome of one Rank call.
type Summary struct {
	Offers   int      `json:"offers"`
	Filtered int      `json:"filtered"`  // rejected by the contract filter
	BelowMin int      `json:"below_min"` // scored under the minimum score
	Ranked   []Ranked `json:"ranked"`
}

// Ranker scores one candidate against many offers with a bounded worker pool.
type Ranker struct {
	scorer   *matching.Scorer
	preparer OfferPreparer
	workers  int
	minScore int
	logger   *slog.Logger
}

// New creates a Ranker. preparer may be nil when offers already carry skills.
func New(scorer *matching.Scorer, preparer OfferPreparer, workers, minScore int, logger *slog.Logger) *Ranker {
	if workers < 1 {
		workers = 1
	}
	return &Ranker{
		scorer:   scorer,
		preparer: preparer,
		workers:  workers,
		minScore: minScore,
		logger:   logger,
	}
}

// Progress receives the number of offers scored so far out of those that
// passed the contract filter. It may be called from several goroutines.
type Progress func(scored, total int)

// Rank returns offers sorted by descending score, ties kept in input order.
// Offers whose contract the candidate does not accept are skipped before any
// extraction or scoring.
func (r *Ranker) Rank(ctx context.Context, candidate *model.CandidateProfile, offers []model.JobOfferView) (Summary, error) {
	return r.RankWithProgress(ctx, candidate, offers, nil)
}

// RankWithProgress is Rank reporting each scored offer to progress, which may
// be nil.
func (r *Ranker) RankWithProgress(ctx context.Context, candidate *model.CandidateProfile, offers []model.JobOfferView, progress Progress) (Summary, error) {
	contracts := filter.ForCandidate(candidate)
	summary := Summary{Offers: len(offers)}

	var pending []int
	for i, o := range offers {
		if !contracts.Match(o) {
			summary.Filtered++
			continue
		}
		pending = append(pending, i)
	}

	if progress != nil {
		progress(0, len(pending))
	}

	var scored atomic.Int64
	results := make([]Ranked, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for slot, idx := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			offer := offers[idx]
			var prep *pipeline.Report
			if r.preparer != nil {
				prepared, report := r.preparer.Prepare(gctx, offer)
				offer, prep = prepared, &report
			}
			results[slot] = Ranked{
				Index:       idx,
				Offer:       offer,
				Result:      r.scorer.Score(candidate, &offer),
				Preparation: prep,
			}
			if progress != nil {
				progress(int(scored.Add(1)), len(pending))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("ranking offers: %w", err)
	}

	ranked := make([]Ranked, 0, len(results))
	for _, res := range results {
		if res.Result.Score < r.minScore {
			summary.BelowMin++
			continue
		}
		ranked = append(ranked, res)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Result.Score != ranked[j].Result.Score {
			return ranked[i].Result.Score > ranked[j].Result.Score
		}
		return ranked[i].Index < ranked[j].Index
	})
	summary.Ranked = ranked

	r.logger.Info("ranked offers",
		"offers", summary.Offers,
		"filtered", summary.Filtered,
		"below_min", summary.BelowMin,
		"ranked", len(ranked),
	)
	return summary, nil
}
