package resolver

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/offermatch/internal/model"
)

// Stats summarizes one resolution batch.
type Stats struct {
	Requested       int      `json:"requested"`
	Resolved        int      `json:"resolved"`
	Unresolved      int      `json:"unresolved"`
	Failed          int      `json:"failed"`
	UnresolvedSlugs []string `json:"unresolved_slugs,omitempty"`
	FailedSlugs     []string `json:"failed_slugs,omitempty"`
}

// Resolver maps parsed skills onto the canonical skill repository.
type Resolver struct {
	repo          model.SkillRepository
	concurrency   int
	lookupTimeout time.Duration
	logger        *slog.Logger
}

// New creates a Resolver. concurrency bounds in-flight lookups; lookupTimeout
// caps each lookup (zero means no per-lookup deadline).
func New(repo model.SkillRepository, concurrency int, lookupTimeout time.Duration, logger *slog.Logger) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{
		repo:          repo,
		concurrency:   concurrency,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

type outcome int

const (
	outcomeResolved outcome = iota
	outcomeUnresolved
	outcomeFailed
)

type lookupResult struct {
	outcome outcome
	skill   model.ResolvedSkill
}

// MatchSkillsToDatabase resolves each parsed skill by slug. Misses and failed
// lookups are dropped and counted; the batch itself never fails. Output keeps
// the input order. Duplicate slugs are looked up once and emitted once.
func (r *Resolver) MatchSkillsToDatabase(ctx context.Context, parsed []model.ParsedSkill) ([]model.ResolvedSkill, Stats) {
	skills := dedupe(parsed)
	stats := Stats{Requested: len(skills)}
	results := make([]lookupResult, len(skills))

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i, ps := range skills {
		g.Go(func() error {
			results[i] = r.lookup(ctx, ps)
			return nil
		})
	}
	_ = g.Wait() // lookups never return errors; failures live in results

	resolved := make([]model.ResolvedSkill, 0, len(skills))
	for i, res := range results {
		switch res.outcome {
		case outcomeResolved:
			stats.Resolved++
			resolved = append(resolved, res.skill)
		case outcomeUnresolved:
			stats.Unresolved++
			stats.UnresolvedSlugs = append(stats.UnresolvedSlugs, skills[i].Slug)
		case outcomeFailed:
			stats.Failed++
			stats.FailedSlugs = append(stats.FailedSlugs, skills[i].Slug)
		}
	}

	r.logger.Info("skills resolved",
		"requested", stats.Requested,
		"resolved", stats.Resolved,
		"unresolved", stats.Unresolved,
		"failed", stats.Failed,
	)
	return resolved, stats
}

func (r *Resolver) lookup(ctx context.Context, ps model.ParsedSkill) lookupResult {
	lctx := ctx
	if r.lookupTimeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, r.lookupTimeout)
		defer cancel()
	}

	rec, err := r.repo.LookupBySlug(lctx, ps.Slug)
	if err != nil {
		r.logger.Warn("skill lookup failed", "slug", ps.Slug, "error", err)
		return lookupResult{outcome: outcomeFailed}
	}
	if rec == nil {
		r.logger.Warn("skill not in repository", "slug", ps.Slug)
		return lookupResult{outcome: outcomeUnresolved}
	}

	return lookupResult{
		outcome: outcomeResolved,
		skill: model.ResolvedSkill{
			SkillID:    rec.ID,
			Slug:       rec.Slug,
			Name:       rec.Name,
			IsRequired: ps.IsRequired,
			Weight:     clampWeight(ps.Weight),
		},
	}
}

// dedupe keeps the first occurrence of each slug, upgraded to the strongest
// mention (required first, then higher weight). Blank slugs are dropped.
func dedupe(parsed []model.ParsedSkill) []model.ParsedSkill {
	out := make([]model.ParsedSkill, 0, len(parsed))
	index := make(map[string]int, len(parsed))
	for _, ps := range parsed {
		if ps.Slug == "" {
			continue
		}
		i, ok := index[ps.Slug]
		if !ok {
			index[ps.Slug] = len(out)
			out = append(out, ps)
			continue
		}
		cur := out[i]
		if (ps.IsRequired && !cur.IsRequired) || (ps.IsRequired == cur.IsRequired && ps.Weight > cur.Weight) {
			cur.IsRequired = ps.IsRequired
			cur.Weight = ps.Weight
			out[i] = cur
		}
	}
	return out
}

func clampWeight(w int) int {
	if w < model.MinWeight {
		return model.MinWeight
	}
	if w > model.MaxWeight {
		return model.MaxWeight
	}
	return w
}
