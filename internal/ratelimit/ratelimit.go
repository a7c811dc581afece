package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/amishk599/offermatch/internal/model"
)

// NewLimiter builds a token-bucket limiter allowing perSecond lookups with the
// given burst. A non-positive perSecond disables limiting.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// LimitedRepository is a decorator that throttles lookups against the wrapped
// repository. All workers resolving against the same backend should share the
// same limiter instance.
type LimitedRepository struct {
	inner   model.SkillRepository
	limiter *rate.Limiter
}

// NewLimitedRepository wraps a SkillRepository with a shared rate limiter.
func NewLimitedRepository(inner model.SkillRepository, limiter *rate.Limiter) *LimitedRepository {
	return &LimitedRepository{
		inner:   inner,
		limiter: limiter,
	}
}

// LookupBySlug waits for a token, then delegates to the wrapped repository.
func (r *LimitedRepository) LookupBySlug(ctx context.Context, slug string) (*model.SkillRecord, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", slug, err)
	}
	return r.inner.LookupBySlug(ctx, slug)
}
