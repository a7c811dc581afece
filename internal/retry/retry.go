package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/offermatch/internal/model"
)

// RetryRepository is a decorator that retries transient lookup failures with
// exponential backoff and jitter before delegating to the wrapped repository.
type RetryRepository struct {
	inner      model.SkillRepository
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryRepository wraps a SkillRepository with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryRepository(inner model.SkillRepository, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryRepository {
	return &RetryRepository{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// LookupBySlug attempts the lookup, retrying on transient errors. A miss
// (nil record, nil error) is a result, not a failure, and is never retried.
func (r *RetryRepository) LookupBySlug(ctx context.Context, slug string) (*model.SkillRecord, error) {
	rec, err := r.inner.LookupBySlug(ctx, slug)
	if err == nil {
		return rec, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	var lastErr error = err
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		delay := r.backoffDelay(attempt)

		r.logger.Warn("retrying skill lookup after transient error",
			"slug", slug,
			"attempt", attempt,
			"max_retries", r.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		rec, err = r.inner.LookupBySlug(ctx, slug)
		if err == nil {
			return rec, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
func (r *RetryRepository) backoffDelay(attempt int) time.Duration {
	// Exponential: baseDelay * 2^(attempt-1)
	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var repoErr *model.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Transient
	}

	// Unclassified errors (driver, network) are retryable.
	return true
}
