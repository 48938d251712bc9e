// Package resource provides the resilience primitives shared by the
// verification pipeline: retry with exponential backoff, scoped temporary
// files with guaranteed cleanup, and system-resource preflight checks.
package resource

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/docuguard/docuguard/internal/domain"
)

// RetryPolicy retries an operation with exponential backoff. Only transient
// kinds are retried; validation and gallery kinds surface immediately
// because retrying an oversized image or an empty gallery cannot help.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     float64
	Logger      *slog.Logger
}

// DefaultRetryPolicy mirrors the calibrated operational defaults.
func DefaultRetryPolicy(logger *slog.Logger) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       time.Second,
		Backoff:     2.0,
		Logger:      logger,
	}
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
// Backoff sleeps block the calling goroutine; the pipeline is invoked from a
// single interactive context, not a handler pool, so this is acceptable.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !retryable(lastErr) || attempt == p.MaxAttempts {
			return lastErr
		}

		wait := time.Duration(float64(p.Delay) * math.Pow(p.Backoff, float64(attempt-1)))
		if p.Logger != nil {
			p.Logger.Warn("retrying after failure",
				slog.String("op", op),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", p.MaxAttempts),
				slog.Duration("wait", wait),
				slog.Any("error", lastErr),
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

// retryable treats typed transient kinds as retryable and any untyped error
// as environmental. Non-transient AppErrors are deterministic outcomes.
func retryable(err error) bool {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Transient()
	}
	return true
}
