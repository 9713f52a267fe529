package resilience

import (
	"context"
	"errors"
)

// ErrNoCandidates is returned by Fallback when the candidate list is empty.
var ErrNoCandidates = errors.New("no fallback candidates provided")

// FallbackConfig configures fallback behavior.
type FallbackConfig struct {
	// FallbackIf determines whether the next candidate should be tried
	// after an error. When nil, every error falls through to the next
	// candidate except context cancellation.
	FallbackIf func(error) bool
	// OnFallback is called before moving to the next candidate.
	OnFallback func(candidate string, err error)
}

// DefaultFallbackIf moves on to the next candidate for any error except
// context cancellation.
func DefaultFallbackIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Fallback tries fn against each candidate in order and returns the first
// successful result. When every candidate fails, the error from the LAST
// candidate is returned, so callers surface the most recent failure.
func Fallback[T any](ctx context.Context, cfg FallbackConfig, candidates []string, fn func(ctx context.Context, candidate string) (T, error)) (T, error) {
	var zero T

	if len(candidates) == 0 {
		return zero, ErrNoCandidates
	}
	if cfg.FallbackIf == nil {
		cfg.FallbackIf = DefaultFallbackIf
	}

	var lastErr error
	for i, candidate := range candidates {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx, candidate)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.FallbackIf(err) {
			return zero, err
		}
		if i < len(candidates)-1 && cfg.OnFallback != nil {
			cfg.OnFallback(candidate, err)
		}
	}

	return zero, lastErr
}
