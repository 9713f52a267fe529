// Package resilience provides fault-tolerance patterns for calls to
// external AI services.
//
// This package includes:
//   - Retry: Retries failed operations with exponential backoff
//   - Fallback: Tries an ordered list of candidates (e.g. model names)
//     until one succeeds, surfacing the last failure
//   - RateLimiter: Controls request rate with token bucket algorithm
//
// The patterns compose; a gateway call typically retries each model and
// falls back across models:
//
//	text, err := resilience.Fallback(ctx, resilience.FallbackConfig{}, models,
//	    func(ctx context.Context, model string) (string, error) {
//	        return resilience.Retry(ctx, retryCfg, func() (string, error) {
//	            return provider.Generate(ctx, model, prompt)
//	        })
//	    })
package resilience
