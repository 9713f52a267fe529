package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/LoohanZinho/joraps/resilience"
)

// RateLimitConfig configures the per-client rate limiting middleware.
type RateLimitConfig struct {
	// Enabled turns the middleware on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// RequestsPerSecond is the sustained rate allowed per key.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	// Burst is the number of requests a key may send above the rate.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// KeyFunc extracts the rate limit key from a request. Defaults to
	// client IP.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst == 0 {
		c.Burst = 20
	}
}

// Validate checks the configuration for invalid values.
func (c *RateLimitConfig) Validate() error {
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be non-negative (got: %g)", c.RequestsPerSecond)
	}
	if c.Burst < 0 {
		return fmt.Errorf("rate_limit.burst must be non-negative (got: %d)", c.Burst)
	}
	return nil
}

// RateLimit returns a Gin middleware that applies a token-bucket limit per
// key. Each key gets its own resilience.RateLimiter.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cfg.ApplyDefaults()
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}

	buckets := &bucketSet{
		limiters: make(map[string]*resilience.RateLimiter),
		rate:     cfg.RequestsPerSecond,
		burst:    cfg.Burst,
	}

	return func(c *gin.Context) {
		if !buckets.get(cfg.KeyFunc(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

type bucketSet struct {
	mu       sync.Mutex
	limiters map[string]*resilience.RateLimiter
	rate     float64
	burst    int
}

func (b *bucketSet) get(key string) *resilience.RateLimiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	rl, ok := b.limiters[key]
	if !ok {
		rl = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  "http:" + key,
			Rate:  b.rate,
			Burst: b.burst,
		})
		b.limiters[key] = rl
	}
	return rl
}
