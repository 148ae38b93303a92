package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/SecCert/internal/config"
	"go.uber.org/zap"
)

// FixedWindowRateLimiter allows a number of requests per client in each time frame.
// All counters reset together when the window rolls over, which keeps memory bounded.
type FixedWindowRateLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	enabled     bool
	windowStart time.Time
	counts      map[string]int
	now         func() time.Time
	logger      *zap.SugaredLogger
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	window := cfg.TimeFrame
	if window <= 0 {
		window = time.Minute
	}

	return &FixedWindowRateLimiter{
		limit:   cfg.RequestsPerTimeFrame,
		window:  window,
		enabled: cfg.Enabled && cfg.RequestsPerTimeFrame > 0,
		counts:  make(map[string]int),
		now:     time.Now,
		logger:  logger,
	}
}

func (rl *FixedWindowRateLimiter) Enabled() bool {
	return rl.enabled
}

// Allow counts a request for key. When the limit is reached it returns false and the time until the window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.windowStart) >= rl.window {
		rl.windowStart = now
		clear(rl.counts)
	}

	if rl.counts[key] >= rl.limit {
		retryAfter := rl.windowStart.Add(rl.window).Sub(now)
		rl.logger.Debugf("Rate limit exceeded for %s, retry after %s", key, retryAfter)
		return false, retryAfter
	}

	rl.counts[key]++
	return true, 0
}
