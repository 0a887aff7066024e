package server

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/veracitylabs/veracity/internal/logger"
)

// keyLimiter enforces per-API-key hourly request limits.
type keyLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*limiterEntry
	logger   *logger.Logger
	stop     chan struct{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newKeyLimiter(log *logger.Logger) *keyLimiter {
	kl := &keyLimiter{
		limiters: make(map[string]*limiterEntry),
		logger:   log.WithComponent("ratelimit"),
		stop:     make(chan struct{}),
	}
	go kl.cleanupRoutine()
	return kl
}

// Allow reports whether the key may make a request right now. hourly is
// the key's request budget per hour; zero or negative means unlimited.
func (kl *keyLimiter) Allow(key string, hourly int) bool {
	if hourly <= 0 {
		return true
	}

	kl.mu.Lock()
	entry, ok := kl.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(hourly)), hourly),
		}
		kl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	kl.mu.Unlock()

	return entry.limiter.Allow()
}

// Remaining reports the key's unused request budget. Unlimited keys
// return -1; keys that have not been seen yet have their full budget.
func (kl *keyLimiter) Remaining(key string, hourly int) int {
	if hourly <= 0 {
		return -1
	}

	kl.mu.RLock()
	entry, ok := kl.limiters[key]
	kl.mu.RUnlock()

	if !ok {
		return hourly
	}
	tokens := int(entry.limiter.Tokens())
	if tokens < 0 {
		return 0
	}
	return tokens
}

// cleanupRoutine drops limiters for keys idle longer than two hours.
func (kl *keyLimiter) cleanupRoutine() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * time.Hour)
			kl.mu.Lock()
			for key, entry := range kl.limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(kl.limiters, key)
				}
			}
			remaining := len(kl.limiters)
			kl.mu.Unlock()

			kl.logger.Debug("Rate limiter cleanup complete",
				zap.Int("active_keys", remaining))

		case <-kl.stop:
			return
		}
	}
}

func (kl *keyLimiter) Close() {
	close(kl.stop)
}
