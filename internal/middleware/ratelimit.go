package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/utils"
)

// RateLimitConfig rate limiting ayarları
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	SkipPaths         []string
	IdleTimeout       time.Duration // Bu süre boyunca görülmeyen IP'nin limiter'ı silinir
	CleanupInterval   time.Duration
}

// DefaultRateLimitConfig varsayılan rate limit ayarları
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		SkipPaths:         []string{"/health", "/metrics"},
		IdleTimeout:       30 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter IP başına token bucket
type RateLimiter struct {
	config   *RateLimitConfig
	limiters map[string]*ipLimiter
	mutex    sync.Mutex
}

// NewRateLimiter yeni limiter oluşturur. Temizlik goroutine'i ctx bitince durur.
func NewRateLimiter(ctx context.Context, config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*ipLimiter),
	}

	if config.CleanupInterval > 0 {
		go rl.cleanupLoop(ctx)
	}
	return rl
}

// Handler rate limiting middleware
func (rl *RateLimiter) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if contains(rl.config.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := utils.GetClientIP(r)
			limiter := rl.limiterFor(clientIP)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Burst))

			reservation := limiter.Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()

				retryAfter := int(delay.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Remaining", "0")

				log.Warn().Str("client_ip", clientIP).Str("path", r.URL.Path).Msg("⏳ Rate limit aşıldı")
				errors.WriteJSON(w, http.StatusTooManyRequests, "rate_limited", "Çok fazla istek. Lütfen daha sonra tekrar deneyin.")
				return
			}

			remaining := int(limiter.Tokens())
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup(time.Now())
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.config.IdleTimeout {
			delete(rl.limiters, ip)
		}
	}
	log.Debug().Int("active_limiters", len(rl.limiters)).Msg("Rate limiter temizliği tamamlandı")
}
