package middleware

import (
	"net"
	"net/http"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/pkg/response"
)

// RateLimiter limits requests per client IP using a token bucket. Limiters
// are kept in a TTL cache so idle clients do not accumulate.
type RateLimiter struct {
	cfg      config.RateLimitConfig
	limiters *gocache.Cache
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		limiters: gocache.New(cfg.ClientTTL, cfg.ClientTTL),
	}
}

func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	if v, ok := rl.limiters.Get(clientIP); ok {
		if limiter, ok := v.(*rate.Limiter); ok {
			return limiter
		}
	}

	limiter := rate.NewLimiter(rate.Limit(rl.cfg.PerSecond), rl.cfg.Burst)
	rl.limiters.SetDefault(clientIP, limiter)
	return limiter
}

// Handler is the middleware entry point
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			clientIP = host
		}

		if !rl.limiterFor(clientIP).Allow() {
			response.Error(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}
