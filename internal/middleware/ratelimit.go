package middleware

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/ruralpay/webbank/internal/config"
)

// RateLimit throttles per client IP. A zero RequestsPerSecond disables it.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	lmt := tollbooth.NewLimiter(cfg.RequestsPerSecond, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})
	// chi's RealIP middleware has already rewritten RemoteAddr
	lmt.SetIPLookups([]string{"RemoteAddr"})
	if cfg.Burst > 0 {
		lmt.SetBurst(cfg.Burst)
	}
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"error":"Too many requests","code":"RATE_LIMITED"}`)

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}
