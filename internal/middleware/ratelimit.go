package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for the login rate limiter.
type RateLimitConfig struct {
	// Limit is the number of requests allowed per window per client IP.
	Limit int

	// Window is the fixed window duration.
	Window time.Duration

	// Enabled toggles the middleware entirely.
	Enabled bool
}

// DefaultRateLimitConfig returns defaults suited to credential endpoints.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   10,
		Window:  time.Minute,
		Enabled: true,
	}
}

// RateLimit returns middleware that throttles requests per client IP using a
// Redis fixed-window counter. When Redis is unreachable the middleware fails
// open: the request proceeds and a warning is logged. Exceeding the limit
// returns 429 with a Retry-After header.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "ratelimit:" + r.URL.Path + ":" + clientIP(r)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				l.WarnContext(ctx, "rate limiter unavailable, allowing request",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
					l.WarnContext(ctx, "failed to set rate limit window",
						slog.String("error", err.Error()),
					)
				}
			}

			if count > int64(cfg.Limit) {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil || ttl < 0 {
					ttl = cfg.Window
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "RATE_LIMITED",
						"message": "too many requests, slow down",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the originating client IP, preferring X-Forwarded-For
// when the service runs behind a proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
