package middleware

import (
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter kept in Redis, keyed by
// client IP and route. A nil *RateLimiter or nil client lets everything through.
type RateLimiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

func NewRateLimiter(rdb redis.Cmdable, limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "rl",
	}
}

func (l *RateLimiter) Key(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || ip == "" {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown"
	}
	return l.prefix + ":" + r.URL.Path + ":" + ip
}

// Middleware fails open when Redis is unreachable.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.rdb == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := l.Key(r)

		count, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("ERROR [middleware.RateLimit] key=%s redis incr failed: %v", key, err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
				log.Printf("ERROR [middleware.RateLimit] key=%s redis expire failed: %v", key, err)
			}
		}

		remaining := int64(l.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.limit) {
			retry := l.window
			if ttl, err := l.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retry = ttl
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			httpx.WriteError(w, http.StatusTooManyRequests, "Too many requests, try again later", httpx.CodeRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}
