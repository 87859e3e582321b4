package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"connect-service/pkg/response"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed window of limit requests per client, keyed
// on the authenticated user id or the client IP. Clients over the limit are
// blocked for blockDuration. Redis being down never blocks traffic.
func RateLimiter(rdb *redis.Client, limit int, window, blockDuration time.Duration, keyPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := keyPrefix + ":" + clientKey(r)
			blockKey := key + ":blocked"

			if ttl, err := rdb.TTL(ctx, blockKey).Result(); err == nil && ttl > 0 {
				tooManyRequests(w, ttl)
				return
			}

			var count *redis.IntCmd
			_, err := rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
				count = pipe.Incr(ctx, key)
				pipe.ExpireNX(ctx, key, window)
				return nil
			})
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			n := count.Val()
			if n > int64(limit) {
				rdb.Set(ctx, blockKey, "1", blockDuration)
				tooManyRequests(w, blockDuration)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-int(n)))
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok && userID != "" {
		return "uid:" + userID
	}
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return "ip:" + strings.TrimSpace(strings.Split(ip, ",")[0])
}

func tooManyRequests(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	response.Error(w, http.StatusTooManyRequests, "too many requests, retry in "+retryAfter.Round(time.Second).String())
}
