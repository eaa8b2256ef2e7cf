package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ticket-storefront/monitoring"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

var suspiciousAgents = []string{"bot", "crawler", "spider", "scraper"}

// RateLimiter counts requests per identifier in fixed Redis windows.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{redis: redisClient, limit: limit, window: window}
}

// Allow records one request for identifier and reports whether it is within
// the limit for the current window.
func (r *RateLimiter) Allow(ctx context.Context, scope, identifier string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", scope, identifier)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := r.redis.Expire(ctx, key, r.window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(r.limit), nil
}

// PurchaseRateLimit limits purchase attempts by user, or by client IP for
// anonymous requests. Redis failures let the request through.
func (r *RateLimiter) PurchaseRateLimit(e *core.RequestEvent) error {
	identifier := "ip:" + e.RealIP()
	if e.Auth != nil {
		identifier = "user:" + e.Auth.Id
	}

	ok, err := r.Allow(e.Request.Context(), "purchase", identifier)
	if err != nil {
		slog.Warn("Rate limiter unavailable", "error", err, "identifier", identifier)
	}
	if !ok {
		monitoring.TrackRateLimited("purchase")
		return apis.NewApiError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	}
	return e.Next()
}

// AntiBot rejects clients announcing themselves as crawlers.
func (r *RateLimiter) AntiBot(e *core.RequestEvent) error {
	if IsSuspiciousUserAgent(e.Request.Header.Get("User-Agent")) {
		monitoring.TrackRateLimited("bot")
		return apis.NewForbiddenError("Access denied", nil)
	}
	return e.Next()
}

func IsSuspiciousUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, pattern := range suspiciousAgents {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
