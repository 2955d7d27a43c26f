package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskflow/pkg/config"
	"taskflow/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultRateLimit = "default"

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *tracing.AppMetrics
	now     func() time.Time
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter looks rules up by "METHOD /route", then "/route", then
// "default". A missing default falls back to 60 requests per minute.
func NewRateLimiter(rules map[string]config.RateLimitConfig, logger *zap.Logger, metrics *tracing.AppMetrics) *RateLimiter {
	configs := make(map[string]config.RateLimitConfig, len(rules)+1)

	for key, rule := range rules {
		configs[key] = rule
	}

	if _, ok := configs[defaultRateLimit]; !ok {
		configs[defaultRateLimit] = config.RateLimitConfig{Requests: 60, Window: time.Minute}
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  configs,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		rule := rl.rule(methodPath, path)

		keyType, identifier := rl.identify(c)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, identifier)

		allowed, remaining, resetTime := rl.check(key, rule)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", rule.Requests, rule.Window),
				"retry_after": int(resetTime.Sub(rl.now()).Seconds()),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) rule(methodPath, path string) config.RateLimitConfig {
	if rule, ok := rl.config[methodPath]; ok {
		return rule
	}

	if rule, ok := rl.config[path]; ok {
		return rule
	}

	return rl.config[defaultRateLimit]
}

// identify keys authenticated requests by user and the rest by client IP.
func (rl *RateLimiter) identify(c *gin.Context) (string, string) {
	if userID := UserID(c); userID != "" {
		return "user", "user_" + userID
	}

	return "ip", ClientIP(c)
}

func (rl *RateLimiter) check(key string, rule config.RateLimitConfig) (bool, int, time.Time) {
	now := rl.now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if value, found := rl.cache.Get(key); found {
		entry := value.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= rule.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, entry.ResetTime.Sub(now))

			return true, rule.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(rule.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, rule.Window)

	return true, rule.Requests - 1, resetTime
}

func (rl *RateLimiter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}
