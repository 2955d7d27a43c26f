package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"taskflow/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResponseCache keeps successful GET bodies per user for a short TTL.
// Handlers that mutate a dashboard call InvalidateUser.
type ResponseCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *tracing.AppMetrics

	mu       sync.Mutex
	versions map[string]uint64
}

type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Timestamp   time.Time
}

func NewResponseCache(ttl time.Duration, logger *zap.Logger, metrics *tracing.AppMetrics) *ResponseCache {
	return &ResponseCache{
		cache:   cache.New(ttl, 2*ttl),
		ttl:      ttl,
		logger:   logger,
		metrics:  metrics,
		versions: make(map[string]uint64),
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := c.FullPath()
		cacheKey := rc.key(c, path)

		if value, found := rc.cache.Get(cacheKey); found {
			cached := value.(cachedResponse)

			_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
				attribute.String("cache.path", path),
				attribute.Int("cache.body_size", len(cached.Body)),
			})
			span.End()

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(c.Request.Context(), path)
			}

			c.Header("X-Cache", "HIT")
			c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		userID := UserID(c)
		version := rc.version(userID)

		c.Next()

		// A mutation during c.Next() may have made the body stale.
		if rc.version(userID) != version {
			return
		}

		if status := writer.Status(); status >= 200 && status < 300 {
			rc.cache.Set(cacheKey, cachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				Timestamp:   time.Now(),
			}, rc.ttl)
		}
	}
}

func (rc *ResponseCache) key(c *gin.Context, path string) string {
	identity := "ip_" + ClientIP(c)

	if userID := UserID(c); userID != "" {
		identity = "user_" + userID
	}

	hash := md5.Sum([]byte(path + "|" + c.Request.URL.RawQuery))

	return fmt.Sprintf("cache:%s:%x", identity, hash)
}

func (rc *ResponseCache) version(userID string) uint64 {
	if userID == "" {
		return 0
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.versions[userID]
}

// InvalidateUser drops every cached response for userID. Responses still
// being computed for userID are not stored.
func (rc *ResponseCache) InvalidateUser(userID string) {
	rc.mu.Lock()
	rc.versions[userID]++
	rc.mu.Unlock()

	prefix := "cache:user_" + userID + ":"

	for key := range rc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			rc.cache.Delete(key)
		}
	}

	rc.logger.Debug("Cache invalidated", zap.String("user_id", userID))
}

func (rc *ResponseCache) Len() int {
	return rc.cache.ItemCount()
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
