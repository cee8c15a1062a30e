package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/yanqian/weather-advice/internal/infra/config"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxRequestIDLen = 128

	limiterIdleTTL = 10 * time.Minute
)

// requestID propagates a caller supplied request id or mints a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// errorEnvelope renders the last handler error as {"error":{...}}.
func errorEnvelope(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := fromDomain(c.Errors.Last().Err)
		id := c.GetString(requestIDKey)
		attrs := []any{"request_id", id, "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err}
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request failed", attrs...)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":      httpErr.Code,
				"message":   httpErr.Message,
				"requestId": id,
			},
		})
	}
}

// clientLimiter hands out one token bucket per client and route scope, so
// upstream-heavy advice calls do not starve location lookups.
type clientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	retryIn time.Duration
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(cfg config.RateLimitConfig) *clientLimiter {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return nil
	}
	interval := time.Minute / time.Duration(cfg.RequestsPerMinute)
	return &clientLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(interval),
		burst:   max(cfg.Burst, 1),
		retryIn: interval,
		now:     time.Now,
	}
}

// scope limits requests of one route group. A nil limiter lets everything through.
func (l *clientLimiter) scope(name string, logger *slog.Logger) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	retryAfter := strconv.Itoa(int(math.Ceil(l.retryIn.Seconds())))
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if l.allow(name + "|" + ip) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "scope", name, "ip", ip, "request_id", c.GetString(requestIDKey))
		c.Header("Retry-After", retryAfter)
		abortWithError(c, &HTTPError{Status: http.StatusTooManyRequests, Code: codeRateLimited, Message: "too many " + name + " requests"})
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.evictIdleLocked(now)
	return b.limiter.AllowN(now, 1)
}

func (l *clientLimiter) evictIdleLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > limiterIdleTTL {
			delete(l.buckets, key)
		}
	}
}
