package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key. A key may spend `limit`
// requests per `window`, refilled continuously.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  window * 2,
	}
}

// Allow reports whether a request for key may proceed now
func (rl *RateLimiter) Allow(key string) bool {
	return rl.reserve(key, time.Now()) == 0
}

// reserve returns 0 when the request is allowed, otherwise how long the
// caller should wait before retrying
func (rl *RateLimiter) reserve(key string, now time.Time) time.Duration {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Duration(math.MaxInt64)
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return delay
	}
	return 0
}

// Cleanup drops visitors idle for more than two windows until ctx is done
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evict(now)
		}
	}
}

func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// KeyFunc derives the rate limit key for a request
type KeyFunc func(c *gin.Context) string

// ClientIPKey limits per client IP
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// maxLoginBody bounds how much of a JSON login body LoginKey reads
const maxLoginBody = 16 << 10

// LoginKey limits sign-in attempts per client IP and submitted email. JSON
// bodies are restored for the handler; form bodies stay parsed on the request.
func LoginKey(c *gin.Context) string {
	var email string
	if c.ContentType() == binding.MIMEJSON {
		original := c.Request.Body
		raw, err := io.ReadAll(io.LimitReader(original, maxLoginBody))
		// Put back what was read ahead of the unread remainder.
		c.Request.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), original), Closer: original}
		if err == nil {
			var body struct {
				Email string `json:"email"`
			}
			if json.Unmarshal(raw, &body) == nil {
				email = body.Email
			}
		}
	} else {
		email = c.PostForm("email")
	}
	return c.ClientIP() + "|" + strings.ToLower(strings.TrimSpace(email))
}

type replayBody struct {
	io.Reader
	io.Closer
}

// RateLimit limits requests per client IP
func RateLimit(rl *RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(rl, ClientIPKey, logger)
}

// RateLimitByKey limits requests per key; login routes key on IP plus email
func RateLimitByKey(rl *RateLimiter, keyFn KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := keyFn(c)
		if wait := rl.reserve(key, time.Now()); wait > 0 {
			seconds := int(math.Ceil(min(wait, time.Hour).Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Request.URL.Path))
			abortWith(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests, please retry later")
			return
		}
		c.Next()
	}
}
