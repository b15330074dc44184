package middleware

// Per-visitor token buckets for the chat endpoint. Buckets are keyed by the
// chat user id when the widget sends one and by client IP otherwise, so one
// busy visitor behind a shared NAT does not starve the others. Idle buckets
// are swept at most once per sweep interval. The limiter is process-local.

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// userIDPeekBytes bounds how much of a JSON body is read to find user_id.
const userIDPeekBytes = 8 << 10

// KeyFunc maps a request to a bucket key.
type KeyFunc func(*gin.Context) string

// KeyByChatUser keys requests by the chat user: the X-User-ID header, then
// the "user_id" field of a JSON body, then the client IP. Ids listed in
// shared (for example the default widget user) are treated as anonymous.
// The body is restored for the handler.
func KeyByChatUser(shared ...string) KeyFunc {
	anon := make(map[string]struct{}, len(shared))
	for _, s := range shared {
		anon[s] = struct{}{}
	}
	usable := func(id string) bool {
		if id == "" {
			return false
		}
		_, ok := anon[id]
		return !ok
	}
	return func(c *gin.Context) string {
		if id := strings.TrimSpace(c.GetHeader("X-User-ID")); usable(id) {
			return "user:" + id
		}
		if id := peekUserID(c.Request); usable(id) {
			return "user:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

// peekUserID reads the head of a JSON body and puts it back.
func peekUserID(req *http.Request) string {
	if req.Body == nil || req.Method != http.MethodPost ||
		!strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(req.Body, userIDPeekBytes))
	req.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), req.Body), req.Body}
	if err != nil {
		return ""
	}
	var body struct {
		UserID string `json:"user_id"`
	}
	if json.Unmarshal(head, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.UserID)
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter holds one token bucket per key. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	key   KeyFunc

	mu        sync.Mutex
	buckets   map[string]*bucket
	idle      time.Duration
	sweepEach time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to
// burst (at least 1).
func NewRateLimiter(rps float64, burst int, key KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		key:       key,
		buckets:   make(map[string]*bucket),
		idle:      10 * time.Minute,
		sweepEach: time.Minute,
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// sweep before the lookup so a stale bucket for key starts fresh
	if now.Sub(rl.lastSweep) >= rl.sweepEach {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) >= rl.idle {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.lim
}

// retryAfter is the whole seconds until one token is back.
func (rl *RateLimiter) retryAfter() string {
	if rl.rps <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Max(1, math.Ceil(1/float64(rl.rps)))))
}

// IsRateBypass reports whether BypassRateLimit marked this request.
func IsRateBypass(c *gin.Context) bool {
	b, _ := c.Get(ctxKeyRateBypass)
	v, _ := b.(bool)
	return v
}

// Handler rejects requests over their bucket with 429, Retry-After and the
// API error envelope. Bypassed requests consume no tokens.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || rl.limiter(rl.key(c)).Allow() {
			c.Next()
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpRateLimited.WithLabelValues(path).Inc()
		c.Header("Retry-After", rl.retryAfter())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "too many messages, please wait a moment",
		})
	}
}
