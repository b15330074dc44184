// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the administrative access guard and the rate-limit
// bypass used for trusted callers:
//   - AdminKey checks the X-Admin-API-Key header in constant time
//   - BypassRateLimit marks requests under given path prefixes so the
//     limiter skips them (the messaging platform posts webhooks from a small
//     set of addresses and must not be throttled with browser traffic)
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAdminKey carries the administrative API key.
const HeaderAdminKey = "X-Admin-API-Key"

// ctxKeyRateBypass is checked by RateLimiter.Handler.
const ctxKeyRateBypass = "rate.bypass"

// AdminKey returns a guard that requires HeaderAdminKey to equal key. With an
// empty key the guard is open; the caller is expected to warn at startup.
//
// Rejections use the standard error envelope:
//
//	HTTP/1.1 401 Unauthorized
//	{ "request_id": "<uuid>", "code": "unauthorized", "message": "invalid admin key" }
func AdminKey(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		if len(want) == 0 {
			c.Next()
			return
		}
		got := []byte(strings.TrimSpace(c.GetHeader(HeaderAdminKey)))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "invalid admin key",
			})
			return
		}
		c.Next()
	}
}

// BypassRateLimit flags requests whose path starts with one of prefixes.
// Install it before RateLimiter.Handler.
func BypassRateLimit(prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		for _, pre := range prefixes {
			if pre != "" && strings.HasPrefix(p, pre) {
				c.Set(ctxKeyRateBypass, true)
				break
			}
		}
		c.Next()
	}
}
