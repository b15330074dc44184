package middleware

// RedactingLogger writes one access line per request with customer
// identifiers scrubbed from the query string and header values. Bodies are
// never logged: chat messages and webhook payloads stay out of access logs.

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[REDACTED]"

// redactions run in order; the phone pattern is the loosest and goes last
// so it cannot eat the digit groups of a UUID.
var redactions = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	// LINE user, group and room ids
	{regexp.MustCompile(`\b[UCR][0-9a-f]{32}\b`), "[REDACTED:uid]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// Redact replaces user ids, emails and phone numbers in s.
func Redact(s string) string {
	for _, r := range redactions {
		if s == "" {
			break
		}
		s = r.re.ReplaceAllString(s, r.label)
	}
	return s
}

// RedactOptions adds headers whose values are masked entirely, on top of
// Authorization, Cookie and Set-Cookie. Names are case-insensitive.
type RedactOptions struct {
	MaskHeaders []string
}

func scrubHeaders(h http.Header, masked map[string]struct{}) *zerolog.Event {
	d := zerolog.Dict()
	for k, vv := range h {
		if _, ok := masked[strings.ToLower(k)]; ok {
			d.Str(k, redactedValue)
			continue
		}
		d.Str(k, Redact(strings.Join(vv, ", ")))
	}
	return d
}

// RedactingLogger logs method, route, scrubbed query and headers, status,
// size and latency at info, warn for 4xx and error for 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := map[string]struct{}{"authorization": {}, "cookie": {}, "set-cookie": {}}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		headers := scrubHeaders(c.Request.Header, masked)
		query := Redact(c.Request.URL.RawQuery)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		rid := c.Writer.Header().Get(requestIDHeader)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		status := c.Writer.Status()

		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", route).
			Str("query", query).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Dict("headers", headers).
			Msg("http_request")
	}
}
