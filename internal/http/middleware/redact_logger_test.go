package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRedact(t *testing.T) {
	cases := map[string]string{
		"user=U4af4980629a1b2c3d4e5f60718293a4b":   "user=[REDACTED:uid]",
		"group C0123456789abcdef0123456789abcdef":  "group [REDACTED:uid]",
		"room=R0123456789abcdef0123456789abcdef":   "room=[REDACTED:uid]",
		"call 081-234-5678 today":                  "call [REDACTED:phone] today",
		"mail noi@saboothailand.com":               "mail [REDACTED:email]",
		"id=123e4567-e89b-12d3-a456-426614174000":  "id=[REDACTED:id]",
		"elephant soap":                            "elephant soap",
		"":                                         "",
		// not a LINE id: wrong prefix and uppercase hex
		"X4AF4980629A1B2C3D4E5F60718293A4B":        "X4AF4980629A1B2C3D4E5F60718293A4B",
	}
	for in, want := range cases {
		if got := Redact(in); got != want {
			t.Fatalf("Redact(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestRedactingLogger_MasksWebhookAndAdminHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header(requestIDHeader, "rid-resp"); c.Next() })
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Line-Signature", HeaderAdminKey}}))
	r.GET("/admin/audit", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "user_id=U4af4980629a1b2c3d4e5f60718293a4b&email=a.b+tag@example.com&phone=+66-81-234-5678"
	req := httptest.NewRequest(http.MethodGet, "/admin/audit?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Line-Signature", "c2lnbmF0dXJl")
	req.Header.Set(HeaderAdminKey, "shhh")
	req.Header.Set("X-User-ID", "U4af4980629a1b2c3d4e5f60718293a4b")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set(requestIDHeader, "rid-req")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"path":"/admin/audit"`,
		`"request_id":"rid-resp"`,
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Line-Signature":"[REDACTED]"`,
		`"X-Admin-Api-Key":"[REDACTED]"`,
		`"X-User-Id":"[REDACTED:uid]"`,
		`"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`,
		`user_id=[REDACTED:uid]`,
		`[REDACTED:email]`,
		`[REDACTED:phone]`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("log lacks %s: %s", want, logs)
		}
	}
	for _, leaked := range []string{"shhh", "topsecret", "c2lnbmF0dXJl", "U4af4980629a1b2c3d4e5f60718293a4b"} {
		if strings.Contains(logs, leaked) {
			t.Fatalf("log leaks %q: %s", leaked, logs)
		}
	}
}

func TestRedactingLogger_LevelsAndRequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/line", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	r.POST("/api/v1/chat", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for path, rid := range map[string]string{"/line": "rid-warn", "/api/v1/chat": "rid-err"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(requestIDHeader, rid)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"request_id":"rid-warn"`) {
		t.Fatalf("warn line missing: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"request_id":"rid-err"`) {
		t.Fatalf("error line missing: %s", logs)
	}
}
