// Chat HTTP handlers.
//
// This file exposes the web widget endpoint:
//   - POST /chat   (one message in, one reply out)
//
// Handlers are transport-thin: they validate input, call the assistant, and
// render the reply for the browser (HTML escaping, line breaks, links).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/services"
)

//
// Service contracts (context-aware)
//

// Assistant is the reply pipeline consumed by the handlers. It must be safe
// for concurrent use.
type Assistant interface {
	// Answer never fails; errors become fallback text.
	Answer(ctx context.Context, msg domain.Message) services.Reply
	ReloadCatalog(ctx context.Context) services.ReloadResult
	ClearCaches()
	HealthSnapshot() domain.HealthSnapshot
}

// Replier sends a reply to the messaging platform.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

//
// Handler wiring
//

// Options tunes transport-level limits.
type Options struct {
	// LineSecret verifies webhook signatures; empty disables the check.
	LineSecret string
	// DeliveryTTL bounds how long processed webhook event ids are remembered.
	DeliveryTTL time.Duration
	// MaxMessageRunes rejects longer chat messages with 400.
	MaxMessageRunes int
}

const (
	defaultDeliveryTTL     = 24 * time.Hour
	defaultMaxMessageRunes = 2000
	// DefaultWebUser is the memory key for widget messages without a user id.
	DefaultWebUser = "web_user"
)

// Handlers groups the HTTP endpoints. DB may be nil, in which case webhook
// dedupe and the audit listing are disabled.
type Handlers struct {
	bot   Assistant
	db    *gorm.DB
	reply Replier
	opts  Options
}

// New constructs Handlers bound to the given collaborators.
func New(bot Assistant, db *gorm.DB, reply Replier, opts Options) *Handlers {
	if opts.DeliveryTTL <= 0 {
		opts.DeliveryTTL = defaultDeliveryTTL
	}
	if opts.MaxMessageRunes <= 0 {
		opts.MaxMessageRunes = defaultMaxMessageRunes
	}
	return &Handlers{bot: bot, db: db, reply: reply, opts: opts}
}

//
// DTOs
//

// ChatRequest is the web widget payload.
type ChatRequest struct {
	// Message is the customer text. It must be non-empty.
	Message string `json:"message" example:"ราคาสบู่มะม่วง"`
	// UserID keys conversation memory; defaults to "web_user".
	UserID string `json:"user_id" example:"visitor-42"`
}

// ChatResponse carries the reply in plain and browser-ready forms.
type ChatResponse struct {
	Reply     string `json:"reply"`
	ReplyHTML string `json:"reply_html"`
	Language  string `json:"language" example:"thai"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent converts CRLF/CR to LF, collapses blank runs and trims.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// linkRE matches Thai-style phone numbers and web addresses.
var linkRE = regexp.MustCompile(`\b0\d{1,2}-\d{3,4}-\d{4}\b|https?://[^\s<]+|\bwww\.[^\s<]+`)

// renderHTML escapes text for the browser, turns newlines into <br> and
// links phone numbers and URLs.
func renderHTML(text string) string {
	escaped := html.EscapeString(text)
	linked := linkRE.ReplaceAllStringFunc(escaped, func(m string) string {
		trail := ""
		for len(m) > 0 && strings.ContainsRune(".,;:!?)", rune(m[len(m)-1])) {
			trail = m[len(m)-1:] + trail
			m = m[:len(m)-1]
		}
		switch {
		case m == "":
			return trail
		case m[0] == '0':
			return `<a href="tel:` + m + `">` + m + `</a>` + trail
		case strings.HasPrefix(m, "www."):
			return `<a href="https://` + m + `" target="_blank" rel="noopener">` + m + `</a>` + trail
		default:
			return `<a href="` + m + `" target="_blank" rel="noopener">` + m + `</a>` + trail
		}
	})
	return strings.ReplaceAll(linked, "\n", "<br>")
}

func webUserID(c *gin.Context, fromBody string) string {
	if s := strings.TrimSpace(fromBody); s != "" {
		return s
	}
	if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
		return h
	}
	return DefaultWebUser
}

//
// Handlers
//

// PostChat godoc
// @ID          postChat
// @Summary     Send a message and get the assistant reply
// @Description Detects the language, answers from the catalog or company information, and returns the reply as plain text and HTML.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID when the body has none"  example(visitor-42)
// @Param       body       body    handlers.ChatRequest  true  "Chat payload"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or oversized message"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Router      /api/v1/chat [post]
func (h *Handlers) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	text := sanitizeContent(req.Message)
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeEmptyMessage, "Empty message.")
		return
	}
	if n := utf8.RuneCountInString(text); n > h.opts.MaxMessageRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("message too long: max %d runes", h.opts.MaxMessageRunes))
		return
	}

	r := h.bot.Answer(c.Request.Context(), domain.Message{
		Text:    text,
		UserID:  webUserID(c, req.UserID),
		Channel: domain.ChannelWeb,
	})
	ok(c, http.StatusOK, ChatResponse{
		Reply:     r.Text,
		ReplyHTML: renderHTML(r.Text),
		Language:  string(r.Language),
	})
}
