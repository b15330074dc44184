// Messaging webhook handler.
//
//   - POST /line   (platform webhook; text messages only)
//
// The platform redelivers events it considers unacknowledged. Each event id is
// claimed in the deliveries table before answering, so a redelivery never
// produces a second reply.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/http/middleware"
	"github.com/saboothailand/support-bot/internal/line"
	"github.com/saboothailand/support-bot/internal/repo"
	"github.com/saboothailand/support-bot/internal/services"
)

// LineWebhook godoc
// @ID          lineWebhook
// @Summary     Messaging platform webhook
// @Description Verifies the body signature, answers each text message event through the reply API and acknowledges with "OK". Other event types are ignored.
// @Tags        Webhook
// @Accept      json
// @Produce     plain
//
// @Param       X-Line-Signature  header  string  true  "Base64 HMAC-SHA256 of the body"
//
// @Success     200  {string}  string  "OK"
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed payload"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid signature"
// @Router      /line [post]
func (h *Handlers) LineWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	lg := middleware.LoggerFrom(c)

	events, err := line.ParseWebhook(h.opts.LineSecret, c.Request)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, line.ErrInvalidSignature):
			lg.Warn().Msg("webhook signature mismatch")
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid signature")
		case errors.As(err, &tooLarge):
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
		default:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid webhook body")
		}
		return
	}

	for _, ev := range events {
		elg := lg.With().
			Str("event_id", ev.EventID).
			Str("source", middleware.Redact(ev.UserID)).
			Bool("redelivery", ev.Redelivery).
			Logger()

		if h.db != nil && ev.EventID != "" {
			_, err := repo.ClaimDelivery(ctx, h.db, string(domain.ChannelMessaging), ev.EventID, ev.UserID, h.opts.DeliveryTTL)
			switch {
			case errors.Is(err, repo.ErrDuplicate):
				elg.Info().Msg("duplicate delivery skipped")
				continue
			case err != nil:
				// answering twice beats not answering
				elg.Warn().Err(err).Msg("delivery claim failed")
			}
		}

		r := h.bot.Answer(ctx, domain.Message{
			Text:    ev.Text,
			UserID:  ev.UserID,
			Channel: domain.ChannelMessaging,
		})
		if h.reply == nil {
			continue
		}
		if err := h.reply.Reply(ctx, ev.ReplyToken, services.StripTags(r.Text)); err != nil {
			elg.Error().Err(err).Str("path", r.Path).Msg("reply not delivered")
			continue
		}
		elg.Info().Str("language", string(r.Language)).Str("path", r.Path).Msg("replied")
	}
	ack(c)
}
