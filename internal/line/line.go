// Package line adapts the LINE Messaging API SDK to the bot: it verifies and
// decodes webhooks into text events and sends replies.
package line

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const (
	DefaultAPIBase  = "https://api.line.me"
	SignatureHeader = "X-Line-Signature"

	// the platform rejects longer text messages
	maxTextRunes = 5000
)

var (
	// ErrNotConfigured is returned by NewClient without an access token.
	ErrNotConfigured = errors.New("line: access token not configured")
	// ErrReplyFailed wraps errors from the reply endpoint.
	ErrReplyFailed = errors.New("line: reply failed")
	// ErrInvalidSignature is returned by ParseWebhook for a bad signature.
	ErrInvalidSignature = webhook.ErrInvalidSignature
)

// TextEvent is a text message event that can be answered.
type TextEvent struct {
	EventID    string
	ReplyToken string
	UserID     string
	Text       string
	Redelivery bool
}

// ParseWebhook verifies the signature of r with secret and returns its text
// message events; other events are dropped. With no secret configured the
// body is decoded without verification.
func ParseWebhook(secret string, r *http.Request) ([]TextEvent, error) {
	var (
		cb  *webhook.CallbackRequest
		err error
	)
	if secret != "" {
		cb, err = webhook.ParseRequest(secret, r)
	} else {
		cb, err = decodeUnsigned(r.Body)
	}
	if err != nil {
		return nil, err
	}

	out := make([]TextEvent, 0, len(cb.Events))
	for _, ev := range cb.Events {
		me, ok := ev.(webhook.MessageEvent)
		if !ok || me.ReplyToken == "" {
			continue
		}
		msg, ok := me.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		te := TextEvent{
			EventID:    me.WebhookEventId,
			ReplyToken: me.ReplyToken,
			UserID:     sourceID(me.Source),
			Text:       msg.Text,
		}
		if me.DeliveryContext != nil {
			te.Redelivery = me.DeliveryContext.IsRedelivery
		}
		out = append(out, te)
	}
	return out, nil
}

func decodeUnsigned(body io.ReadCloser) (*webhook.CallbackRequest, error) {
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, err
	}
	return &cb, nil
}

// sourceID is the sending user, or the group or room when the user did not
// consent to share their id.
func sourceID(src webhook.SourceInterface) string {
	switch s := src.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		if s.UserId != "" {
			return s.UserId
		}
		return s.GroupId
	case webhook.RoomSource:
		if s.UserId != "" {
			return s.UserId
		}
		return s.RoomId
	}
	return ""
}

// Client sends replies through the Messaging API.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// NewClient builds a client; an empty apiBase uses DefaultAPIBase.
func NewClient(token, apiBase string) (*Client, error) {
	if token == "" {
		return nil, ErrNotConfigured
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	api, err := messaging_api.NewMessagingApiAPI(token,
		messaging_api.WithEndpoint(strings.TrimRight(apiBase, "/")),
		messaging_api.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("line client: %w", err)
	}
	return &Client{api: api}, nil
}

// Reply answers a webhook event with one text message.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: clip(text, maxTextRunes)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReplyFailed, err)
	}
	return nil
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
