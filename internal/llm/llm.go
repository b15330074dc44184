// Package llm is the language-model collaborator: one chat completion per
// call, bounded by a timeout and a client-side rate limit.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/saboothailand/support-bot/internal/observability"
)

var (
	// ErrEmptyCompletion is returned when the model answered with no text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
	// ErrNotConfigured is returned by NewOpenAI without an API key.
	ErrNotConfigured = errors.New("llm: not configured")
)

// Request is a single system+user exchange.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Completer produces the assistant text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options for the OpenAI completer. Zero values take the defaults.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

const (
	DefaultModel   = openai.GPT4o
	DefaultTimeout = 25 * time.Second
)

// OpenAI talks to the chat completions API (or a compatible endpoint when
// BaseURL is set).
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAI builds the client. It returns ErrNotConfigured when no key is set
// so callers can run without a model.
func NewOpenAI(o Options) (*OpenAI, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	cfg := openai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if o.RPS > 0 {
		burst := o.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(o.RPS), burst)
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   o.Model,
		timeout: o.Timeout,
		limiter: lim,
	}, nil
}

// Model is the configured model name.
func (c *OpenAI) Model() string { return c.model }

// Complete sends req and returns the trimmed answer. The whole call,
// including the wait for a rate-limit token, is bounded by the timeout.
func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	ctx, span := otel.Tracer("llm").Start(ctx, "Complete",
		trace.WithAttributes(
			attribute.String("llm.model", c.model),
			attribute.Int("llm.max_tokens", req.MaxTokens),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.complete(ctx, req)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrEmptyCompletion):
		outcome = "empty"
	case err != nil:
		outcome = "error"
	}
	observability.LLMDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	return text, err
}

func (c *OpenAI) complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limit: %w", err)
	}
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
