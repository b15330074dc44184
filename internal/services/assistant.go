// Package services – Assistant
//
// Assistant turns one customer message into one reply. The decision order is
// fixed and the first matching branch answers:
//
//  1. no language model configured: fallback
//  2. follow-up ("tell me more"): expand the previous turns through the model,
//     or say there is nothing to expand
//  3. product question: answer straight from the catalog, no model call
//  4. anything else: company info + recent turns through the model
//
// Every answer from 2–4 is length-capped and recorded in conversation memory.
// Respond never fails; errors and panics become the fallback text.
//
// Observability: Respond and the model calls are OpenTelemetry spans; the
// chosen branch and fallback reasons are Prometheus counters.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saboothailand/support-bot/internal/catalog"
	"github.com/saboothailand/support-bot/internal/companyinfo"
	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/intent"
	"github.com/saboothailand/support-bot/internal/langdetect"
	"github.com/saboothailand/support-bot/internal/llm"
	"github.com/saboothailand/support-bot/internal/locale"
	"github.com/saboothailand/support-bot/internal/memory"
	"github.com/saboothailand/support-bot/internal/observability"
	"github.com/saboothailand/support-bot/internal/search"
)

// Decision branches, reported in Reply.Path, metrics and the audit log.
const (
	PathUnconfigured       = "unconfigured"
	PathMoreInfo           = "more_info"
	PathNothingToElaborate = "no_context"
	PathProduct            = "product"
	PathNoProducts         = "no_products"
	PathGeneral            = "general"
	PathFallback           = "fallback"
)

const (
	moreInfoMaxTokens = 1000
	generalMaxTokens  = 800

	// DefaultMinAnswerRunes is the shortest model answer accepted.
	DefaultMinAnswerRunes = 2

	// product answers show at most this many files
	maxProductsShown = 3
)

// DefaultSystemPrompt sets the assistant persona for every model call.
const DefaultSystemPrompt = `You are a knowledgeable and friendly Thai staff member of SABOO THAILAND.
Always reply in the **same language** the customer uses. Be warm and helpful. Use light emojis 😊.
Key Info: Founded in 2008, first Thai fruit-shaped soap, store at Mixt Chatuchak, phone 02-159-9880, website www.saboothailand.com.`

// AuditAppender receives every reply. audit.Logger implements it.
type AuditAppender interface {
	Append(rec domain.AuditRecord)
}

// Reply is the pipeline result.
type Reply struct {
	Text     string
	Language domain.Language
	Intent   domain.Intent
	Path     string
}

// ReloadResult reports an administrative catalog reload.
type ReloadResult struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// Assistant is the context assembler and fallback gate. Catalog, Company,
// Memory and Resolver are required; LLM and Audit may be nil. A nil
// Classifier is replaced by one over the embedded keyword table in Init,
// before any message is classified.
type Assistant struct {
	Catalog    *catalog.Cache
	Company    *companyinfo.Cache
	Memory     *memory.Store
	Classifier *intent.Classifier
	Resolver   *search.Resolver
	LLM        llm.Completer
	Audit      AuditAppender
	Texts      locale.Texts
	Log        zerolog.Logger

	SystemPrompt   string
	Temperature    float32
	// MaxTokens caps the completion budget of every model call when > 0.
	MaxTokens      int
	MaxReplyRunes  int
	MinAnswerRunes int

	initOnce         sync.Once
	unconfiguredOnce sync.Once
}

// Init loads the catalog and warms company info for the common languages.
// It runs once; concurrent callers block until the first run finishes.
// The loads are detached from ctx cancellation so an abandoned first request
// cannot leave the catalog empty. Failures are logged, not returned: the
// pipeline degrades to fallbacks.
func (a *Assistant) Init(ctx context.Context) {
	a.initOnce.Do(func() {
		if a.Classifier == nil {
			a.Classifier = intent.New(nil)
		}
		ctx = context.WithoutCancel(ctx)
		start := time.Now()
		if _, err := a.Catalog.Load(ctx); err != nil {
			a.Log.Error().Err(err).Msg("catalog not loaded at startup")
		}
		if err := a.Company.Warm(ctx, companyinfo.CommonLanguages...); err != nil {
			a.Log.Warn().Err(err).Msg("company info warm-up incomplete")
		}
		a.Log.Info().
			Int("catalog_entries", a.Catalog.Len()).
			Dur("took", time.Since(start)).
			Msg("assistant initialized")
	})
}

// HandleMessage answers a web message and returns only the text.
func (a *Assistant) HandleMessage(ctx context.Context, text, userID string) string {
	return a.Respond(ctx, domain.Message{Text: text, UserID: userID, Channel: domain.ChannelWeb})
}

// Respond answers msg with text only.
func (a *Assistant) Respond(ctx context.Context, msg domain.Message) string {
	return a.Answer(ctx, msg).Text
}

// Answer runs the pipeline for msg.
func (a *Assistant) Answer(ctx context.Context, msg domain.Message) (reply Reply) {
	tr := otel.Tracer("services/Assistant")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("user.id", msg.UserID),
			attribute.String("channel", string(msg.Channel)),
		),
	)
	defer span.End()

	lang := langdetect.Detect(msg.Text)
	reply = Reply{Language: lang, Intent: domain.IntentNone}
	lg := a.Log.With().Str("user_id", msg.UserID).Str("language", string(lang)).Logger()

	defer func() {
		if r := recover(); r != nil {
			reply.Text = a.fallback(lg, reasonPanic, fmt.Errorf("%w: %v", ErrPanic, r))
			reply.Path = PathFallback
		}
		observability.Replies.WithLabelValues(reply.Path).Inc()
		span.SetAttributes(
			attribute.String("reply.path", reply.Path),
			attribute.String("reply.language", string(lang)),
		)
		a.audit(msg, reply)
	}()

	a.Init(ctx)
	observability.DetectedLanguage.WithLabelValues(string(lang)).Inc()

	// 1. no model
	if a.LLM == nil {
		a.unconfiguredOnce.Do(func() {
			lg.Error().Err(ErrLLMUnavailable).Msg("replies fall back until a model is configured")
		})
		observability.Fallbacks.WithLabelValues(reasonUnconfigured).Inc()
		reply.Text, reply.Path = a.Texts.Fallback(), PathUnconfigured
		return reply
	}

	cls := a.Classifier.Classify(msg.Text, lang)
	reply.Intent = cls.Label
	lg.Debug().
		Bool("price", cls.Price).Bool("list", cls.List).
		Bool("feature", cls.Feature).Bool("more_info", cls.MoreInfo).
		Bool("product", cls.ProductCandidate).Str("intent", string(cls.Label)).
		Msg("classified")

	var (
		text   string
		path   string
		record = true
	)
	switch cls.Label {
	case domain.IntentMoreInfo:
		text, path, record = a.moreInfo(ctx, lg, msg, lang)
	case domain.IntentPrice, domain.IntentList:
		text, path = a.products(ctx, lg, msg, lang, cls)
	default:
		text, path, record = a.general(ctx, lg, msg, lang)
	}

	if record {
		// catalog replies are capped before the contact line is appended
		if path != PathProduct {
			text, _ = CapLength(text, a.MaxReplyRunes, a.Texts.MoreInfoHint(lang))
		}
		a.Memory.Record(msg.UserID, msg.Text, text, lang)
	}
	reply.Text, reply.Path = text, path
	return reply
}

// moreInfo handles step 2. The bool is false for replies that must not be
// recorded.
func (a *Assistant) moreInfo(ctx context.Context, lg zerolog.Logger, msg domain.Message, lang domain.Language) (string, string, bool) {
	history := a.Memory.Context(msg.UserID)
	if history == "" {
		lg.Info().Msg("follow-up without previous turns")
		return a.Texts.NothingToElaborate(lang), PathNothingToElaborate, false
	}
	prompt := "[Previous Conversation]\n" + history +
		"\n\n[Current Request]\nThe user wants more details about the previous answer: '" + msg.Text + "'" +
		"\n\nPlease provide a detailed explanation in " + string(lang) + "."

	text, reason, err := a.complete(ctx, prompt, moreInfoMaxTokens)
	if err != nil {
		return a.fallback(lg, reason, err), PathFallback, false
	}
	return text, PathMoreInfo, true
}

// products handles step 3: answer from the catalog without the model.
func (a *Assistant) products(ctx context.Context, lg zerolog.Logger, msg domain.Message, lang domain.Language, cls intent.Result) (string, string) {
	tr := otel.Tracer("services/Assistant")
	_, span := tr.Start(ctx, "products",
		trace.WithAttributes(attribute.String("target", string(cls.TargetType()))),
	)
	defer span.End()

	matches := a.Resolver.Rank(msg.Text, cls, a.Catalog.Entries())
	span.SetAttributes(attribute.Int("matches", len(matches)))
	if len(matches) == 0 {
		lg.Info().Str("target", string(cls.TargetType())).Msg("no catalog match")
		return a.Texts.NoProducts(lang), PathNoProducts
	}
	lg.Debug().Str("top", matches[0].Entry.FileID).Int("score", matches[0].Score).Msg("catalog match")
	return a.formatProducts(cls.TargetType(), lang, matches), PathProduct
}

// general handles step 4.
func (a *Assistant) general(ctx context.Context, lg zerolog.Logger, msg domain.Message, lang domain.Language) (string, string, bool) {
	info, err := a.Company.Get(ctx, lang)
	if err != nil {
		return a.fallback(lg, reasonCompanyInfo, err), PathFallback, false
	}

	var b strings.Builder
	b.WriteString("[Company Info (" + string(lang) + ")]\n")
	b.WriteString(info)
	if history := a.Memory.Context(msg.UserID); history != "" {
		b.WriteString("\n\n[Previous Conversation]\n")
		b.WriteString(history)
	}
	b.WriteString("\n\n[User's Question]\n")
	b.WriteString(msg.Text)

	text, reason, err := a.complete(ctx, b.String(), generalMaxTokens)
	if err != nil {
		return a.fallback(lg, reason, err), PathFallback, false
	}
	return text, PathGeneral, true
}

func (a *Assistant) tokenBudget(def int) int {
	if a.MaxTokens > 0 && a.MaxTokens < def {
		return a.MaxTokens
	}
	return def
}

// complete calls the model and applies the minimum-length rule. On error
// it also returns the fallback reason.
func (a *Assistant) complete(ctx context.Context, prompt string, maxTokens int) (string, string, error) {
	system := a.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	text, err := a.LLM.Complete(ctx, llm.Request{
		System:      system,
		User:        prompt,
		MaxTokens:   a.tokenBudget(maxTokens),
		Temperature: a.Temperature,
	})
	if err != nil {
		return "", reasonLLMError, err
	}
	text = strings.TrimSpace(text)
	minRunes := a.MinAnswerRunes
	if minRunes <= 0 {
		minRunes = DefaultMinAnswerRunes
	}
	if utf8.RuneCountInString(text) < minRunes {
		return "", reasonShortAnswer, fmt.Errorf("%w: %d runes", ErrShortAnswer, utf8.RuneCountInString(text))
	}
	return text, "", nil
}

func (a *Assistant) formatProducts(ft domain.FileType, lang domain.Language, matches []domain.ScoredMatch) string {
	var b strings.Builder
	b.WriteString(a.Texts.Header(ft, lang))

	// show the top match and any close runner-up
	floor := matches[0].Score / 2
	for i, m := range matches {
		if i >= maxProductsShown || (i > 0 && m.Score <= floor) {
			break
		}
		b.WriteString("\n\n🔹 ")
		b.WriteString(search.ProductName(m.Entry.FileID))
		b.WriteString("\n")
		b.WriteString(search.FormatRows(m.Entry.Content))
	}
	body, _ := CapLength(b.String(), a.MaxReplyRunes, a.Texts.MoreInfoHint(lang))
	return body + "\n\n" + a.Texts.ContactLine(lang)
}

func (a *Assistant) fallback(lg zerolog.Logger, reason string, err error) string {
	observability.Fallbacks.WithLabelValues(reason).Inc()
	ev := lg.Warn()
	if reason == reasonPanic || (reason == reasonLLMError && !errors.Is(err, context.DeadlineExceeded)) {
		ev = lg.Error()
	}
	ev.Err(err).Str("reason", reason).Msg("fallback reply")
	return a.Texts.Fallback()
}

func (a *Assistant) audit(msg domain.Message, r Reply) {
	if a.Audit == nil {
		return
	}
	a.Audit.Append(domain.AuditRecord{
		UserID:   msg.UserID,
		Channel:  string(msg.Channel),
		Language: string(r.Language),
		Path:     r.Path,
		UserText: msg.Text,
		BotText:  StripTags(r.Text),
	})
}

// ReloadCatalog re-reads the catalog directory.
func (a *Assistant) ReloadCatalog(ctx context.Context) ReloadResult {
	n, err := a.Catalog.Reload(ctx)
	if err != nil {
		a.Log.Error().Err(err).Msg("catalog reload failed")
		return ReloadResult{Success: false, Count: 0}
	}
	return ReloadResult{Success: true, Count: n}
}

// ClearCaches drops the cached company info; it is reloaded on next use.
func (a *Assistant) ClearCaches() {
	a.Company.Clear()
	a.Log.Info().Msg("company info cache cleared")
}

// HealthSnapshot is read-only introspection for status endpoints.
func (a *Assistant) HealthSnapshot() domain.HealthSnapshot {
	s := domain.HealthSnapshot{
		CatalogSize:     a.Catalog.Len(),
		CachedLanguages: a.Company.Languages(),
		LLMConfigured:   a.LLM != nil,
		ActiveUsers:     a.Memory.Users(),
	}
	if t, ok := a.Catalog.LastUpdated(); ok {
		s.LastCatalogUpdate = &t
		s.Initialized = true
	}
	return s
}
