// Command server runs the support assistant: web chat, messaging webhook and
// admin endpoints over one HTTP listener.
//
//	@title			Support Bot API
//	@version		1.0
//	@description	Multilingual retail support assistant.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/saboothailand/support-bot/internal/audit"
	"github.com/saboothailand/support-bot/internal/catalog"
	"github.com/saboothailand/support-bot/internal/companyinfo"
	"github.com/saboothailand/support-bot/internal/config"
	httpapi "github.com/saboothailand/support-bot/internal/http"
	"github.com/saboothailand/support-bot/internal/http/handlers"
	"github.com/saboothailand/support-bot/internal/intent"
	"github.com/saboothailand/support-bot/internal/keywords"
	"github.com/saboothailand/support-bot/internal/line"
	"github.com/saboothailand/support-bot/internal/llm"
	"github.com/saboothailand/support-bot/internal/locale"
	"github.com/saboothailand/support-bot/internal/memory"
	"github.com/saboothailand/support-bot/internal/observability"
	"github.com/saboothailand/support-bot/internal/repo"
	"github.com/saboothailand/support-bot/internal/search"
	"github.com/saboothailand/support-bot/internal/services"
	"github.com/saboothailand/support-bot/internal/sysutil"
)

// version is set with -ldflags "-X main.version=...".
var version = ""

const purgeInterval = time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	lg := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	ver := sysutil.FirstNonEmpty(version, os.Getenv("APP_VERSION"), "dev")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		lg.Fatal().Err(err).Msg("otel setup failed")
	}

	fs := afero.NewOsFs()

	table := keywords.Default()
	if cfg.Keywords.IntentsFile != "" || cfg.Keywords.SynonymsFile != "" {
		if table, err = keywords.Load(fs, cfg.Keywords.IntentsFile, cfg.Keywords.SynonymsFile); err != nil {
			lg.Fatal().Err(err).Msg("keyword tables")
		}
	}

	var db *gorm.DB
	if cfg.DBPath != "" {
		if db, err = repo.OpenSQLite(cfg.DBPath); err != nil {
			lg.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		if err := repo.AutoMigrate(db); err != nil {
			lg.Fatal().Err(err).Msg("migrate database")
		}
	}

	var sink audit.Sink
	switch {
	case cfg.Audit.Sink == config.AuditSinkFile:
		sink = &audit.FileSink{Fs: fs, Dir: cfg.Audit.Dir}
	case db != nil:
		sink = audit.DBSink{DB: db}
	}
	var auditLog *audit.Logger
	if sink != nil {
		auditLog = audit.New(sink, cfg.Audit.QueueSize, lg.With().Str("component", "audit").Logger())
	}

	bot := &services.Assistant{
		Catalog:        catalog.New(fs, cfg.Catalog.Dir, lg.With().Str("component", "catalog").Logger()),
		Company:        companyinfo.NewCache(fs, cfg.CompanyInfo.Dir, cfg.CompanyInfo.MinRunes, lg.With().Str("component", "companyinfo").Logger()),
		Memory:         memory.New(memory.DefaultCapacity, memory.DefaultWindow),
		Classifier:     intent.New(table),
		Resolver:       search.NewResolver(table, search.WithLimit(cfg.Reply.MaxMatches)),
		Texts:          locale.New(cfg.Reply.ContactPhone, ""),
		Log:            lg.With().Str("component", "assistant").Logger(),
		Temperature:    float32(cfg.LLM.Temperature),
		MaxTokens:      cfg.LLM.MaxTokens,
		MaxReplyRunes:  cfg.Reply.MaxRunes,
		MinAnswerRunes: cfg.Reply.MinAnswerRunes,
	}
	if auditLog != nil {
		bot.Audit = auditLog
	}
	model, err := llm.NewOpenAI(llm.Options{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
		RPS:     cfg.LLM.RPS,
	})
	switch {
	case err == nil:
		bot.LLM = model
		lg.Info().Str("model", model.Model()).Msg("language model configured")
	case errors.Is(err, llm.ErrNotConfigured):
		lg.Warn().Msg("OPENAI_API_KEY not set; replies fall back to the contact message")
	default:
		lg.Fatal().Err(err).Msg("language model")
	}
	bot.Init(ctx)

	var replier handlers.Replier
	lc, err := line.NewClient(cfg.Line.AccessToken, cfg.Line.APIBase)
	switch {
	case err == nil:
		replier = lc
	case errors.Is(err, line.ErrNotConfigured):
		lg.Warn().Msg("LINE_CHANNEL_ACCESS_TOKEN not set; webhook events are answered but not delivered")
	default:
		lg.Fatal().Err(err).Msg("line client")
	}
	if cfg.Line.ChannelSecret == "" {
		lg.Warn().Msg("LINE_CHANNEL_SECRET not set; webhook signatures are not verified")
	}
	if cfg.AdminKey == "" {
		lg.Warn().Msg("ADMIN_API_KEY not set; /admin endpoints are open")
	}

	if cfg.Catalog.Watch || cfg.Catalog.RefreshInterval > 0 {
		lg.Info().Str("dir", bot.Catalog.Dir()).Dur("refresh", cfg.Catalog.RefreshInterval).Msg("watching catalog")
		go func() {
			if err := bot.Catalog.Watch(ctx, cfg.Catalog.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error().Err(err).Msg("catalog watch stopped")
			}
		}()
	}
	if db != nil {
		go purgeDeliveries(ctx, db, lg)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, handlers.New(bot, db, replier, handlers.Options{
		LineSecret:      cfg.Line.ChannelSecret,
		DeliveryTTL:     cfg.DeliveryTTL,
		MaxMessageRunes: cfg.Reply.MaxInputRunes,
	}), cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		lg.Info().Str("addr", srv.Addr).Str("version", ver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	lg.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("http shutdown")
	}
	if auditLog != nil {
		if err := auditLog.Close(shutdownCtx); err != nil {
			lg.Error().Err(err).Msg("audit drain incomplete")
		}
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("otel shutdown")
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// purgeDeliveries drops expired webhook event ids until ctx is done.
func purgeDeliveries(ctx context.Context, db *gorm.DB, lg zerolog.Logger) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredDeliveries(ctx, db, now)
			if err != nil {
				lg.Warn().Err(err).Msg("purge deliveries")
				continue
			}
			if n > 0 {
				lg.Debug().Int64("rows", n).Msg("purged expired deliveries")
			}
		}
	}
}
