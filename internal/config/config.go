// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, rate limiting, the model endpoint, data directories, the
// messaging channel, the audit sink and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LLMConfig selects the completion endpoint. An empty APIKey leaves the
// assistant unconfigured; it then answers with the fallback text.
type LLMConfig struct {
	APIKey      string        // OPENAI_API_KEY
	Model       string        // OPENAI_MODEL
	BaseURL     string        // OPENAI_BASE_URL (compatible endpoints)
	MaxTokens   int           // LLM_MAX_TOKENS, 0 = per-call defaults
	Temperature float64       // LLM_TEMPERATURE
	Timeout     time.Duration // LLM_TIMEOUT
	RPS         float64       // LLM_RPS, 0 = unlimited
}

// CatalogConfig locates the product files.
type CatalogConfig struct {
	Dir             string        // CATALOG_DIR
	Watch           bool          // CATALOG_WATCH (fsnotify)
	RefreshInterval time.Duration // CATALOG_REFRESH_INTERVAL, 0 = off
}

type CompanyInfoConfig struct {
	Dir      string // COMPANY_INFO_DIR
	MinRunes int    // COMPANY_INFO_MIN_RUNES
}

type ReplyConfig struct {
	MaxRunes       int    // REPLY_MAX_RUNES
	MinAnswerRunes int    // MIN_ANSWER_RUNES
	ContactPhone   string // CONTACT_PHONE
	MaxInputRunes  int    // MAX_MESSAGE_RUNES
	MaxMatches     int    // REPLY_MAX_MATCHES
}

// KeywordsConfig points at optional YAML overrides of the embedded tables.
type KeywordsConfig struct {
	IntentsFile  string // KEYWORDS_FILE
	SynonymsFile string // SYNONYMS_FILE
}

type LineConfig struct {
	ChannelSecret string // LINE_CHANNEL_SECRET
	AccessToken   string // LINE_CHANNEL_ACCESS_TOKEN
	APIBase       string // LINE_API_BASE
}

// AuditConfig selects where answered exchanges are written.
type AuditConfig struct {
	Sink      string // AUDIT_SINK: sqlite|file
	Dir       string // AUDIT_DIR (file sink)
	QueueSize int    // AUDIT_QUEUE_SIZE
}

const (
	AuditSinkSQLite = "sqlite"
	AuditSinkFile   = "file"
)

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 40s, above the model timeout
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DBPath string // SQLite path (audit log, webhook deliveries)

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig
	AdminKey string // ADMIN_API_KEY; empty leaves /admin open

	// Assistant
	LLM         LLMConfig
	Catalog     CatalogConfig
	CompanyInfo CompanyInfoConfig
	Reply       ReplyConfig
	Keywords    KeywordsConfig

	// Channels
	Line        LineConfig
	DeliveryTTL time.Duration // how long webhook event ids are remembered

	Audit AuditConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 40*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DBPath: getenv("DB_PATH", "chatbot.db"),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		AdminKey: strings.TrimSpace(getenv("ADMIN_API_KEY", "")),

		LLM: LLMConfig{
			APIKey:      strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			Model:       getenv("OPENAI_MODEL", "gpt-4o"),
			BaseURL:     getenv("OPENAI_BASE_URL", ""),
			MaxTokens:   getint("LLM_MAX_TOKENS", 0),
			Temperature: getfloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getdur("LLM_TIMEOUT", 25*time.Second),
			RPS:         getfloat("LLM_RPS", 0),
		},
		Catalog: CatalogConfig{
			Dir:             getenv("CATALOG_DIR", "price_list"),
			Watch:           getbool("CATALOG_WATCH", false),
			RefreshInterval: getdur("CATALOG_REFRESH_INTERVAL", 0),
		},
		CompanyInfo: CompanyInfoConfig{
			Dir:      getenv("COMPANY_INFO_DIR", "company_info"),
			MinRunes: getint("COMPANY_INFO_MIN_RUNES", 20),
		},
		Reply: ReplyConfig{
			MaxRunes:       getint("REPLY_MAX_RUNES", 500),
			MinAnswerRunes: getint("MIN_ANSWER_RUNES", 2),
			ContactPhone:   getenv("CONTACT_PHONE", "02-159-9880"),
			MaxInputRunes:  getint("MAX_MESSAGE_RUNES", 2000),
			MaxMatches:     getint("REPLY_MAX_MATCHES", 5),
		},
		Keywords: KeywordsConfig{
			IntentsFile:  getenv("KEYWORDS_FILE", ""),
			SynonymsFile: getenv("SYNONYMS_FILE", ""),
		},

		Line: LineConfig{
			ChannelSecret: strings.TrimSpace(getenv("LINE_CHANNEL_SECRET", "")),
			AccessToken:   strings.TrimSpace(getenv("LINE_CHANNEL_ACCESS_TOKEN", "")),
			APIBase:       getenv("LINE_API_BASE", "https://api.line.me"),
		},
		DeliveryTTL: getdur("DELIVERY_TTL", 24*time.Hour),

		Audit: AuditConfig{
			Sink:      strings.ToLower(getenv("AUDIT_SINK", AuditSinkSQLite)),
			Dir:       getenv("AUDIT_DIR", "logs"),
			QueueSize: getint("AUDIT_QUEUE_SIZE", 256),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "support-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.LLM.Timeout <= 0 {
		return cfg, errors.New("LLM_TIMEOUT must be > 0")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return cfg, errors.New("LLM_TEMPERATURE must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 0 || cfg.LLM.RPS < 0 {
		return cfg, errors.New("LLM_MAX_TOKENS and LLM_RPS must be >= 0")
	}
	if strings.TrimSpace(cfg.Catalog.Dir) == "" {
		return cfg, errors.New("CATALOG_DIR must not be empty")
	}
	if cfg.Catalog.RefreshInterval < 0 {
		return cfg, errors.New("CATALOG_REFRESH_INTERVAL must be >= 0")
	}
	if strings.TrimSpace(cfg.CompanyInfo.Dir) == "" {
		return cfg, errors.New("COMPANY_INFO_DIR must not be empty")
	}
	if cfg.Reply.MaxRunes < 1 || cfg.Reply.MaxInputRunes < 1 || cfg.Reply.MaxMatches < 1 {
		return cfg, errors.New("REPLY_MAX_RUNES, MAX_MESSAGE_RUNES and REPLY_MAX_MATCHES must be >= 1")
	}
	if cfg.DeliveryTTL <= 0 {
		return cfg, errors.New("DELIVERY_TTL must be > 0")
	}
	switch cfg.Audit.Sink {
	case AuditSinkSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case AuditSinkFile:
		if strings.TrimSpace(cfg.Audit.Dir) == "" {
			return cfg, errors.New("AUDIT_DIR must not be empty")
		}
	default:
		return cfg, errors.New("AUDIT_SINK must be one of: sqlite, file")
	}
	if cfg.Audit.QueueSize < 1 {
		return cfg, errors.New("AUDIT_QUEUE_SIZE must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
