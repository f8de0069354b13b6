package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"orquestra/pkg/errors"
)

type Config struct {
	App           AppConfig
	AI            AIConfig
	Brapi         BrapiConfig
	Tavily        TavilyConfig
	Redis         RedisConfig
	Postgres      PostgresConfig
	Telegram      TelegramConfig
	ErrorTracking ErrorTrackingConfig
	Orchestrator  OrchestratorConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"orquestra"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// MetricsPort exposes /metrics while a run is in flight; 0 disables it.
	MetricsPort int `envconfig:"METRICS_PORT" default:"0"`
}

type AIConfig struct {
	OpenAIKey   string `envconfig:"OPENAI_API_KEY"`
	ClaudeKey   string `envconfig:"CLAUDE_API_KEY"`
	DeepSeekKey string `envconfig:"DEEPSEEK_API_KEY"`
	GeminiKey   string `envconfig:"GEMINI_API_KEY"`

	DefaultProvider string        `envconfig:"DEFAULT_AI_PROVIDER" default:"openai"`
	DefaultModel    string        `envconfig:"DEFAULT_AI_MODEL" default:"gpt-4o-mini"`
	RequestTimeout  time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"120s"`
	RateLimitRPM    int           `envconfig:"AI_RATE_LIMIT_RPM" default:"60"`
}

// HasAnyKey reports whether at least one provider credential is configured.
func (c AIConfig) HasAnyKey() bool {
	return c.OpenAIKey != "" || c.ClaudeKey != "" || c.DeepSeekKey != "" || c.GeminiKey != ""
}

type BrapiConfig struct {
	Token        string        `envconfig:"BRAPI_TOKEN" required:"true"`
	BaseURL      string        `envconfig:"BRAPI_BASE_URL" default:"https://brapi.dev/api"`
	Timeout      time.Duration `envconfig:"BRAPI_TIMEOUT" default:"30s"`
	RateLimitRPS float64       `envconfig:"BRAPI_RATE_LIMIT_RPS" default:"3"`
	CacheTTL     time.Duration `envconfig:"BRAPI_CACHE_TTL" default:"5m"`
}

type TavilyConfig struct {
	APIKey     string        `envconfig:"TAVILY_API_KEY"`
	BaseURL    string        `envconfig:"TAVILY_BASE_URL" default:"https://api.tavily.com"`
	Timeout    time.Duration `envconfig:"TAVILY_TIMEOUT" default:"30s"`
	MaxResults int           `envconfig:"TAVILY_MAX_RESULTS" default:"5"`
}

// Redis is optional: with no host configured the market-data cache is disabled
// and every capability call goes straight to the provider.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Postgres is optional: with no host configured the run journal is disabled.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"orquestra"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

// Telegram is optional: with a bot token and chat ID configured the final
// report is pushed to that chat when a run completes.
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Specialist failure policies (ORCH_SPECIALIST_FAILURE_POLICY).
const (
	FailurePolicyAbort = "abort"
	FailurePolicySkip  = "skip"
)

// OrchestratorConfig bounds one analysis run. The pipeline never reads the
// environment itself; this struct is built once at startup and handed in.
type OrchestratorConfig struct {
	// StepBudget caps state-machine transitions for one run.
	StepBudget int `envconfig:"ORCH_STEP_BUDGET" default:"10"`

	// MaxToolCalls caps reasoning iterations inside one specialist step.
	MaxToolCalls int `envconfig:"ORCH_MAX_TOOL_CALLS" default:"8"`

	ToolTimeout time.Duration `envconfig:"ORCH_TOOL_TIMEOUT" default:"30s"`
	RunTimeout  time.Duration `envconfig:"ORCH_RUN_TIMEOUT" default:"5m"`

	// SpecialistFailurePolicy decides whether a specialist whose reasoning
	// call fails aborts the run ("abort") or is recorded as skipped ("skip").
	SpecialistFailurePolicy string `envconfig:"ORCH_SPECIALIST_FAILURE_POLICY" default:"abort"`

	JournalEnabled bool `envconfig:"ORCH_JOURNAL_ENABLED" default:"false"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFrom behaves like Load but reads the given dotenv file first.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}
	return Load()
}

func (c *Config) validate() error {
	if c.Orchestrator.StepBudget < 1 {
		return errors.NewValidationError("ORCH_STEP_BUDGET", "must be at least 1", c.Orchestrator.StepBudget)
	}
	if c.Orchestrator.MaxToolCalls < 1 {
		return errors.NewValidationError("ORCH_MAX_TOOL_CALLS", "must be at least 1", c.Orchestrator.MaxToolCalls)
	}
	switch c.Orchestrator.SpecialistFailurePolicy {
	case FailurePolicyAbort, FailurePolicySkip:
	default:
		return errors.NewValidationError(
			"ORCH_SPECIALIST_FAILURE_POLICY",
			"must be 'abort' or 'skip'",
			c.Orchestrator.SpecialistFailurePolicy,
		)
	}
	if c.Orchestrator.JournalEnabled && !c.Postgres.Enabled() {
		return errors.NewValidationError("ORCH_JOURNAL_ENABLED", "requires POSTGRES_HOST", c.Postgres.Host)
	}
	if !c.AI.HasAnyKey() {
		return errors.Wrap(errors.ErrInvalidInput, "no AI provider key configured")
	}
	return nil
}
