package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageModeMemory   = "memory"
	StorageModeFile     = "file"
	StorageModePostgres = "postgres"
	StorageModeRedis    = "redis"
	StorageModeS3       = "s3"
	StorageModeAuto     = "auto"

	AIModeMock   = "mock"
	AIModeOpenAI = "openai"
	AIModeGemini = "gemini"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s prefix=%s access_key_id=%s secret_access_key=%s",
		NonEmptyOrDash(c.Endpoint),
		NonEmptyOrDash(c.Region),
		NonEmptyOrDash(c.Bucket),
		NonEmptyOrDash(c.Prefix),
		SetOrNot(c.AccessKeyID),
		SetOrNot(c.SecretAccessKey),
	)
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int `validate:"gte=0"`
	KeyPrefix string
}

// Config содержит конфигурацию приложения
type Config struct {
	Env       string // local | staging | production
	Port      int    `validate:"gt=0,lte=65535"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
	LogFile   string

	// Slot storage
	StorageMode        string `validate:"oneof=memory file postgres redis s3 auto"`
	DataDir            string
	StorageSaveRetries int `validate:"gte=0,lte=10"`

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	Redis RedisConfig
	S3    S3Config

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int `validate:"gte=0"`
	RateLimitBurst int `validate:"gte=0"`
	// X-Forwarded-For is honoured only when the peer is one of these IPs / CIDRs
	TrustedProxies []string `validate:"dive,ip|cidr"`

	// AI
	AIMode            string `validate:"oneof=mock openai gemini"`
	AIMaxOutputTokens int    `validate:"gt=0"`
	AITemperature     float64
	AITimeoutSeconds  int `validate:"gt=0"`
	OpenAIAPIKey      string
	OpenAIModel       string
	GeminiAPIKey      string
	GeminiModel       string

	WaterStepML int `validate:"gt=0"`

	// Migrations
	RunMigrationsOnStartup bool
}

// AIKeyConfigured reports whether the selected AI mode has its credential.
func (c *Config) AIKeyConfigured() bool {
	switch c.AIMode {
	case AIModeOpenAI:
		return c.OpenAIAPIKey != ""
	case AIModeGemini:
		return c.GeminiAPIKey != ""
	}
	return true
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "local")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("storage_mode", StorageModeFile)
	v.SetDefault("data_dir", "data")
	v.SetDefault("storage_save_retries", 2)
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key_prefix", "fitbot:")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_prefix", "fitbot/")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 0)
	v.SetDefault("ai_mode", AIModeMock)
	v.SetDefault("ai_max_output_tokens", 300)
	v.SetDefault("ai_temperature", 0.7)
	v.SetDefault("ai_timeout_seconds", 20)
	v.SetDefault("openai_model", "gpt-4.1-mini")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("water_step_ml", 250)
}

// Load загружает конфигурацию из переменных окружения и, если задан CONFIG_FILE, из файла.
// Unknown enum values fall back to defaults with a warning; the result is validated.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString("config_file")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := strings.TrimSpace(v.GetString("app_env"))
	if env == "" {
		env = "local"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(v.GetString("database_url_pooled"))
	dbURL := strings.TrimSpace(v.GetString("database_url"))
	dbDirect := strings.TrimSpace(v.GetString("database_url_direct"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	storageMode := parseEnum(v, "storage_mode", StorageModeFile,
		StorageModeMemory, StorageModeFile, StorageModePostgres, StorageModeRedis, StorageModeS3, StorageModeAuto)

	aiMode := parseEnum(v, "ai_mode", AIModeMock, AIModeMock, AIModeOpenAI, AIModeGemini)

	aiTemperature := v.GetFloat64("ai_temperature")
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}

	cfg := &Config{
		Env:       env,
		Port:      intOr(v, "port", 8080),
		LogLevel:  parseEnum(v, "log_level", "info", "debug", "info", "warn", "error"),
		LogFormat: parseEnum(v, "log_format", "text", "text", "json"),
		LogFile:   strings.TrimSpace(v.GetString("log_file")),

		StorageMode:        storageMode,
		DataDir:            strings.TrimSpace(v.GetString("data_dir")),
		StorageSaveRetries: intOr(v, "storage_save_retries", 2),

		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		Redis: RedisConfig{
			Addr:      strings.TrimSpace(v.GetString("redis_addr")),
			Password:  v.GetString("redis_password"),
			DB:        intOr(v, "redis_db", 0),
			KeyPrefix: v.GetString("redis_key_prefix"),
		},
		S3: S3Config{
			Endpoint:        strings.TrimSpace(v.GetString("s3_endpoint")),
			Region:          strings.TrimSpace(v.GetString("s3_region")),
			Bucket:          strings.TrimSpace(v.GetString("s3_bucket")),
			AccessKeyID:     strings.TrimSpace(v.GetString("s3_access_key_id")),
			SecretAccessKey: strings.TrimSpace(v.GetString("s3_secret_access_key")),
			Prefix:          strings.TrimSpace(v.GetString("s3_prefix")),
		},

		CORSAllowedOrigins:   parseCORSOrigins(v.GetString("cors_allowed_origins"), env),
		CORSAllowCredentials: parseBool(v, "cors_allow_credentials"),

		RateLimitRPS:   intOr(v, "rate_limit_rps", 0),
		RateLimitBurst: intOr(v, "rate_limit_burst", 0),
		TrustedProxies: splitList(v.GetString("trusted_proxies")),

		AIMode:            aiMode,
		AIMaxOutputTokens: positiveOr(v, "ai_max_output_tokens", 300),
		AITemperature:     aiTemperature,
		AITimeoutSeconds:  positiveOr(v, "ai_timeout_seconds", 20),
		OpenAIAPIKey:      strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIModel:       strings.TrimSpace(v.GetString("openai_model")),
		GeminiAPIKey:      geminiKey(v),
		GeminiModel:       strings.TrimSpace(v.GetString("gemini_model")),

		WaterStepML: positiveOr(v, "water_step_ml", 250),

		RunMigrationsOnStartup: parseBool(v, "run_migrations_on_startup"),
	}

	if !cfg.AIKeyConfigured() {
		slog.Warn("AI credential is not set, summaries will return the fallback text", "ai_mode", cfg.AIMode)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// geminiKey prefers GEMINI_API_KEY and accepts the bare API_KEY used by the web client.
func geminiKey(v *viper.Viper) string {
	if key := strings.TrimSpace(v.GetString("gemini_api_key")); key != "" {
		return key
	}
	return strings.TrimSpace(v.GetString("api_key"))
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil // prod: deny by default
	}

	return splitList(raw)
}

// splitList splits a comma-separated value and drops empty items.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseEnum(v *viper.Viper, key, defaultVal string, allowed ...string) string {
	val := strings.ToLower(strings.TrimSpace(v.GetString(key)))
	if val == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if val == a {
			return val
		}
	}
	slog.Warn("unknown config value, fallback to default",
		"key", strings.ToUpper(key), "value", val, "fallback", defaultVal)
	return defaultVal
}

// intOr reads an int with a default value for empty or unparsable input.
func intOr(v *viper.Viper, key string, defaultVal int) int {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("invalid integer in config, fallback to default",
			"key", strings.ToUpper(key), "value", s, "fallback", defaultVal)
		return defaultVal
	}
	return n
}

func positiveOr(v *viper.Viper, key string, defaultVal int) int {
	n := intOr(v, key, defaultVal)
	if n <= 0 {
		return defaultVal
	}
	return n
}

func parseBool(v *viper.Viper, key string) bool {
	s := strings.ToLower(strings.TrimSpace(v.GetString(key)))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// SetOrNot masks secrets in logs.
func SetOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func NonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}
