package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/fitbot/internal/ai"
	"github.com/fdg312/fitbot/internal/config"
	"github.com/fdg312/fitbot/internal/dbmigrate"
	"github.com/fdg312/fitbot/internal/httpserver"
	"github.com/fdg312/fitbot/internal/logging"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/storage/backends"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("FATAL config", "error", err)
		os.Exit(1)
	}

	log, closer := logging.New(logging.Params{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer closer.Close()
	slog.SetDefault(log)

	printStartupBanner(log, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("FATAL", "error", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.RunMigrationsOnStartup && usesPostgres(cfg) {
		sel, err := dbmigrate.StartupSelection(cfg)
		if err != nil {
			return err
		}
		if sel.Warning != "" {
			log.Warn("startup migrations", "warning", sel.Warning)
		}
		log.Info("startup migrations", "command", "up", "using", sel.Source)
		if err := dbmigrate.Run(ctx, "up", sel.URL, "", log); err != nil {
			return err
		}
	}

	store, mode, err := backends.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr := state.New(store,
		state.WithLogger(log.With("component", "state")),
		state.WithRetries(cfg.StorageSaveRetries),
	)
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := mgr.Load(loadCtx); err != nil {
		return err
	}

	summarizer := ai.NewSummarizer(
		ai.NewProvider(cfg),
		time.Duration(cfg.AITimeoutSeconds)*time.Second,
		log.With("component", "ai"),
	)

	server := httpserver.New(cfg, httpserver.Deps{
		State:      mgr,
		Summarizer: summarizer,
		Log:        log,
	})
	log.Info("fitbot ready", "storage", mode, "onboarded", mgr.IsOnboarded())
	return server.Start(ctx)
}

func usesPostgres(cfg *config.Config) bool {
	switch cfg.StorageMode {
	case config.StorageModePostgres:
		return true
	case config.StorageModeAuto:
		return cfg.DatabaseURL != ""
	}
	return false
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are only reported as "set" / "not set".
func printStartupBanner(log *slog.Logger, cfg *config.Config) {
	log.Info("========== FitBot API ==========")
	log.Info("app", "env", cfg.Env, "port", cfg.Port, "log_level", cfg.LogLevel, "log_file", config.NonEmptyOrDash(cfg.LogFile))

	// ---- Storage ----
	log.Info("storage",
		"mode", cfg.StorageMode,
		"data_dir", config.NonEmptyOrDash(cfg.DataDir),
		"save_retries", cfg.StorageSaveRetries,
	)
	log.Info("database",
		"runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled),
		"direct", config.SetOrNot(cfg.DatabaseURLDirect),
		"migrations_on_startup", cfg.RunMigrationsOnStartup,
	)
	log.Info("redis", "addr", config.NonEmptyOrDash(cfg.Redis.Addr), "password", config.SetOrNot(cfg.Redis.Password), "db", cfg.Redis.DB)
	if cfg.StorageMode == config.StorageModeS3 {
		log.Info("s3", "config", cfg.S3.DiagnosticsSummary())
	}

	// ---- AI ----
	switch cfg.AIMode {
	case config.AIModeOpenAI:
		log.Info("ai", "mode", cfg.AIMode, "model", cfg.OpenAIModel, "api_key", config.SetOrNot(cfg.OpenAIAPIKey), "timeout_s", cfg.AITimeoutSeconds)
	case config.AIModeGemini:
		log.Info("ai", "mode", cfg.AIMode, "model", cfg.GeminiModel, "api_key", config.SetOrNot(cfg.GeminiAPIKey), "timeout_s", cfg.AITimeoutSeconds)
	default:
		log.Info("ai", "mode", cfg.AIMode)
	}

	log.Info("http", "cors_origins", len(cfg.CORSAllowedOrigins), "rate_limit_rps", cfg.RateLimitRPS)
	log.Info("================================")
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
