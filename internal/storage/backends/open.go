package backends

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fdg312/fitbot/internal/blob"
	"github.com/fdg312/fitbot/internal/config"
	"github.com/fdg312/fitbot/internal/storage"
	"github.com/fdg312/fitbot/internal/storage/file"
	"github.com/fdg312/fitbot/internal/storage/memory"
	"github.com/fdg312/fitbot/internal/storage/postgres"
	"github.com/fdg312/fitbot/internal/storage/redisstore"
	"github.com/fdg312/fitbot/internal/storage/s3store"
)

// Open builds the slot store selected by cfg.StorageMode and returns the resolved mode.
// In auto mode a backend that fails to connect falls back to the file store.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.SlotStore, string, error) {
	if log == nil {
		log = slog.Default()
	}

	mode := cfg.StorageMode
	if mode == config.StorageModeAuto {
		return openAuto(ctx, cfg, log)
	}

	st, err := openMode(ctx, mode, cfg, log)
	if err != nil {
		return nil, "", fmt.Errorf("STORAGE_MODE=%s: %w", mode, err)
	}
	log.Info("slot storage ready", "mode", mode)
	return st, mode, nil
}

func openAuto(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.SlotStore, string, error) {
	candidates := make([]string, 0, 2)
	if cfg.DatabaseURL != "" {
		candidates = append(candidates, config.StorageModePostgres)
	}
	if cfg.Redis.Addr != "" {
		candidates = append(candidates, config.StorageModeRedis)
	}

	for _, mode := range candidates {
		st, err := openMode(ctx, mode, cfg, log)
		if err != nil {
			log.Warn("slot storage unavailable, trying next", "mode", mode, "error", err)
			continue
		}
		log.Info("slot storage ready", "mode", mode, "auto", true)
		return st, mode, nil
	}

	st, err := openMode(ctx, config.StorageModeFile, cfg, log)
	if err != nil {
		return nil, "", err
	}
	log.Info("slot storage ready", "mode", config.StorageModeFile, "auto", true, "dir", cfg.DataDir)
	return st, config.StorageModeFile, nil
}

func openMode(ctx context.Context, mode string, cfg *config.Config, log *slog.Logger) (storage.SlotStore, error) {
	switch mode {
	case config.StorageModeMemory:
		log.Warn("in-memory slot storage, data is lost on restart")
		return memory.New(), nil

	case config.StorageModeFile:
		return file.New(cfg.DataDir)

	case config.StorageModePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
		return postgres.New(ctx, cfg.DatabaseURL)

	case config.StorageModeRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is not set")
		}
		return redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix, log)

	case config.StorageModeS3:
		bs, err := blob.NewBlobStore(ctx, cfg.S3, log)
		if err != nil {
			return nil, err
		}
		return s3store.New(bs, cfg.S3.Prefix), nil
	}
	return nil, fmt.Errorf("unsupported storage mode %q", mode)
}
