package blob

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	appcfg "github.com/fdg312/fitbot/internal/config"
)

// NewBlobStore builds an S3 store from config. It fails fast when required keys are missing.
func NewBlobStore(ctx context.Context, cfg appcfg.S3Config, log *slog.Logger) (Store, error) {
	if log == nil {
		log = slog.Default()
	}

	if !cfg.IsConfigured() {
		missing := cfg.MissingRequired()
		log.Error("blob.s3 config incomplete", "code", "s3_config_incomplete", "missing", missing)
		return nil, fmt.Errorf("S3 storage requested but missing required config: %s", strings.Join(missing, ", "))
	}

	log.Info("blob.s3 ready", "code", "s3_ready", "summary", cfg.DiagnosticsSummary())
	store, err := NewS3Store(ctx, cfg)
	if err != nil {
		log.Error("blob.s3 init failed", "error", err)
		return nil, fmt.Errorf("S3 init failed: %w", err)
	}
	return store, nil
}
