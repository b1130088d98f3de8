package ai

import (
	"context"
	"errors"

	"github.com/fdg312/fitbot/internal/domain"
)

var (
	ErrMissingCredential = errors.New("ai credential is not configured")
	ErrEmptyResponse     = errors.New("ai response is empty")
	ErrUpstream          = errors.New("ai upstream failed")
)

// Provider turns a prompt into advice text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// SummaryInput is the snapshot sent to the coach. Totals and WorkoutsToday are for Date.
type SummaryInput struct {
	Profile       domain.UserProfile
	Date          string
	Totals        domain.Macros
	WorkoutsToday int
	Language      domain.Language
}
