package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fdg312/fitbot/internal/domain"
	"github.com/fdg312/fitbot/internal/telemetry"
)

const DefaultTimeout = 20 * time.Second

var (
	emptyFallback = map[domain.Language]string{
		domain.LanguageRU: "Не удалось получить ответ.",
		domain.LanguageEN: "Could not generate response.",
	}
	errorFallback = map[domain.Language]string{
		domain.LanguageRU: "Ошибка соединения с AI. Проверьте API ключ.",
		domain.LanguageEN: "Connection error with AI. Check API key.",
	}
)

// Summarizer asks the provider for advice and always returns displayable text.
type Summarizer struct {
	provider Provider
	timeout  time.Duration
	log      *slog.Logger
}

func NewSummarizer(provider Provider, timeout time.Duration, log *slog.Logger) *Summarizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Summarizer{provider: provider, timeout: timeout, log: log}
}

// Analyze never fails: every provider error maps to a localized fallback.
func (s *Summarizer) Analyze(ctx context.Context, in SummaryInput) string {
	lang, _ := domain.ParseLanguage(string(in.Language))
	in.Language = lang

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	name := s.provider.Name()

	text, err := s.provider.Generate(ctx, BuildPrompt(in))
	text = strings.TrimSpace(text)

	switch {
	case errors.Is(err, ErrMissingCredential):
		telemetry.ObserveAI(name, telemetry.AINoCredential, started)
		s.log.Warn("ai summary skipped", "provider", name, "error", err)
		return errorFallback[lang]
	case errors.Is(err, ErrEmptyResponse) || (err == nil && text == ""):
		telemetry.ObserveAI(name, telemetry.AIEmpty, started)
		s.log.Warn("ai summary is empty", "provider", name)
		return emptyFallback[lang]
	case err != nil:
		telemetry.ObserveAI(name, telemetry.AIError, started)
		s.log.Warn("ai summary failed", "provider", name, "error", err)
		return errorFallback[lang]
	}

	telemetry.ObserveAI(name, telemetry.AIOk, started)
	return text
}
