package ai

import (
	"github.com/fdg312/fitbot/internal/config"
)

// NewProvider picks the provider for cfg.AIMode. Unknown modes get the mock.
func NewProvider(cfg *config.Config) Provider {
	switch cfg.AIMode {
	case config.AIModeOpenAI:
		return NewOpenAIProvider(cfg)
	case config.AIModeGemini:
		return NewGeminiProvider(cfg)
	default:
		return NewMockProvider()
	}
}
