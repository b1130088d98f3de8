package ai

import (
	"context"
	"strings"
)

// MockProvider answers locally without any network call.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.HasSuffix(prompt, "Reply in English.") {
		return "Demo mode: keep logging meals and workouts, and drink water through the day. " +
			"Connect an AI provider for personal advice.", nil
	}
	return "Демо-режим: продолжайте записывать еду и тренировки и не забывайте пить воду. " +
		"Подключите AI-провайдера для персональных советов.", nil
}
