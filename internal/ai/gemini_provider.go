package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fdg312/fitbot/internal/config"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiProvider calls the generateContent REST endpoint.
type GeminiProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

func NewGeminiProvider(cfg *config.Config) *GeminiProvider {
	model := strings.TrimSpace(cfg.GeminiModel)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{
		apiKey:      cfg.GeminiAPIKey,
		model:       model,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		baseURL:     geminiBaseURL,
		httpClient:  newHTTPClient(cfg.AITimeoutSeconds),
	}
}

func (p *GeminiProvider) Name() string { return config.AIModeGemini }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", ErrMissingCredential
	}

	body, err := json.Marshal(generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens,
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("x-goog-api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	responseBody, err := doJSON(p.httpClient, httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}
