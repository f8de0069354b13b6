package ai

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"orquestra/pkg/errors"
)

// GeminiProvider implements Google Gemini metadata. Unlike the HTTP-level
// providers it talks through the official genai SDK, so the client is built
// lazily on first use (SDK construction wants a context).
type GeminiProvider struct {
	apiKey      string
	timeout     time.Duration
	rateLimiter RateLimiter
	models      []ModelInfo

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey string, timeout time.Duration, limiter RateLimiter) *GeminiProvider {
	if limiter == nil {
		limiter = NewNoOpLimiter()
	}
	return &GeminiProvider{apiKey: apiKey, timeout: timeout, rateLimiter: limiter, models: geminiModels()}
}

// Name returns provider name.
func (p *GeminiProvider) Name() string { return "gemini" }

// GetModel returns model info by name.
func (p *GeminiProvider) GetModel(_ context.Context, model string) (ModelInfo, error) {
	for _, m := range p.models {
		if strings.EqualFold(m.Name, model) {
			return m, nil
		}
	}
	return ModelInfo{}, errors.Wrapf(errors.ErrNotFound, "gemini model %s not found", model)
}

// ListModels lists available models.
func (p *GeminiProvider) ListModels(_ context.Context) ([]ModelInfo, error) {
	return p.models, nil
}

// SupportsTools indicates tool calling support.
func (p *GeminiProvider) SupportsTools() bool { return true }

func (p *GeminiProvider) conn(ctx context.Context) (*genai.Client, error) {
	p.initOnce.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     p.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: p.timeout},
		})
	})
	if p.initErr != nil {
		return nil, errors.Wrap(p.initErr, "create gemini client")
	}
	return p.client, nil
}

func geminiModels() []ModelInfo {
	return []ModelInfo{
		{
			Provider:        ProviderNameGoogle,
			Name:            "gemini-1.5-flash",
			Family:          "gemini-1.5",
			MaxTokens:       1000000,
			InputCostPer1K:  0.0002,
			OutputCostPer1K: 0.0004,
			SupportsTools:   true,
		},
		{
			Provider:        ProviderNameGoogle,
			Name:            "gemini-1.5-pro",
			Family:          "gemini-1.5",
			MaxTokens:       2000000,
			InputCostPer1K:  0.0035,
			OutputCostPer1K: 0.0105,
			SupportsTools:   true,
		},
	}
}
