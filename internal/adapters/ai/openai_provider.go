package ai

import (
	"context"
	"strings"
	"time"

	"orquestra/pkg/errors"
)

// OpenAIProvider implements OpenAI metadata.
type OpenAIProvider struct {
	apiKey      string
	timeout     time.Duration
	rateLimiter RateLimiter
	models      []ModelInfo
}

// NewOpenAIProvider creates a new OpenAI provider instance.
func NewOpenAIProvider(apiKey string, timeout time.Duration, limiter RateLimiter) *OpenAIProvider {
	if limiter == nil {
		limiter = NewNoOpLimiter()
	}
	return &OpenAIProvider{apiKey: apiKey, timeout: timeout, rateLimiter: limiter, models: openAIModels()}
}

// Name returns provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// GetModel returns model info by name.
func (p *OpenAIProvider) GetModel(_ context.Context, model string) (ModelInfo, error) {
	for _, m := range p.models {
		if strings.EqualFold(m.Name, model) {
			return m, nil
		}
	}
	return ModelInfo{}, errors.Wrapf(errors.ErrNotFound, "openai model %s not found", model)
}

// ListModels lists available models.
func (p *OpenAIProvider) ListModels(_ context.Context) ([]ModelInfo, error) {
	return p.models, nil
}

// SupportsTools indicates tool calling support.
func (p *OpenAIProvider) SupportsTools() bool { return true }

func openAIModels() []ModelInfo {
	return []ModelInfo{
		{
			Provider:        ProviderNameOpenAI,
			Name:            "gpt-4o-mini",
			Family:          "gpt-4o",
			MaxTokens:       128000,
			InputCostPer1K:  0.00015,
			OutputCostPer1K: 0.0006,
			SupportsTools:   true,
		},
		{
			Provider:        ProviderNameOpenAI,
			Name:            "gpt-4o",
			Family:          "gpt-4o",
			MaxTokens:       128000,
			InputCostPer1K:  0.0025,
			OutputCostPer1K: 0.01,
			SupportsTools:   true,
		},
		{
			Provider:        ProviderNameOpenAI,
			Name:            "o1-mini",
			Family:          "o1",
			MaxTokens:       65536,
			InputCostPer1K:  0.008,
			OutputCostPer1K: 0.008,
			SupportsTools:   true,
		},
	}
}
