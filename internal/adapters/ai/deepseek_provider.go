package ai

import (
	"context"
	"strings"
	"time"

	"orquestra/pkg/errors"
)

// DeepSeekProvider implements DeepSeek metadata.
type DeepSeekProvider struct {
	apiKey      string
	timeout     time.Duration
	rateLimiter RateLimiter
	models      []ModelInfo
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey string, timeout time.Duration, limiter RateLimiter) *DeepSeekProvider {
	if limiter == nil {
		limiter = NewNoOpLimiter()
	}
	return &DeepSeekProvider{apiKey: apiKey, timeout: timeout, rateLimiter: limiter, models: deepSeekModels()}
}

// Name returns provider name.
func (p *DeepSeekProvider) Name() string { return "deepseek" }

// GetModel returns model info by name.
func (p *DeepSeekProvider) GetModel(_ context.Context, model string) (ModelInfo, error) {
	for _, m := range p.models {
		if strings.EqualFold(m.Name, model) {
			return m, nil
		}
	}
	return ModelInfo{}, errors.Wrapf(errors.ErrNotFound, "deepseek model %s not found", model)
}

// ListModels lists available models.
func (p *DeepSeekProvider) ListModels(_ context.Context) ([]ModelInfo, error) {
	return p.models, nil
}

// SupportsTools indicates tool calling support.
func (p *DeepSeekProvider) SupportsTools() bool { return true }

func deepSeekModels() []ModelInfo {
	return []ModelInfo{
		{
			Provider:        ProviderNameDeepSeek,
			Name:            "deepseek-reasoner",
			Family:          "deepseek",
			MaxTokens:       64000,
			InputCostPer1K:  0.00014,
			OutputCostPer1K: 0.00028,
			SupportsTools:   true,
		},
		{
			Provider:        ProviderNameDeepSeek,
			Name:            "deepseek-chat",
			Family:          "deepseek",
			MaxTokens:       64000,
			InputCostPer1K:  0.00007,
			OutputCostPer1K: 0.00014,
			SupportsTools:   true,
		},
	}
}
