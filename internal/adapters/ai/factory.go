package ai

import (
	"strings"
	"time"

	"orquestra/internal/adapters/config"
	"orquestra/pkg/errors"
)

// BuildRegistry initializes a ProviderRegistry with one provider per
// configured API key. Each provider gets its own token bucket sized from
// DefaultRateLimits, optionally tightened by AI_RATE_LIMIT_RPM.
func BuildRegistry(cfg config.AIConfig) (*ProviderRegistry, error) {
	registry := NewProviderRegistry()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout()
	}

	limits := DefaultRateLimits()
	limiterFor := func(name ProviderName) RateLimiter {
		lc := limits[name]
		if cfg.RateLimitRPM > 0 {
			rpm := float64(cfg.RateLimitRPM)
			if !lc.Enabled || rpm < lc.ReqPerMinute {
				lc.Enabled = true
				lc.ReqPerMinute = rpm
				lc.Burst = 0 // re-derive burst from the tightened rate
			}
		}
		return GetRateLimiter(name, lc)
	}

	if cfg.ClaudeKey != "" {
		if err := registry.Register(NewClaudeProvider(cfg.ClaudeKey, timeout, limiterFor(ProviderNameAnthropic))); err != nil {
			return nil, err
		}
	}

	if cfg.OpenAIKey != "" {
		if err := registry.Register(NewOpenAIProvider(cfg.OpenAIKey, timeout, limiterFor(ProviderNameOpenAI))); err != nil {
			return nil, err
		}
	}

	if cfg.DeepSeekKey != "" {
		if err := registry.Register(NewDeepSeekProvider(cfg.DeepSeekKey, timeout, limiterFor(ProviderNameDeepSeek))); err != nil {
			return nil, err
		}
	}

	if cfg.GeminiKey != "" {
		if err := registry.Register(NewGeminiProvider(cfg.GeminiKey, timeout, limiterFor(ProviderNameGoogle))); err != nil {
			return nil, err
		}
	}

	if len(registry.List()) == 0 {
		return nil, errors.Wrap(errors.ErrUnavailable, "no AI provider keys configured")
	}

	return registry, nil
}

func defaultTimeout() time.Duration {
	return 60 * time.Second
}

// NormalizeProviderName makes provider lookup more forgiving.
func NormalizeProviderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
