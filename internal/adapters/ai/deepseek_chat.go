package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"orquestra/pkg/errors"
)

const deepseekAPIURL = "https://api.deepseek.com/v1/chat/completions"

// Ensure DeepSeekProvider implements ChatProvider
var _ ChatProvider = (*DeepSeekProvider)(nil)

// Chat sends a chat completion request to DeepSeek API.
func (p *DeepSeekProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if p.apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "deepseek API key not configured")
	}

	// Wait for rate limiter (no-op for DeepSeek by default)
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{
			Provider: ProviderNameDeepSeek,
			Limit:    p.rateLimiter.Limit(),
			Err:      err,
		}
	}

	// DeepSeek speaks the OpenAI wire format
	openAIReq := convertToOpenAI(req)

	// Marshal request
	body, err := json.Marshal(openAIReq)
	if err != nil {
		return nil, errors.Wrap(err, "marshal deepseek request")
	}

	// Create HTTP request
	httpReq, err := http.NewRequestWithContext(ctx, "POST", deepseekAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create HTTP request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	// Send request
	client := &http.Client{Timeout: p.timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send deepseek request")
	}
	defer func() { _ = resp.Body.Close() }()

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read deepseek response")
	}

	// Check status code
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			return nil, errors.Wrapf(errors.ErrExternal, "deepseek API error (%d): %s - %s",
				resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return nil, errors.Wrapf(errors.ErrExternal, "deepseek API error (%d): %s",
			resp.StatusCode, string(respBody))
	}

	// Parse response
	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return nil, errors.Wrap(err, "unmarshal deepseek response")
	}

	return convertFromOpenAI(&openAIResp), nil
}
