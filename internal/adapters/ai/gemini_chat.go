package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"orquestra/pkg/errors"
)

// Ensure GeminiProvider implements ChatProvider
var _ ChatProvider = (*GeminiProvider)(nil)

// Chat sends a chat completion request through the Gemini SDK.
func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if p.apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini API key not configured")
	}

	// Wait for rate limiter
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{
			Provider: ProviderNameGoogle,
			Limit:    p.rateLimiter.Limit(),
			Err:      err,
		}
	}

	client, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}

	contents, config := convertToGemini(req)

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExternal, "gemini API error: %v", err)
	}

	return convertFromGemini(req.Model, resp), nil
}

// convertToGemini splits our request into genai contents and generation
// config. System messages become the system instruction; tool results become
// function responses paired by call ID and tool name.
func convertToGemini(req ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}

	if req.Temperature != 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.TopP != 0 {
		config.TopP = genai.Ptr(float32(req.TopP))
	}
	if req.MaxTokens != 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(req.Messages))

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)

		case RoleAssistant:
			content := &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{}}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				var args map[string]any
				_ = json.Unmarshal([]byte(tc.Function.Arguments), &args) // Ignore unmarshal errors
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Function.Name,
						Args: args,
					},
				})
			}
			if len(content.Parts) > 0 {
				contents = append(contents, content)
			}

		case RoleTool:
			var response map[string]any
			if err := json.Unmarshal([]byte(msg.Content), &response); err != nil {
				response = map[string]any{"result": msg.Content}
			}
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.ToolCallID,
						Name:     msg.Name,
						Response: response,
					},
				}},
			})

		default:
			// Gemini has no per-message name field, fold the speaker into the text
			text := msg.Content
			if msg.Name != "" {
				text = msg.Name + ": " + text
			}
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: text}},
			})
		}
	}

	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, tool := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  schemaFromMap(tool.Function.Parameters),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return contents, config
}

// convertFromGemini converts a genai response to our format.
func convertFromGemini(model string, resp *genai.GenerateContentResponse) *ChatResponse {
	chatResp := &ChatResponse{Model: model}

	if resp.UsageMetadata != nil {
		chatResp.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	for i, candidate := range resp.Candidates {
		msg := Message{Role: RoleAssistant}
		var textParts []string

		if candidate.Content != nil {
			for j, part := range candidate.Content.Parts {
				if part.Text != "" {
					textParts = append(textParts, part.Text)
				}
				if part.FunctionCall != nil {
					argsBytes, _ := json.Marshal(part.FunctionCall.Args)
					id := part.FunctionCall.ID
					if id == "" {
						id = fmt.Sprintf("call_%d_%d", i, j)
					}
					msg.ToolCalls = append(msg.ToolCalls, ToolCall{
						ID:   id,
						Type: "function",
						Function: FunctionCall{
							Name:      part.FunctionCall.Name,
							Arguments: string(argsBytes),
						},
					})
				}
			}
		}

		msg.Content = strings.Join(textParts, "\n")

		// Gemini reports STOP even when the candidate carries function calls
		finishReason := FinishReasonStop
		switch {
		case len(msg.ToolCalls) > 0:
			finishReason = FinishReasonToolCalls
		case candidate.FinishReason == genai.FinishReasonMaxTokens:
			finishReason = FinishReasonLength
		}

		chatResp.Choices = append(chatResp.Choices, Choice{
			Index:        i,
			Message:      msg,
			FinishReason: finishReason,
		})
	}

	return chatResp
}

// schemaFromMap converts a JSON Schema object into a genai.Schema. Only the
// subset used by tool parameter schemas is mapped: type, description,
// properties, required, items and enum.
func schemaFromMap(m map[string]interface{}) *genai.Schema {
	if m == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	schema := &genai.Schema{}

	if t, ok := m["type"].(string); ok {
		schema.Type = schemaTypeFromString(t)
	} else {
		schema.Type = genai.TypeObject
	}

	if desc, ok := m["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := m["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			propMap, ok := prop.(map[string]interface{})
			if !ok {
				continue
			}
			schema.Properties[name] = schemaFromMap(propMap)
		}
	}

	if required, ok := m["required"].([]interface{}); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	} else if required, ok := m["required"].([]string); ok {
		schema.Required = required
	}

	if items, ok := m["items"].(map[string]interface{}); ok {
		schema.Items = schemaFromMap(items)
	}

	if enum, ok := m["enum"].([]interface{}); ok {
		for _, e := range enum {
			if s, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	} else if enum, ok := m["enum"].([]string); ok {
		schema.Enum = enum
	}

	return schema
}

func schemaTypeFromString(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeObject
	}
}
