package ai

import (
	"testing"

	"google.golang.org/genai"
)

func TestConvertToGeminiSplitsSystemInstruction(t *testing.T) {
	req := ChatRequest{
		Model:       "gemini-1.5-flash",
		Temperature: 0.2,
		MaxTokens:   1024,
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a price analyst."},
			{Role: RoleUser, Content: "How is PETR4 performing?"},
			{Role: RoleAssistant, Content: "", ToolCalls: []ToolCall{{
				ID:   "call_1",
				Type: "function",
				Function: FunctionCall{
					Name:      "get_quote",
					Arguments: `{"ticker":"PETR4"}`,
				},
			}}},
			{Role: RoleTool, Name: "get_quote", ToolCallID: "call_1", Content: `{"close":38.2}`},
		},
	}

	contents, config := convertToGemini(req)

	if config.SystemInstruction == nil {
		t.Fatal("expected system instruction")
	}
	if config.SystemInstruction.Parts[0].Text != "You are a price analyst." {
		t.Fatalf("unexpected system text %q", config.SystemInstruction.Parts[0].Text)
	}
	if config.MaxOutputTokens != 1024 {
		t.Fatalf("expected max tokens 1024, got %d", config.MaxOutputTokens)
	}

	// system message is excluded from contents
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}

	if contents[0].Role != genai.RoleUser {
		t.Fatalf("expected user role, got %s", contents[0].Role)
	}

	fc := contents[1].Parts[0].FunctionCall
	if fc == nil || fc.Name != "get_quote" {
		t.Fatalf("expected function call part, got %+v", contents[1].Parts[0])
	}
	if fc.Args["ticker"] != "PETR4" {
		t.Fatalf("unexpected args %+v", fc.Args)
	}

	fr := contents[2].Parts[0].FunctionResponse
	if fr == nil || fr.Name != "get_quote" || fr.ID != "call_1" {
		t.Fatalf("expected function response part, got %+v", contents[2].Parts[0])
	}
}

func TestConvertToGeminiFoldsSpeakerIntoText(t *testing.T) {
	req := ChatRequest{
		Messages: []Message{
			{Role: RoleUser, Name: "supervisor", Content: "Routing query to: price_analyst"},
		},
	}

	contents, _ := convertToGemini(req)

	if got := contents[0].Parts[0].Text; got != "supervisor: Routing query to: price_analyst" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestConvertFromGeminiToolCalls(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					{Text: "Checking the quote."},
					{FunctionCall: &genai.FunctionCall{Name: "get_quote", Args: map[string]any{"ticker": "VALE3"}}},
				},
			},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 20,
			TotalTokenCount:      120,
		},
	}

	chatResp := convertFromGemini("gemini-1.5-flash", resp)

	if len(chatResp.Choices) != 1 {
		t.Fatalf("expected 1 choice, got %d", len(chatResp.Choices))
	}

	choice := chatResp.Choices[0]
	if choice.FinishReason != FinishReasonToolCalls {
		t.Fatalf("expected tool_calls finish reason, got %s", choice.FinishReason)
	}

	if len(choice.Message.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(choice.Message.ToolCalls))
	}

	tc := choice.Message.ToolCalls[0]
	if tc.Function.Name != "get_quote" {
		t.Fatalf("unexpected tool name %s", tc.Function.Name)
	}
	if tc.ID == "" {
		t.Fatal("expected synthesized tool call ID")
	}

	if chatResp.Usage.TotalTokens != 120 {
		t.Fatalf("unexpected usage %+v", chatResp.Usage)
	}
}

func TestSchemaFromMap(t *testing.T) {
	m := map[string]interface{}{
		"type":        "object",
		"description": "quote lookup",
		"properties": map[string]interface{}{
			"ticker": map[string]interface{}{
				"type":        "string",
				"description": "B3 ticker symbol",
			},
			"range": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"1d", "5d", "1mo"},
			},
			"tickers": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []interface{}{"ticker"},
	}

	schema := schemaFromMap(m)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected object type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["ticker"].Type != genai.TypeString {
		t.Fatalf("expected string ticker, got %s", schema.Properties["ticker"].Type)
	}
	if len(schema.Properties["range"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["range"].Enum))
	}
	if schema.Properties["tickers"].Items == nil || schema.Properties["tickers"].Items.Type != genai.TypeString {
		t.Fatal("expected string array items")
	}
	if len(schema.Required) != 1 || schema.Required[0] != "ticker" {
		t.Fatalf("unexpected required %+v", schema.Required)
	}
}
