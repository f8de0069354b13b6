package ai

import "testing"

func TestConvertToClaudeSeparatesSystemPrompt(t *testing.T) {
	p := NewClaudeProvider("key", defaultTimeout(), nil)

	req := ChatRequest{
		Model: "claude-3-5-haiku-latest",
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a valuation analyst."},
			{Role: RoleUser, Content: "Is VALE3 cheap?"},
			{Role: RoleUser, Name: "supervisor", Content: "Routing query to: valuation_analyst"},
			{Role: RoleTool, ToolCallID: "toolu_1", Content: `{"pe":4.1}`},
		},
	}

	claudeReq := p.convertToClaude(req)

	if claudeReq.System != "You are a valuation analyst." {
		t.Fatalf("unexpected system prompt %q", claudeReq.System)
	}
	if claudeReq.MaxTokens != 4096 {
		t.Fatalf("expected default max tokens, got %d", claudeReq.MaxTokens)
	}
	if len(claudeReq.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(claudeReq.Messages))
	}

	// Speaker name is folded into the text, Claude has no name field
	if got := claudeReq.Messages[1].Content.(string); got != "supervisor: Routing query to: valuation_analyst" {
		t.Fatalf("unexpected content %q", got)
	}

	// Tool result becomes a user message with a tool_result block
	blocks, ok := claudeReq.Messages[2].Content.([]claudeContent)
	if !ok || len(blocks) != 1 {
		t.Fatalf("expected tool_result block, got %+v", claudeReq.Messages[2].Content)
	}
	if blocks[0].Type != "tool_result" || blocks[0].ToolUseID != "toolu_1" {
		t.Fatalf("unexpected block %+v", blocks[0])
	}
}

func TestConvertFromClaudeToolUse(t *testing.T) {
	p := NewClaudeProvider("key", defaultTimeout(), nil)

	resp := &claudeResponse{
		ID:    "msg_1",
		Role:  "assistant",
		Model: "claude-3-5-haiku-latest",
		Content: []claudeContent{
			{Type: "text", Text: "Let me check the ratios."},
			{Type: "tool_use", ID: "toolu_1", Name: "get_financial_ratios", Input: map[string]interface{}{"ticker": "VALE3"}},
		},
		StopReason: "tool_use",
		Usage:      claudeUsage{InputTokens: 100, OutputTokens: 25},
	}

	chatResp := p.convertFromClaude(resp)

	if chatResp.Usage.TotalTokens != 125 {
		t.Fatalf("unexpected usage %+v", chatResp.Usage)
	}

	choice := chatResp.Choices[0]
	if choice.FinishReason != FinishReasonToolCalls {
		t.Fatalf("unexpected finish reason %s", choice.FinishReason)
	}
	if choice.Message.Content != "Let me check the ratios." {
		t.Fatalf("unexpected content %q", choice.Message.Content)
	}

	tc := choice.Message.ToolCalls[0]
	if tc.ID != "toolu_1" || tc.Function.Name != "get_financial_ratios" {
		t.Fatalf("unexpected tool call %+v", tc)
	}
}
