package agents

import (
	"context"

	"orquestra/internal/adapters/ai"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
)

// Engine is the reasoning seam between the pipeline and the chat providers:
// one call, one completion. Tool execution stays on the caller's side.
type Engine interface {
	Complete(ctx context.Context, role AgentType, messages []ai.Message, tools []ai.ToolDefinition) (ai.Message, ai.Usage, error)
}

// ModelEngine resolves each pipeline role to its configured provider and
// model, executes the completion, and records token usage and cost.
type ModelEngine struct {
	registry        *ai.ProviderRegistry
	selector        *ai.ModelSelector
	tracker         *ai.UsageTracker
	defaultProvider string
	log             *logger.Logger
}

// NewModelEngine builds the production engine. The tracker may be nil when
// cost accounting is not wanted.
func NewModelEngine(registry *ai.ProviderRegistry, selector *ai.ModelSelector, tracker *ai.UsageTracker, defaultProvider string) *ModelEngine {
	return &ModelEngine{
		registry:        registry,
		selector:        selector,
		tracker:         tracker,
		defaultProvider: ai.NormalizeProviderName(defaultProvider),
		log:             logger.Get().With("component", "reasoning_engine"),
	}
}

// Complete runs one chat completion for the given role. Provider errors come
// back wrapped with the role and model; callers attach their own taxonomy
// (routing failure, reasoning failure) on top.
func (e *ModelEngine) Complete(ctx context.Context, role AgentType, messages []ai.Message, tools []ai.ToolDefinition) (ai.Message, ai.Usage, error) {
	cfg, info, err := e.selector.Get(ctx, role.String(), e.defaultProvider)
	if err != nil {
		return ai.Message{}, ai.Usage{}, errors.Wrapf(err, "no model available for %s", role)
	}

	provider, err := e.registry.GetChat(cfg.Provider)
	if err != nil {
		return ai.Message{}, ai.Usage{}, err
	}

	callCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	resp, err := provider.Chat(callCtx, ai.ChatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return ai.Message{}, ai.Usage{}, errors.Wrapf(err, "%s completion via %s/%s failed", role, cfg.Provider, cfg.Model)
	}

	if e.tracker != nil {
		e.tracker.Record(info, cfg.Provider, int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	}
	e.log.Debugf("Completion for %s via %s/%s (tokens: %d)", role, cfg.Provider, cfg.Model, resp.Usage.TotalTokens)

	return resp.First(), resp.Usage, nil
}

// providerMessages converts the shared conversation into provider wire
// messages: the user query keeps its role, everything else becomes an
// attributed assistant message.
func providerMessages(state *ConversationState) []ai.Message {
	history := state.Messages()
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		if m.Role == RoleUser {
			out = append(out, ai.Message{Role: ai.RoleUser, Content: m.Content})
			continue
		}
		out = append(out, ai.Message{Role: ai.RoleAssistant, Name: m.Name, Content: m.Content})
	}
	return out
}
