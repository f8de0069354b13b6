package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"orquestra/internal/adapters/ai"
	"orquestra/internal/capabilities"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
	"orquestra/pkg/templates"
)

// SpecialistReport is the outcome of one analyst step. The orchestrator, not
// the specialist, appends Text to the shared conversation so the
// one-message-per-step contract holds under every failure policy.
type SpecialistReport struct {
	Agent       AgentType
	Text        string
	Turns       int
	ToolCalls   int
	FailedCalls int
	Tokens      int
}

// Specialist drives the bounded tool loop for one analyst step: completion,
// allow-list check, capability execution, repeat. The loop is explicit so its
// termination is inspectable: at most MaxToolCalls reasoning turns, then one
// forced completion with the tools withheld.
type Specialist struct {
	engine       Engine
	registry     *capabilities.Registry
	templates    *templates.Registry
	maxToolCalls int
	toolTimeout  time.Duration
	log          *logger.Logger
}

// NewSpecialist builds the shared analyst executor; the descriptor passed to
// Run decides which analyst it acts as.
func NewSpecialist(engine Engine, registry *capabilities.Registry, tmpl *templates.Registry, cfg RuntimeConfig) *Specialist {
	cfg = cfg.withDefaults()
	if tmpl == nil {
		tmpl = templates.Get()
	}
	return &Specialist{
		engine:       engine,
		registry:     registry,
		templates:    tmpl,
		maxToolCalls: cfg.MaxToolCalls,
		toolTimeout:  cfg.ToolTimeout,
		log:          logger.Get().With("component", "specialist"),
	}
}

// Run executes one analyst step against the full conversation so far and
// returns the report. Failed capability calls are recovered locally: the
// error text is fed back to the model as the tool result and the loop
// continues. A capability call outside the descriptor's allow-list is a scope
// violation and aborts the step; a failed completion is a reasoning failure
// whose blast radius the orchestrator decides by policy.
func (s *Specialist) Run(ctx context.Context, state *ConversationState, desc Descriptor) (*SpecialistReport, error) {
	prompt, err := s.templates.Render(desc.PromptTemplate, map[string]interface{}{
		"Capabilities": strings.Join(desc.Capabilities, ", "),
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrReasoningEngine, "failed to render %s prompt: %v", desc.Type, err)
	}

	conversation := append([]ai.Message{{Role: ai.RoleSystem, Content: prompt}}, providerMessages(state)...)
	tools := capabilities.ToolDefinitions(desc.Capabilities)

	report := &SpecialistReport{Agent: desc.Type}
	log := s.log.With("agent", desc.Type.String())
	started := time.Now()

	for turn := 0; turn < s.maxToolCalls; turn++ {
		reply, usage, err := s.engine.Complete(ctx, desc.Type, conversation, tools)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrReasoningEngine, "%s completion failed: %v", desc.Type, err)
		}
		report.Turns++
		report.Tokens += usage.TotalTokens

		if len(reply.ToolCalls) == 0 {
			report.Text = reportText(reply.Content, report)
			log.Infof("Agent %s completed (duration: %v, turns: %d, tool calls: %d, failed: %d)",
				desc.Type, time.Since(started), report.Turns, report.ToolCalls, report.FailedCalls)
			return report, nil
		}

		conversation = append(conversation, ai.Message{
			Role:      ai.RoleAssistant,
			Name:      desc.Type.String(),
			Content:   reply.Content,
			ToolCalls: reply.ToolCalls,
		})

		for _, call := range reply.ToolCalls {
			result, err := s.executeCall(ctx, state, desc, report, call)
			if err != nil {
				return nil, err
			}
			conversation = append(conversation, ai.Message{
				Role:       ai.RoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	// Turn budget exhausted: one last completion with the tools withheld.
	conversation = append(conversation, ai.Message{
		Role:    ai.RoleUser,
		Content: "You have used all available tool calls. Write your final report now using only the data already retrieved.",
	})
	reply, usage, err := s.engine.Complete(ctx, desc.Type, conversation, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrReasoningEngine, "%s forced completion failed: %v", desc.Type, err)
	}
	report.Turns++
	report.Tokens += usage.TotalTokens
	report.Text = reportText(reply.Content, report)

	log.Infof("Agent %s completed after forced stop (duration: %v, turns: %d, tool calls: %d, failed: %d)",
		desc.Type, time.Since(started), report.Turns, report.ToolCalls, report.FailedCalls)
	return report, nil
}

// executeCall validates and runs one capability call, returning the tool
// result to feed back to the model. Only a scope violation comes back as an
// error; every other failure becomes the tool result text so the model can
// report the gap instead of the pipeline dying on missing data.
func (s *Specialist) executeCall(ctx context.Context, state *ConversationState, desc Descriptor, report *SpecialistReport, call ai.ToolCall) (string, error) {
	name := call.Function.Name
	if err := capabilities.ValidateAccess(desc.Type.String(), name); err != nil {
		return "", err
	}
	report.ToolCalls++

	args, err := decodeArguments(call.Function.Arguments)
	if err != nil {
		report.FailedCalls++
		state.RecordError()
		s.log.Warnf("Capability %s got undecodable arguments from %s: %v", name, desc.Type, err)
		return fmt.Sprintf("error: invalid arguments for %s: %v", name, err), nil
	}

	callCtx := ctx
	if s.toolTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.toolTimeout)
		defer cancel()
	}

	result, err := s.registry.Execute(callCtx, name, args)
	if err != nil {
		report.FailedCalls++
		state.RecordError()
		s.log.Warnf("Capability %s failed for %s: %v", name, desc.Type, err)
		return fmt.Sprintf("error: %v", err), nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		report.FailedCalls++
		state.RecordError()
		return fmt.Sprintf("error: failed to encode %s result: %v", name, err), nil
	}
	return string(payload), nil
}

func decodeArguments(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// reportText guards the one-report contract: a specialist that ends with no
// usable text still reports, stating that data was unavailable rather than
// leaving a hole in the conversation.
func reportText(content string, report *SpecialistReport) string {
	text := strings.TrimSpace(content)
	if text != "" {
		return text
	}
	if report.FailedCalls > 0 {
		return fmt.Sprintf("%s: no analysis available. %d of %d data retrievals failed and no usable data remained.",
			report.Agent, report.FailedCalls, report.ToolCalls)
	}
	return fmt.Sprintf("%s: no analysis was produced for this request.", report.Agent)
}
