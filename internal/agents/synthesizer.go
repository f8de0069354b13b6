package agents

import (
	"context"
	"strings"
	"time"

	"orquestra/internal/adapters/ai"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
	"orquestra/pkg/templates"
)

// Synthesizer merges the specialist reports into the final recommendation.
type Synthesizer struct {
	engine    Engine
	templates *templates.Registry
	log       *logger.Logger
}

// NewSynthesizer builds the terminal pipeline component.
func NewSynthesizer(engine Engine, tmpl *templates.Registry) *Synthesizer {
	if tmpl == nil {
		tmpl = templates.Get()
	}
	return &Synthesizer{
		engine:    engine,
		templates: tmpl,
		log:       logger.Get().With("component", "synthesizer"),
	}
}

// Summarize produces the final report from every specialist message in the
// conversation, identified by attribution rather than position, and appends
// exactly one portfolio manager message. The prompt names the domains that
// did not report so their absence is stated, never papered over; with no
// specialist reports at all the summary must say no specialist data was
// available. A failed completion is fatal: synthesis is a mandatory step.
func (s *Synthesizer) Summarize(ctx context.Context, state *ConversationState) (string, error) {
	covered := state.CompletedAgents()

	// With nothing covered the prompt's no-data clause takes over; listing
	// every domain as missing on top of it would be noise.
	var missing []AgentType
	if len(covered) > 0 {
		missing = uncoveredAgents(covered)
	}

	prompt, err := s.templates.Render("agents/portfolio_manager", map[string]interface{}{
		"Covered": joinAgents(covered),
		"Missing": joinAgents(missing),
	})
	if err != nil {
		return "", errors.Wrapf(errors.ErrReasoningEngine, "failed to render synthesis prompt: %v", err)
	}

	msgs := append([]ai.Message{{Role: ai.RoleSystem, Content: prompt}}, providerMessages(state)...)
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: "Produce the final recommendation now."})

	started := time.Now()
	reply, usage, err := s.engine.Complete(ctx, AgentPortfolioManager, msgs, nil)
	if err != nil {
		return "", errors.Wrapf(errors.ErrReasoningEngine, "synthesis completion failed: %v", err)
	}

	text := strings.TrimSpace(reply.Content)
	if text == "" {
		return "", errors.Wrap(errors.ErrReasoningEngine, "synthesis returned no content")
	}

	state.Append(RoleManager, AgentPortfolioManager.String(), text)
	s.log.Infof("Synthesis complete (duration: %v, tokens: %d, covered: [%s])",
		time.Since(started), usage.TotalTokens, joinAgents(covered))
	return text, nil
}

func uncoveredAgents(covered []AgentType) []AgentType {
	seen := make(map[AgentType]bool, len(covered))
	for _, a := range covered {
		seen[a] = true
	}

	out := make([]AgentType, 0, len(specialistOrder))
	for _, a := range specialistOrder {
		if !seen[a] {
			out = append(out, a)
		}
	}
	return out
}
