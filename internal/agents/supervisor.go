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

// Supervisor classifies the user query against the analyst scopes and decides
// which specialists run.
type Supervisor struct {
	engine    Engine
	templates *templates.Registry
	log       *logger.Logger
}

// NewSupervisor builds the routing component. A nil template registry falls
// back to the embedded prompts.
func NewSupervisor(engine Engine, tmpl *templates.Registry) *Supervisor {
	if tmpl == nil {
		tmpl = templates.Get()
	}
	return &Supervisor{
		engine:    engine,
		templates: tmpl,
		log:       logger.Get().With("component", "supervisor"),
	}
}

// Route decides which analysts handle the query: one completion call with no
// tools, parsed defensively onto the closed analyst set. The selection is
// fixed on the state and exactly one supervisor message is appended before
// returning. An unusable reply yields an empty selection; only a failed
// completion is an error, and that error is fatal to the run.
func (s *Supervisor) Route(ctx context.Context, state *ConversationState) ([]AgentType, error) {
	prompt, err := s.renderPrompt()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRoutingFailure, "failed to render routing prompt: %v", err)
	}

	msgs := append([]ai.Message{{Role: ai.RoleSystem, Content: prompt}}, providerMessages(state)...)

	started := time.Now()
	reply, _, err := s.engine.Complete(ctx, AgentSupervisor, msgs, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRoutingFailure, "routing completion failed: %v", err)
	}

	selection := ParseSelection(reply.Content)
	state.SetSelected(selection)
	state.Append(RoleSupervisor, AgentSupervisor.String(), routingMessage(selection))

	s.log.Infof("Routing decision: [%s] (duration: %v)", joinAgents(selection), time.Since(started))
	return selection, nil
}

func (s *Supervisor) renderPrompt() (string, error) {
	type routedAgent struct {
		Name    string
		Summary string
		Scope   string
	}

	roster := make([]routedAgent, 0, 3)
	for _, d := range Descriptors() {
		roster = append(roster, routedAgent{
			Name:    d.Type.String(),
			Summary: d.Summary,
			Scope:   d.Scope,
		})
	}

	return s.templates.Render("agents/supervisor_routing", map[string]interface{}{
		"Agents":  roster,
		"Example": "fundamental_analyst, price_analyst",
	})
}

func routingMessage(selection []AgentType) string {
	if len(selection) == 0 {
		return "No analysts selected for this query."
	}
	return "Routing query to: " + joinAgents(selection)
}

// ParseSelection maps a free-text routing reply onto the closed analyst set.
// The reply is untrusted: unrecognized tokens are dropped, duplicates are
// kept, and the result comes out in canonical order no matter how the reply
// ordered the names. A reply selecting nothing ("none", empty, garbage)
// yields an empty selection, which is a valid routing outcome.
func ParseSelection(raw string) []AgentType {
	counts := make(map[AgentType]int)
	for _, token := range strings.FieldsFunc(strings.ToLower(raw), isSelectionSeparator) {
		token = strings.Trim(token, "\"'`.:!()[]*-")
		if agent, ok := matchAnalyst(token); ok {
			counts[agent]++
		}
	}

	out := make([]AgentType, 0, len(specialistOrder))
	for _, agent := range specialistOrder {
		for i := 0; i < counts[agent]; i++ {
			out = append(out, agent)
		}
	}
	return out
}

func isSelectionSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';':
		return true
	}
	return false
}

func matchAnalyst(token string) (AgentType, bool) {
	switch token {
	case "fundamental_analyst", "fundamental":
		return AgentFundamentalAnalyst, true
	case "valuation_analyst", "valuation":
		return AgentValuationAnalyst, true
	case "price_analyst", "price":
		return AgentPriceAnalyst, true
	}
	return "", false
}

func joinAgents(agents []AgentType) string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}
