package agents

import "orquestra/internal/capabilities"

// AgentType identifies a pipeline role. The three analyst values mirror the
// capability allow-list table so scope checks and routing share one vocabulary.
type AgentType string

const (
	AgentSupervisor         AgentType = "supervisor"
	AgentFundamentalAnalyst AgentType = capabilities.AgentFundamentalAnalyst
	AgentValuationAnalyst   AgentType = capabilities.AgentValuationAnalyst
	AgentPriceAnalyst       AgentType = capabilities.AgentPriceAnalyst
	AgentPortfolioManager   AgentType = "portfolio_manager"
)

// String returns the string representation of the agent type.
func (t AgentType) String() string {
	return string(t)
}

// specialistOrder is the canonical analyst order. Supervisor output is always
// reordered onto it so free-text classifier replies cannot change sequencing.
var specialistOrder = []AgentType{
	AgentFundamentalAnalyst,
	AgentValuationAnalyst,
	AgentPriceAnalyst,
}

// SpecialistTypes returns the closed set of analyst types in canonical order.
func SpecialistTypes() []AgentType {
	out := make([]AgentType, len(specialistOrder))
	copy(out, specialistOrder)
	return out
}

// IsSpecialist reports whether t is one of the three analyst types.
func IsSpecialist(t AgentType) bool {
	for _, s := range specialistOrder {
		if s == t {
			return true
		}
	}
	return false
}
