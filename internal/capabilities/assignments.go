package capabilities

import (
	"orquestra/pkg/errors"
)

// Agent names the assignment table recognizes. The agents package derives
// its typed identifiers from these strings.
const (
	AgentFundamentalAnalyst = "fundamental_analyst"
	AgentValuationAnalyst   = "valuation_analyst"
	AgentPriceAnalyst       = "price_analyst"
)

// agentCategories grants each specialist the categories matching its scope.
// The economic-indicators and news-search categories are cataloged but not
// granted to any specialist.
var agentCategories = map[string][]Category{
	AgentFundamentalAnalyst: {CategoryFinancialStatements},
	AgentValuationAnalyst:   {CategoryAnalysisRatios},
	AgentPriceAnalyst:       {CategoryMarketData},
}

// agentExtras grants single capabilities outside an agent's categories. The
// fundamental analyst is told to calculate key ratios from the statements it
// pulls, so it gets the ratio calculator without the rest of that category.
var agentExtras = map[string][]string{
	AgentFundamentalAnalyst: {CapFinancialRatios},
}

// ForAgent returns the ordered capability allow-list for an agent. Unknown
// agents get an empty list; the supervisor and synthesizer never call
// capabilities.
func ForAgent(agentType string) []string {
	var names []string
	for _, category := range agentCategories[agentType] {
		names = append(names, CategoryMembers(category)...)
	}
	names = append(names, agentExtras[agentType]...)
	return names
}

// ValidateAccess checks that an agent is allowed to call a capability. A
// denial is a scope violation, treated as fatal by the agent loop.
func ValidateAccess(agentType, capability string) error {
	for _, name := range ForAgent(agentType) {
		if name == capability {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrScopeViolation, "capability %q is not granted to %s", capability, agentType)
}
