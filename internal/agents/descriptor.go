package agents

import "orquestra/internal/capabilities"

// Descriptor is the immutable identity of a specialist: the scope text the
// supervisor routes against and the ordered capability allow-list the
// specialist may invoke. Descriptors are declared statically; nothing mutates
// them at runtime.
type Descriptor struct {
	Type           AgentType
	Summary        string
	Scope          string
	PromptTemplate string
	Capabilities   []string
}

var descriptors = map[AgentType]Descriptor{
	AgentFundamentalAnalyst: {
		Type:    AgentFundamentalAnalyst,
		Summary: "analyzes financial statements and company health",
		Scope: "Covers income statements and balance sheets over multiple periods, and the " +
			"ratios derived from them: profitability, liquidity, leverage, efficiency.",
		PromptTemplate: "agents/fundamental_analyst",
		Capabilities:   capabilities.ForAgent(capabilities.AgentFundamentalAnalyst),
	},
	AgentValuationAnalyst: {
		Type:    AgentValuationAnalyst,
		Summary: "analyzes valuation and market ratios",
		Scope: "Covers key statistics and financial data: multiples, margins, growth " +
			"indicators, and what they imply about how the company is priced.",
		PromptTemplate: "agents/valuation_analyst",
		Capabilities:   capabilities.ForAgent(capabilities.AgentValuationAnalyst),
	},
	AgentPriceAnalyst: {
		Type:    AgentPriceAnalyst,
		Summary: "analyzes price action and trends",
		Scope: "Covers quotes, price history, and technical indicators: momentum, " +
			"support and resistance, moving averages.",
		PromptTemplate: "agents/price_analyst",
		Capabilities:   capabilities.ForAgent(capabilities.AgentPriceAnalyst),
	},
}

// Descriptors returns the specialist descriptors in canonical order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(specialistOrder))
	for _, agent := range specialistOrder {
		out = append(out, descriptors[agent])
	}
	return out
}

// DescriptorFor returns the descriptor for an analyst type.
func DescriptorFor(agent AgentType) (Descriptor, bool) {
	d, ok := descriptors[agent]
	return d, ok
}
