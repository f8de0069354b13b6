package ai

// ProviderName represents an AI provider identifier
type ProviderName string

// Provider name constants
const (
	ProviderNameAnthropic ProviderName = "anthropic"
	ProviderNameOpenAI    ProviderName = "openai"
	ProviderNameGoogle    ProviderName = "google"
	ProviderNameDeepSeek  ProviderName = "deepseek"
)

// String returns the string representation of the provider name
func (p ProviderName) String() string {
	return string(p)
}

// IsValid checks if the provider name is supported
func (p ProviderName) IsValid() bool {
	switch p {
	case ProviderNameAnthropic, ProviderNameOpenAI, ProviderNameGoogle, ProviderNameDeepSeek:
		return true
	default:
		return false
	}
}

// AllProviderNames returns all supported provider names
func AllProviderNames() []ProviderName {
	return []ProviderName{
		ProviderNameAnthropic,
		ProviderNameOpenAI,
		ProviderNameGoogle,
		ProviderNameDeepSeek,
	}
}

type ProviderModelName string

// Model name constants
const (
	// OpenAI models. GPT4oMini is the pipeline default: routing and analysis
	// prompts are short and the cost profile matters more than raw capability.
	ModelGPT4oMini ProviderModelName = "gpt-4o-mini"
	ModelGPT4o     ProviderModelName = "gpt-4o"

	ModelClaude35Sonnet ProviderModelName = "claude-3-5-sonnet-latest"
	ModelClaude35Haiku  ProviderModelName = "claude-3-5-haiku-latest"

	ModelDeepSeekReasoner ProviderModelName = "deepseek-reasoner"
	ModelDeepSeekChat     ProviderModelName = "deepseek-chat"

	ModelGemini15Flash ProviderModelName = "gemini-1.5-flash"
	ModelGemini15Pro   ProviderModelName = "gemini-1.5-pro"
)
