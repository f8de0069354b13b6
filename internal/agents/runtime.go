package agents

import "time"

// FailurePolicy decides what a specialist's reasoning failure does to the run.
type FailurePolicy string

const (
	// FailurePolicyAbort stops the run on the first specialist failure.
	FailurePolicyAbort FailurePolicy = "abort"

	// FailurePolicySkip records the specialist as skipped and continues to
	// the next step; the synthesizer still runs on whatever was produced.
	FailurePolicySkip FailurePolicy = "skip"
)

// Default run bounds, shared with the CLI flag defaults.
const (
	DefaultStepBudget   = 10
	DefaultMaxToolCalls = 8
	DefaultToolTimeout  = 30 * time.Second
)

// RuntimeConfig bounds one analysis run. It is built once at startup from the
// environment-backed configuration and handed in; the pipeline never reads
// the environment itself.
type RuntimeConfig struct {
	// StepBudget caps state-machine transitions for one run.
	StepBudget int

	// MaxToolCalls caps reasoning turns inside one specialist step.
	MaxToolCalls int

	// ToolTimeout bounds each capability call.
	ToolTimeout time.Duration

	// RunTimeout bounds the whole run; zero disables it.
	RunTimeout time.Duration

	// SpecialistFailurePolicy applies when a specialist's reasoning call
	// fails outright. Scope violations abort the run regardless of policy.
	SpecialistFailurePolicy FailurePolicy
}

func (c RuntimeConfig) withDefaults() RuntimeConfig {
	if c.StepBudget <= 0 {
		c.StepBudget = DefaultStepBudget
	}
	if c.MaxToolCalls <= 0 {
		c.MaxToolCalls = DefaultMaxToolCalls
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}
	if c.SpecialistFailurePolicy == "" {
		c.SpecialistFailurePolicy = FailurePolicyAbort
	}
	return c
}
