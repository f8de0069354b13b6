package metrics

import (
	"orquestra/internal/agents"
)

// Compile-time check
var _ agents.TraceSink = StepSink{}

// StepSink feeds pipeline trace events into the step metrics.
type StepSink struct{}

// OnStep implements agents.TraceSink
func (StepSink) OnStep(event agents.StepEvent) {
	RecordStep(event.Agent.String(), event.Duration, event.Skipped)

	if event.FailedCalls > 0 {
		RecoveredErrors.Add(float64(event.FailedCalls))
	}
	if event.Skipped {
		RecoveredErrors.Inc()
	}
}
