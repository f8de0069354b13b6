package agents

import (
	"time"

	"orquestra/pkg/logger"
)

// StepEvent describes one completed pipeline step for presentation sinks.
type StepEvent struct {
	RunID       string
	Phase       Phase
	Agent       AgentType
	Content     string
	ToolCalls   int
	FailedCalls int
	Skipped     bool
	Duration    time.Duration
	Timestamp   time.Time
}

// TraceSink receives step events as the run progresses. Sinks are
// presentation-only: they must not influence the run, and a panicking sink is
// isolated and logged instead of failing the pipeline.
type TraceSink interface {
	OnStep(event StepEvent)
}

func emitStep(log *logger.Logger, sinks []TraceSink, event StepEvent) {
	for _, sink := range sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Warnf("Trace sink panicked on %s step: %v", event.Agent, r)
				}
			}()
			sink.OnStep(event)
		}()
	}
}
