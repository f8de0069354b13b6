package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"orquestra/internal/adapters/ai"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
)

// Phase is a state of the execution machine.
type Phase string

const (
	PhaseAwaitingRouting   Phase = "awaiting_routing"
	PhaseRunningSpecialist Phase = "running_specialist"
	PhaseSynthesizing      Phase = "synthesizing"
	PhaseDone              Phase = "done"
	PhaseFailed            Phase = "failed"
)

// RunResult is the outcome of one completed run.
type RunResult struct {
	RunID       string
	Query       string
	Selected    []AgentType
	Completed   []AgentType
	Skipped     []AgentType
	ErrorCount  int
	FinalReport string
	Steps       int
	Duration    time.Duration
	Messages    []Message

	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// TotalTokens returns the combined token count for the run.
func (r *RunResult) TotalTokens() int64 {
	return r.InputTokens + r.OutputTokens
}

// Orchestrator drives the execution state machine for one analysis run:
// routing, the selected specialists in order, synthesis. The machine is
// strictly linear and single-threaded; the conversation state is owned here
// for the lifetime of the run and every external call blocks the next
// transition until its message lands.
type Orchestrator struct {
	supervisor  *Supervisor
	specialist  *Specialist
	synthesizer *Synthesizer
	tracker     *ai.UsageTracker
	cfg         RuntimeConfig
	sinks       []TraceSink
	log         *logger.Logger
}

// NewOrchestrator wires the pipeline components. The tracker may be nil;
// sinks are optional.
func NewOrchestrator(
	supervisor *Supervisor,
	specialist *Specialist,
	synthesizer *Synthesizer,
	tracker *ai.UsageTracker,
	cfg RuntimeConfig,
	sinks ...TraceSink,
) *Orchestrator {
	return &Orchestrator{
		supervisor:  supervisor,
		specialist:  specialist,
		synthesizer: synthesizer,
		tracker:     tracker,
		cfg:         cfg.withDefaults(),
		sinks:       sinks,
		log:         logger.Get().With("component", "orchestrator"),
	}
}

// Run executes one query through the whole pipeline and returns the final
// report. Fatal conditions (routing failure, scope violation, exhausted step
// budget, a specialist failure under the abort policy, synthesis failure)
// abort the run with an error and no partial result.
func (o *Orchestrator) Run(ctx context.Context, query string) (*RunResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "query is empty")
	}

	if o.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RunTimeout)
		defer cancel()
	}

	runID := uuid.NewString()
	state := NewConversationState(query)
	log := o.log.With("run_id", runID)

	started := time.Now()
	costBefore, inBefore, outBefore := o.usageBaseline()

	log.Infof("Run started (step budget: %d, policy: %s)", o.cfg.StepBudget, o.cfg.SpecialistFailurePolicy)

	phase := PhaseAwaitingRouting
	steps := 0

	// Every state-machine transition consumes one unit of the step budget;
	// running past it is resource exhaustion, not a slow run.
	advance := func(next Phase) error {
		steps++
		if steps > o.cfg.StepBudget {
			return errors.Wrapf(errors.ErrStepBudgetExceeded,
				"step budget %d exhausted before reaching %s", o.cfg.StepBudget, next)
		}
		phase = next
		return nil
	}

	fail := func(err error) (*RunResult, error) {
		at := phase
		phase = PhaseFailed
		log.Errorf("Run failed at %s after %d steps: %v", at, steps, err)
		return nil, err
	}

	// Routing runs inside the initial state; its completion consumes the
	// first transition.
	stepStart := time.Now()
	selection, err := o.supervisor.Route(ctx, state)
	if err != nil {
		return fail(err)
	}
	o.emit(StepEvent{
		RunID:     runID,
		Phase:     PhaseAwaitingRouting,
		Agent:     AgentSupervisor,
		Content:   lastContent(state),
		Duration:  time.Since(stepStart),
		Timestamp: time.Now(),
	})

	next := PhaseSynthesizing
	if len(selection) > 0 {
		next = PhaseRunningSpecialist
	}
	if err := advance(next); err != nil {
		return fail(err)
	}

	for phase == PhaseRunningSpecialist {
		selected := state.Selected()
		agent := selected[state.Cursor()]
		desc, ok := DescriptorFor(agent)
		if !ok {
			return fail(errors.Wrapf(errors.ErrInternal, "no descriptor for selected agent %s", agent))
		}

		stepStart = time.Now()
		report, err := o.specialist.Run(ctx, state, desc)

		switch {
		case err == nil:
			state.Append(RoleAnalyst, agent.String(), report.Text)
			state.MarkCompleted(agent)
			o.emit(StepEvent{
				RunID:       runID,
				Phase:       PhaseRunningSpecialist,
				Agent:       agent,
				Content:     report.Text,
				ToolCalls:   report.ToolCalls,
				FailedCalls: report.FailedCalls,
				Duration:    time.Since(stepStart),
				Timestamp:   time.Now(),
			})

		case errors.Is(err, errors.ErrScopeViolation):
			// Never survivable: an out-of-scope call would contaminate
			// another domain's report.
			return fail(err)

		case errors.Is(err, errors.ErrReasoningEngine) && o.cfg.SpecialistFailurePolicy == FailurePolicySkip:
			state.Append(RoleAnalyst, agent.String(),
				fmt.Sprintf("%s analysis skipped: the reasoning step failed.", agent))
			state.MarkSkipped(agent)
			state.RecordError()
			log.Warnf("Specialist %s skipped: %v", agent, err)
			o.emit(StepEvent{
				RunID:     runID,
				Phase:     PhaseRunningSpecialist,
				Agent:     agent,
				Content:   fmt.Sprintf("%s analysis skipped: the reasoning step failed.", agent),
				Skipped:   true,
				Duration:  time.Since(stepStart),
				Timestamp: time.Now(),
			})

		default:
			return fail(err)
		}

		state.AdvanceCursor()

		next := PhaseSynthesizing
		if state.Cursor() < len(selected) {
			next = PhaseRunningSpecialist
		}
		if err := advance(next); err != nil {
			return fail(err)
		}
	}

	stepStart = time.Now()
	finalReport, err := o.synthesizer.Summarize(ctx, state)
	if err != nil {
		return fail(err)
	}
	o.emit(StepEvent{
		RunID:     runID,
		Phase:     PhaseSynthesizing,
		Agent:     AgentPortfolioManager,
		Content:   finalReport,
		Duration:  time.Since(stepStart),
		Timestamp: time.Now(),
	})

	if err := advance(PhaseDone); err != nil {
		return fail(err)
	}

	result := &RunResult{
		RunID:       runID,
		Query:       query,
		Selected:    state.Selected(),
		Completed:   state.CompletedAgents(),
		Skipped:     state.SkippedAgents(),
		ErrorCount:  state.ErrorCount(),
		FinalReport: finalReport,
		Steps:       steps,
		Duration:    time.Since(started),
		Messages:    state.Messages(),
	}
	o.fillUsage(result, costBefore, inBefore, outBefore)

	log.Infof("Run complete: agents=%d steps=%d errors=%d duration=%v tokens=%d cost=$%.4f",
		len(result.Selected), result.Steps, result.ErrorCount, result.Duration, result.TotalTokens(), result.CostUSD)
	return result, nil
}

func (o *Orchestrator) emit(event StepEvent) {
	emitStep(o.log, o.sinks, event)
}

func (o *Orchestrator) usageBaseline() (float64, int64, int64) {
	if o.tracker == nil {
		return 0, 0, 0
	}
	in, out := o.tracker.TotalTokens()
	return o.tracker.TotalCost(), in, out
}

func (o *Orchestrator) fillUsage(result *RunResult, costBefore float64, inBefore, outBefore int64) {
	if o.tracker == nil {
		return
	}
	in, out := o.tracker.TotalTokens()
	result.InputTokens = in - inBefore
	result.OutputTokens = out - outBefore
	result.CostUSD = o.tracker.TotalCost() - costBefore
}

func lastContent(state *ConversationState) string {
	if m, ok := state.LastMessage(); ok {
		return m.Content
	}
	return ""
}
