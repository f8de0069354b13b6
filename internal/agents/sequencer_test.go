package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orquestra/internal/capabilities"
	"orquestra/pkg/errors"
)

func newTestOrchestrator(engine Engine, registry *capabilities.Registry, cfg RuntimeConfig, sinks ...TraceSink) *Orchestrator {
	return NewOrchestrator(
		NewSupervisor(engine, nil),
		NewSpecialist(engine, registry, nil, cfg),
		NewSynthesizer(engine, nil),
		nil,
		cfg,
		sinks...,
	)
}

func TestOrchestratorRun(t *testing.T) {
	t.Run("price-only query runs one specialist then synthesis", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "price_analyst")
		engine.queueText(AgentPriceAnalyst, "PETR4 trend is up over the last quarter.")
		engine.queueText(AgentPortfolioManager, "Overall: constructive on price action.")

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "What is the current price trend for PETR4?")
		require.NoError(t, err)

		assert.Equal(t, []AgentType{AgentPriceAnalyst}, result.Selected)
		assert.Equal(t, []AgentType{AgentPriceAnalyst}, result.Completed)
		assert.Empty(t, result.Skipped)
		assert.Equal(t, 0, result.ErrorCount)
		assert.Equal(t, "Overall: constructive on price action.", result.FinalReport)
		assert.Equal(t, 3, result.Steps)
		assert.NotEmpty(t, result.RunID)

		// 1 user + 1 routing + 1 specialist + 1 synthesis.
		require.Len(t, result.Messages, 4)
		assert.Equal(t, RoleUser, result.Messages[0].Role)
		assert.Equal(t, RoleSupervisor, result.Messages[1].Role)
		assert.Equal(t, "price_analyst", result.Messages[2].Name)
		assert.Equal(t, "portfolio_manager", result.Messages[3].Name)
	})

	t.Run("two-domain query runs in canonical order", func(t *testing.T) {
		engine := newFakeEngine()
		// The classifier emits them reversed; execution order must not follow it.
		engine.queueText(AgentSupervisor, "valuation_analyst, fundamental_analyst")
		engine.queueText(AgentFundamentalAnalyst, "Statements show improving margins.")
		engine.queueText(AgentValuationAnalyst, "Multiples look cheap versus peers.")
		engine.queueText(AgentPortfolioManager, "Buy: healthy and cheap.")

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "Assess the financial health and valuation ratios of VALE3")
		require.NoError(t, err)

		assert.Equal(t, []AgentType{AgentFundamentalAnalyst, AgentValuationAnalyst}, result.Selected)
		require.Len(t, result.Messages, 5)
		assert.Equal(t, "fundamental_analyst", result.Messages[2].Name)
		assert.Equal(t, "valuation_analyst", result.Messages[3].Name)
		assert.Equal(t, 4, result.Steps)
	})

	t.Run("empty selection goes straight to synthesis", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "none")
		engine.queueText(AgentPortfolioManager, "No specialist data was available; answering in general terms.")

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "Tell me a joke about stocks")
		require.NoError(t, err)

		assert.Empty(t, result.Selected)
		assert.Empty(t, result.Completed)
		require.Len(t, result.Messages, 3)
		assert.Equal(t, 2, result.Steps)
		assert.Contains(t, result.FinalReport, "No specialist data")
	})

	t.Run("step budget aborts before the second specialist", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "fundamental_analyst, price_analyst")
		engine.queueText(AgentFundamentalAnalyst, "report one")

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{StepBudget: 1})
		result, err := orch.Run(context.Background(), "full analysis of PETR4")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStepBudgetExceeded))
		assert.Nil(t, result)

		assert.Len(t, engine.callsFor(AgentFundamentalAnalyst), 1)
		assert.Empty(t, engine.callsFor(AgentPriceAnalyst), "second specialist must not execute")
		assert.Empty(t, engine.callsFor(AgentPortfolioManager))
	})

	t.Run("capability failure still reaches done", func(t *testing.T) {
		registry := stubRegistry(map[string]capabilities.HandlerFunc{
			capabilities.CapQuote: func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
				return nil, errors.Wrapf(errors.ErrTickerNotFound, "no results for ZZZZ9")
			},
		})

		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "price_analyst")
		engine.queueToolCalls(AgentPriceAnalyst, toolCall("call_1", capabilities.CapQuote, `{"tickers":"ZZZZ9"}`))
		engine.queueText(AgentPriceAnalyst, "Quote data for ZZZZ9 was unavailable; no trend assessment possible.")
		engine.queueText(AgentPortfolioManager, "Price data was unavailable; no recommendation on trend.")

		orch := newTestOrchestrator(engine, registry, RuntimeConfig{})
		result, err := orch.Run(context.Background(), "trend for ZZZZ9?")
		require.NoError(t, err)

		assert.Equal(t, 1, result.ErrorCount)
		assert.Equal(t, []AgentType{AgentPriceAnalyst}, result.Completed)
		assert.Contains(t, result.Messages[2].Content, "unavailable")
	})

	t.Run("scope violation aborts the run", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "price_analyst")
		engine.queueToolCalls(AgentPriceAnalyst, toolCall("call_1", capabilities.CapIncomeStatements, `{}`))

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "q")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrScopeViolation))
		assert.Nil(t, result)
	})

	t.Run("abort policy fails the run on a specialist reasoning failure", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "price_analyst")
		engine.queueError(AgentPriceAnalyst, errors.New("model overloaded"))

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "q")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrReasoningEngine))
		assert.Nil(t, result)
	})

	t.Run("skip policy records the specialist and continues", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "fundamental_analyst, price_analyst")
		engine.queueError(AgentFundamentalAnalyst, errors.New("model overloaded"))
		engine.queueText(AgentPriceAnalyst, "Trend looks flat.")
		engine.queueText(AgentPortfolioManager, "Only price data was available: neutral.")

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{
			SpecialistFailurePolicy: FailurePolicySkip,
		})
		result, err := orch.Run(context.Background(), "full analysis of PETR4")
		require.NoError(t, err)

		assert.Equal(t, []AgentType{AgentFundamentalAnalyst}, result.Skipped)
		assert.Equal(t, []AgentType{AgentPriceAnalyst}, result.Completed)
		assert.Equal(t, 1, result.ErrorCount)

		// The skip message keeps the one-message-per-step contract.
		require.Len(t, result.Messages, 5)
		assert.Equal(t, "fundamental_analyst", result.Messages[2].Name)
		assert.Contains(t, result.Messages[2].Content, "skipped")
	})

	t.Run("routing failure aborts before anything runs", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueError(AgentSupervisor, errors.New("provider down"))

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "q")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrRoutingFailure))
		assert.Nil(t, result)
		assert.Empty(t, engine.callsFor(AgentPortfolioManager))
	})

	t.Run("trace sinks observe every step and panics are isolated", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "price_analyst")
		engine.queueText(AgentPriceAnalyst, "trend up")
		engine.queueText(AgentPortfolioManager, "bullish")

		sink := &recordingSink{}
		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{}, panickySink{}, sink)

		result, err := orch.Run(context.Background(), "trend?")
		require.NoError(t, err)
		require.NotNil(t, result)

		require.Len(t, sink.events, 3)
		assert.Equal(t, AgentSupervisor, sink.events[0].Agent)
		assert.Equal(t, PhaseAwaitingRouting, sink.events[0].Phase)
		assert.Equal(t, AgentPriceAnalyst, sink.events[1].Agent)
		assert.Equal(t, AgentPortfolioManager, sink.events[2].Agent)
		for _, event := range sink.events {
			assert.Equal(t, result.RunID, event.RunID)
			assert.False(t, event.Timestamp.IsZero())
		}
	})

	t.Run("blank query is invalid input", func(t *testing.T) {
		orch := newTestOrchestrator(newFakeEngine(), stubRegistry(nil), RuntimeConfig{})

		_, err := orch.Run(context.Background(), "   ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("duplicate selection runs the specialist twice", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentSupervisor, "price_analyst, price_analyst")
		engine.queueText(AgentPriceAnalyst, "first pass")
		engine.queueText(AgentPriceAnalyst, "second pass")
		engine.queueText(AgentPortfolioManager, "done")

		orch := newTestOrchestrator(engine, stubRegistry(nil), RuntimeConfig{})
		result, err := orch.Run(context.Background(), "q")
		require.NoError(t, err)

		assert.Len(t, engine.callsFor(AgentPriceAnalyst), 2)
		require.Len(t, result.Messages, 5)
		assert.Equal(t, "first pass", result.Messages[2].Content)
		assert.Equal(t, "second pass", result.Messages[3].Content)
	})
}
