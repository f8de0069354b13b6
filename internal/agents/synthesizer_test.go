package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orquestra/internal/adapters/ai"
	"orquestra/pkg/errors"
)

func TestSynthesizerSummarize(t *testing.T) {
	t.Run("appends exactly one portfolio manager message", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentPortfolioManager, "Hold PETR4; fundamentals are stable.")
		synthesizer := NewSynthesizer(engine, nil)

		state := NewConversationState("how is PETR4 doing?")
		state.Append(RoleSupervisor, "supervisor", "Routing query to: fundamental_analyst")
		state.Append(RoleAnalyst, "fundamental_analyst", "Margins improved over three years.")
		state.MarkCompleted(AgentFundamentalAnalyst)

		report, err := synthesizer.Summarize(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "Hold PETR4; fundamentals are stable.", report)

		last, ok := state.LastMessage()
		require.True(t, ok)
		assert.Equal(t, RoleManager, last.Role)
		assert.Equal(t, "portfolio_manager", last.Name)
		assert.Equal(t, report, last.Content)
	})

	t.Run("prompt names covered and missing domains", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentPortfolioManager, "summary")
		synthesizer := NewSynthesizer(engine, nil)

		state := NewConversationState("q")
		state.MarkCompleted(AgentFundamentalAnalyst)

		_, err := synthesizer.Summarize(context.Background(), state)
		require.NoError(t, err)

		calls := engine.callsFor(AgentPortfolioManager)
		require.Len(t, calls, 1)
		assert.Nil(t, calls[0].tools)

		system := calls[0].messages[0]
		assert.Equal(t, ai.RoleSystem, system.Role)
		assert.Contains(t, system.Content, "Reports are available from: fundamental_analyst")
		assert.Contains(t, system.Content, "No report was produced by: valuation_analyst, price_analyst")
	})

	t.Run("no specialist reports at all switches to the no-data clause", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentPortfolioManager, "No specialist data was available for this request.")
		synthesizer := NewSynthesizer(engine, nil)

		state := NewConversationState("q")

		_, err := synthesizer.Summarize(context.Background(), state)
		require.NoError(t, err)

		system := engine.callsFor(AgentPortfolioManager)[0].messages[0]
		assert.Contains(t, system.Content, "No specialist produced any report")
		assert.NotContains(t, system.Content, "No report was produced by:")
	})

	t.Run("attribution coverage is stable across replays", func(t *testing.T) {
		state := NewConversationState("q")
		state.Append(RoleAnalyst, "price_analyst", "trend up")
		state.MarkCompleted(AgentPriceAnalyst)

		prompts := make([]string, 0, 2)
		for i := 0; i < 2; i++ {
			engine := newFakeEngine()
			engine.queueText(AgentPortfolioManager, "summary")
			_, err := NewSynthesizer(engine, nil).Summarize(context.Background(), state)
			require.NoError(t, err)
			prompts = append(prompts, engine.callsFor(AgentPortfolioManager)[0].messages[0].Content)
		}
		assert.Equal(t, prompts[0], prompts[1])
	})

	t.Run("completion failure is a reasoning failure", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueError(AgentPortfolioManager, errors.New("quota exceeded"))
		synthesizer := NewSynthesizer(engine, nil)

		state := NewConversationState("q")
		before := state.MessageCount()

		_, err := synthesizer.Summarize(context.Background(), state)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrReasoningEngine))
		assert.Equal(t, before, state.MessageCount())
	})

	t.Run("empty content is a reasoning failure", func(t *testing.T) {
		engine := newFakeEngine()
		engine.queueText(AgentPortfolioManager, "  ")
		synthesizer := NewSynthesizer(engine, nil)

		_, err := synthesizer.Summarize(context.Background(), NewConversationState("q"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrReasoningEngine))
	})
}
