package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationState(t *testing.T) {
	t.Run("starts with the user query", func(t *testing.T) {
		state := NewConversationState("how healthy is PETR4?")

		require.Equal(t, 1, state.MessageCount())
		first := state.Messages()[0]
		assert.Equal(t, RoleUser, first.Role)
		assert.Equal(t, "how healthy is PETR4?", first.Content)
		assert.Equal(t, "how healthy is PETR4?", state.Query())
		assert.False(t, first.Timestamp.IsZero())
	})

	t.Run("append preserves order", func(t *testing.T) {
		state := NewConversationState("q")
		state.Append(RoleSupervisor, "supervisor", "Routing query to: price_analyst")
		state.Append(RoleAnalyst, "price_analyst", "trend is up")

		msgs := state.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, RoleSupervisor, msgs[1].Role)
		assert.Equal(t, "price_analyst", msgs[2].Name)

		last, ok := state.LastMessage()
		require.True(t, ok)
		assert.Equal(t, "trend is up", last.Content)
	})

	t.Run("messages returns a copy", func(t *testing.T) {
		state := NewConversationState("q")
		msgs := state.Messages()
		msgs[0].Content = "mutated"

		assert.Equal(t, "q", state.Messages()[0].Content)
	})

	t.Run("selection is fixed exactly once", func(t *testing.T) {
		state := NewConversationState("q")
		state.SetSelected([]AgentType{AgentPriceAnalyst})

		assert.Equal(t, []AgentType{AgentPriceAnalyst}, state.Selected())
		assert.Panics(t, func() {
			state.SetSelected([]AgentType{AgentFundamentalAnalyst})
		})
	})

	t.Run("an empty selection is still a selection", func(t *testing.T) {
		state := NewConversationState("q")
		state.SetSelected(nil)

		assert.Empty(t, state.Selected())
		assert.Panics(t, func() { state.SetSelected(nil) })
	})

	t.Run("selection duplicates are preserved", func(t *testing.T) {
		state := NewConversationState("q")
		state.SetSelected([]AgentType{AgentPriceAnalyst, AgentPriceAnalyst})

		assert.Equal(t, []AgentType{AgentPriceAnalyst, AgentPriceAnalyst}, state.Selected())
	})

	t.Run("cursor advances one step at a time", func(t *testing.T) {
		state := NewConversationState("q")
		state.SetSelected([]AgentType{AgentFundamentalAnalyst, AgentPriceAnalyst})

		assert.Equal(t, 0, state.Cursor())
		state.AdvanceCursor()
		assert.Equal(t, 1, state.Cursor())
		state.AdvanceCursor()
		assert.Equal(t, 2, state.Cursor())

		assert.Panics(t, func() { state.AdvanceCursor() })
	})

	t.Run("completed and skipped come back in canonical order", func(t *testing.T) {
		state := NewConversationState("q")
		state.MarkCompleted(AgentPriceAnalyst)
		state.MarkCompleted(AgentFundamentalAnalyst)
		state.MarkSkipped(AgentValuationAnalyst)

		assert.Equal(t, []AgentType{AgentFundamentalAnalyst, AgentPriceAnalyst}, state.CompletedAgents())
		assert.Equal(t, []AgentType{AgentValuationAnalyst}, state.SkippedAgents())
	})

	t.Run("error count accumulates", func(t *testing.T) {
		state := NewConversationState("q")
		assert.Equal(t, 0, state.ErrorCount())

		state.RecordError()
		state.RecordError()
		assert.Equal(t, 2, state.ErrorCount())
	})
}
