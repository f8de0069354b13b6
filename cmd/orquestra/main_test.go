package main

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orquestra/internal/agents"
)

func TestJournalEntry(t *testing.T) {
	runID := uuid.New()
	result := &agents.RunResult{
		RunID:        runID.String(),
		Query:        "Should I buy PETR4?",
		Selected:     []agents.AgentType{agents.AgentFundamentalAnalyst, agents.AgentPriceAnalyst},
		Completed:    []agents.AgentType{agents.AgentFundamentalAnalyst},
		Skipped:      []agents.AgentType{agents.AgentPriceAnalyst},
		ErrorCount:   2,
		FinalReport:  "Hold.",
		Steps:        4,
		Duration:     2300 * time.Millisecond,
		InputTokens:  5200,
		OutputTokens: 1840,
		CostUSD:      0.0123,
	}

	entry := journalEntry(result)
	require.NotNil(t, entry)

	assert.Equal(t, runID, entry.ID)
	assert.Equal(t, "Should I buy PETR4?", entry.Query)
	assert.Equal(t, []string{"fundamental_analyst", "price_analyst"}, []string(entry.SelectedAgents))
	assert.Equal(t, []string{"fundamental_analyst"}, []string(entry.CompletedAgents))
	assert.Equal(t, []string{"price_analyst"}, []string(entry.SkippedAgents))
	assert.Equal(t, "Hold.", entry.FinalReport)
	assert.Equal(t, 4, entry.Steps)
	assert.Equal(t, 2, entry.ErrorCount)
	assert.Equal(t, int64(5200), entry.InputTokens)
	assert.Equal(t, int64(1840), entry.OutputTokens)
	assert.Equal(t, "0.0123", entry.CostUSD.String())
	assert.Equal(t, int64(2300), entry.DurationMS)
}

func TestJournalEntryReplacesUnparseableRunID(t *testing.T) {
	entry := journalEntry(&agents.RunResult{RunID: "not-a-uuid", Query: "q"})

	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestAgentNames(t *testing.T) {
	names := agentNames([]agents.AgentType{agents.AgentValuationAnalyst, agents.AgentPriceAnalyst})

	assert.Equal(t, []string{"valuation_analyst", "price_analyst"}, names)
}

func TestFlattenQuery(t *testing.T) {
	assert.Equal(t, "short query", flattenQuery("short query", 48))
	assert.Equal(t, "line one line two", flattenQuery("line one\nline two", 48))

	long := strings.Repeat("compare VALE3 and PETR4 ", 10)
	flat := flattenQuery(long, 20)
	assert.Len(t, []rune(flat), 20)
	assert.True(t, strings.HasSuffix(flat, "…"))
}

func TestReadQueryFromArgs(t *testing.T) {
	query, err := readQuery([]string{"Analyze", "VALE3", "dividends"})

	assert.NoError(t, err)
	assert.Equal(t, "Analyze VALE3 dividends", query)
}
