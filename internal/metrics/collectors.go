package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"orquestra/pkg/logger"
)

// JournalCollector reads cumulative run statistics from the journal table, so
// a scrape reflects history across process restarts rather than only the
// counters of the current process.
type JournalCollector struct {
	log *logger.Logger
	db  *sqlx.DB

	// Descriptors
	journalRuns     *prometheus.Desc
	journalRuns24h  *prometheus.Desc
	journalCostUSD  *prometheus.Desc
	agentSelections *prometheus.Desc
}

// NewJournalCollector creates a collector backed by the run journal
func NewJournalCollector(log *logger.Logger, db *sqlx.DB) *JournalCollector {
	return &JournalCollector{
		log: log,
		db:  db,

		journalRuns: prometheus.NewDesc(
			"orquestra_journal_runs",
			"Total number of journaled runs",
			nil, nil,
		),
		journalRuns24h: prometheus.NewDesc(
			"orquestra_journal_runs_24h",
			"Runs journaled in the last 24 hours",
			nil, nil,
		),
		journalCostUSD: prometheus.NewDesc(
			"orquestra_journal_cost_usd",
			"Total AI spend recorded in the journal",
			nil, nil,
		),
		agentSelections: prometheus.NewDesc(
			"orquestra_journal_agent_selections_30d",
			"Analyst selections recorded over the last 30 days",
			[]string{"agent"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *JournalCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.journalRuns
	ch <- c.journalRuns24h
	ch <- c.journalCostUSD
	ch <- c.agentSelections
}

// Collect implements prometheus.Collector
func (c *JournalCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectRunCounts(ctx, ch)
	c.collectCost(ctx, ch)
	c.collectAgentSelections(ctx, ch)
}

func (c *JournalCollector) collectRunCounts(ctx context.Context, ch chan<- prometheus.Metric) {
	var total int
	if err := c.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM analysis_runs"); err != nil {
		c.log.Error("Failed to collect journal run count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.journalRuns,
		prometheus.GaugeValue,
		float64(total),
	)

	var recent int
	err := c.db.GetContext(ctx, &recent, `
		SELECT COUNT(*)
		FROM analysis_runs
		WHERE created_at > NOW() - INTERVAL '24 hours'
	`)
	if err != nil {
		c.log.Error("Failed to collect 24h run count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.journalRuns24h,
		prometheus.GaugeValue,
		float64(recent),
	)
}

func (c *JournalCollector) collectCost(ctx context.Context, ch chan<- prometheus.Metric) {
	var cost float64
	err := c.db.GetContext(ctx, &cost, "SELECT COALESCE(SUM(cost_usd), 0) FROM analysis_runs")
	if err != nil {
		c.log.Error("Failed to collect journal cost", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.journalCostUSD,
		prometheus.GaugeValue,
		cost,
	)
}

func (c *JournalCollector) collectAgentSelections(ctx context.Context, ch chan<- prometheus.Metric) {
	type selectionStat struct {
		Agent string `db:"agent"`
		Count int    `db:"count"`
	}

	var stats []selectionStat
	err := c.db.SelectContext(ctx, &stats, `
		SELECT agent, COUNT(*) as count
		FROM analysis_runs
		CROSS JOIN LATERAL unnest(selected_agents) AS agent
		WHERE created_at > NOW() - INTERVAL '30 days'
		GROUP BY agent
	`)
	if err != nil {
		c.log.Error("Failed to collect agent selections", "error", err)
		return
	}

	for _, stat := range stats {
		ch <- prometheus.MustNewConstMetric(
			c.agentSelections,
			prometheus.GaugeValue,
			float64(stat.Count),
			stat.Agent,
		)
	}
}

// RegisterJournalCollector registers the journal collector
func RegisterJournalCollector(collector *JournalCollector) {
	prometheus.MustRegister(collector)
}
