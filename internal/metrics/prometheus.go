package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Run metrics
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orquestra_runs_total",
			Help: "Total number of orchestration runs",
		},
		[]string{"status"}, // status: done|failed
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orquestra_run_duration_seconds",
			Help:    "End-to-end run duration in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
	)

	RunSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orquestra_run_steps",
			Help:    "State machine transitions consumed per run",
			Buckets: []float64{2, 3, 4, 5, 6, 8, 10},
		},
	)

	// Routing metrics
	RoutingSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orquestra_routing_selections_total",
			Help: "Analyst selections made by the supervisor",
		},
		[]string{"agent"}, // agent name, or "none" for empty selections
	)

	// Step metrics
	StepExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orquestra_step_executions_total",
			Help: "Total number of pipeline steps",
		},
		[]string{"agent", "status"}, // status: success|skipped
	)

	StepLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orquestra_step_latency_seconds",
			Help:    "Pipeline step latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"agent"},
	)

	// Capability metrics
	CapabilityCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orquestra_capability_calls_total",
			Help: "Total number of capability executions",
		},
		[]string{"capability", "status"}, // status: success|error
	)

	CapabilityLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orquestra_capability_latency_seconds",
			Help:    "Capability execution latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"capability"},
	)

	// Usage metrics
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orquestra_tokens_total",
			Help: "Total tokens consumed by reasoning calls",
		},
		[]string{"type"}, // type: input|output
	)

	CostUSD = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orquestra_cost_usd_total",
			Help: "Cumulative AI spend in USD",
		},
	)

	RecoveredErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orquestra_recovered_errors_total",
			Help: "Capability failures and skips absorbed without aborting a run",
		},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	// Run metrics
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(RunSteps)

	// Routing metrics
	prometheus.MustRegister(RoutingSelections)

	// Step metrics
	prometheus.MustRegister(StepExecutions)
	prometheus.MustRegister(StepLatency)

	// Capability metrics
	prometheus.MustRegister(CapabilityCalls)
	prometheus.MustRegister(CapabilityLatency)

	// Usage metrics
	prometheus.MustRegister(TokensTotal)
	prometheus.MustRegister(CostUSD)
	prometheus.MustRegister(RecoveredErrors)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRun records a finished run
func RecordRun(failed bool, duration time.Duration, steps int, inputTokens, outputTokens int64, costUSD float64) {
	status := "done"
	if failed {
		status = "failed"
	}

	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
	RunSteps.Observe(float64(steps))

	if inputTokens > 0 {
		TokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		TokensTotal.WithLabelValues("output").Add(float64(outputTokens))
	}
	if costUSD > 0 {
		CostUSD.Add(costUSD)
	}
}

// RecordRoutingSelection records the supervisor's choice of analysts
func RecordRoutingSelection(agents []string) {
	if len(agents) == 0 {
		RoutingSelections.WithLabelValues("none").Inc()
		return
	}
	for _, agent := range agents {
		RoutingSelections.WithLabelValues(agent).Inc()
	}
}

// RecordStep records one pipeline step
func RecordStep(agent string, duration time.Duration, skipped bool) {
	status := "success"
	if skipped {
		status = "skipped"
	}

	StepExecutions.WithLabelValues(agent, status).Inc()
	StepLatency.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordCapabilityCall records a capability execution
func RecordCapabilityCall(capability string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	CapabilityCalls.WithLabelValues(capability, status).Inc()
	CapabilityLatency.WithLabelValues(capability).Observe(latency.Seconds())
}
