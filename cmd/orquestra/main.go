package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"orquestra/internal/adapters/ai"
	"orquestra/internal/adapters/brapi"
	"orquestra/internal/adapters/config"
	"orquestra/internal/adapters/errors/noop"
	"orquestra/internal/adapters/errors/sentry"
	pgclient "orquestra/internal/adapters/postgres"
	redisclient "orquestra/internal/adapters/redis"
	"orquestra/internal/adapters/tavily"
	"orquestra/internal/adapters/telegram"
	"orquestra/internal/agents"
	"orquestra/internal/capabilities"
	"orquestra/internal/console"
	"orquestra/internal/domain/run"
	"orquestra/internal/metrics"
	pgrepo "orquestra/internal/repository/postgres"
	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
	"orquestra/pkg/templates"
)

func main() {
	// Parse flags
	envFile := flag.String("env", "", "Path to a dotenv file (default: .env in the working directory)")
	stepBudget := flag.Int("step-budget", 0, "Maximum pipeline transitions for one run (overrides ORCH_STEP_BUDGET)")
	history := flag.Int("history", 0, "Print the last N journaled runs and exit")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors in console output")
	flag.Parse()

	// Load config
	cfg, err := config.LoadFrom(*envFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if *stepBudget > 0 {
		cfg.Orchestrator.StepBudget = *stepBudget
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run journal (optional, backs -history and per-run persistence)
	var journal *run.Service
	if cfg.Orchestrator.JournalEnabled && cfg.Postgres.Enabled() {
		pg, err := pgclient.NewClient(cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer pg.Close()

		if err := pgrepo.EnsureRunSchema(ctx, pg.DB()); err != nil {
			log.Fatalf("Failed to prepare run journal schema: %v", err)
		}

		journal = run.NewService(pgrepo.NewRunRepository(pg.DB()))
		metrics.RegisterJournalCollector(metrics.NewJournalCollector(log, pg.DB()))
		log.Info("✓ Run journal enabled")
	}

	if *history > 0 {
		if journal == nil {
			log.Fatal("History requires ORCH_JOURNAL_ENABLED=true and a configured POSTGRES_HOST")
		}
		if err := printHistory(ctx, journal, *history); err != nil {
			log.Fatalf("Failed to read run history: %v", err)
		}
		return
	}

	query, err := readQuery(flag.Args())
	if err != nil || query == "" {
		fmt.Println("Error: an analysis query is required (argument or piped stdin)")
		flag.Usage()
		os.Exit(1)
	}

	metrics.Init()
	if cfg.App.MetricsPort > 0 {
		go serveMetrics(cfg.App.MetricsPort, log)
	}

	// AI providers
	registry, err := ai.BuildRegistry(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize AI providers: %v", err)
	}

	selector := ai.NewModelSelector(registry, nil)
	usage := ai.NewUsageTracker()
	engine := agents.NewModelEngine(registry, selector, usage, cfg.AI.DefaultProvider)

	// Market data, with an optional Redis response cache
	var cache *redisclient.Client
	if cfg.Redis.Enabled() {
		cache, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, market data cache disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
			log.Info("✓ Market data cache enabled")
		}
	}

	deps := capabilities.Deps{
		Market: brapi.NewClient(cfg.Brapi, cache),
		Log:    log,
	}
	if cfg.Tavily.APIKey != "" {
		deps.News = tavily.NewClient(cfg.Tavily)
	}

	caps := capabilities.NewRegistry()
	capabilities.RegisterAll(caps, deps)
	caps.SetObserver(metrics.RecordCapabilityCall)

	// Pipeline
	runtime := agents.RuntimeConfig{
		StepBudget:              cfg.Orchestrator.StepBudget,
		MaxToolCalls:            cfg.Orchestrator.MaxToolCalls,
		ToolTimeout:             cfg.Orchestrator.ToolTimeout,
		RunTimeout:              cfg.Orchestrator.RunTimeout,
		SpecialistFailurePolicy: agents.FailurePolicy(cfg.Orchestrator.SpecialistFailurePolicy),
	}

	tmpl := templates.Get()
	renderer := console.NewRenderer(os.Stdout, !*noColor)

	orchestrator := agents.NewOrchestrator(
		agents.NewSupervisor(engine, tmpl),
		agents.NewSpecialist(engine, caps, tmpl, runtime),
		agents.NewSynthesizer(engine, tmpl),
		usage,
		runtime,
		renderer,
		metrics.StepSink{},
	)

	renderer.Start(query)

	started := time.Now()
	result, err := orchestrator.Run(ctx, query)
	if err != nil {
		renderer.Failure(err)
		inTok, outTok := usage.TotalTokens()
		metrics.RecordRun(true, time.Since(started), 0, inTok, outTok, usage.TotalCost())
		log.Errorw("Run failed", "error", err)
		flushTracker(errorTracker, log)
		os.Exit(1)
	}

	renderer.Summary(result)

	metrics.RecordRun(false, result.Duration, result.Steps, result.InputTokens, result.OutputTokens, result.CostUSD)
	metrics.RecordRoutingSelection(agentNames(result.Selected))

	if journal != nil {
		if err := journal.Record(ctx, journalEntry(result)); err != nil {
			log.Errorw("Failed to journal run", "run_id", result.RunID, "error", err)
		}
	}

	if cfg.Telegram.Enabled() {
		notifyRunCompleted(ctx, cfg.Telegram, result, log)
	}

	flushTracker(errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// flushTracker drains pending error events before the process exits.
func flushTracker(tracker errors.Tracker, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := tracker.Flush(ctx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}
}

// readQuery takes the query from the remaining arguments, falling back to
// stdin when none are given or the single argument is "-".
func readQuery(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		args = nil
	}
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read query from stdin")
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", errors.Wrap(errors.ErrInvalidInput, "no query given")
}

// serveMetrics exposes Prometheus metrics for the lifetime of the process.
func serveMetrics(port int, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Infof("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warnf("Metrics server stopped: %v", err)
	}
}

// journalEntry maps a completed run onto its persisted form.
func journalEntry(result *agents.RunResult) *run.Run {
	id, err := uuid.Parse(result.RunID)
	if err != nil {
		id = uuid.New()
	}

	return &run.Run{
		ID:              id,
		Query:           result.Query,
		SelectedAgents:  pq.StringArray(agentNames(result.Selected)),
		CompletedAgents: pq.StringArray(agentNames(result.Completed)),
		SkippedAgents:   pq.StringArray(agentNames(result.Skipped)),
		FinalReport:     result.FinalReport,
		Steps:           result.Steps,
		ErrorCount:      result.ErrorCount,
		InputTokens:     result.InputTokens,
		OutputTokens:    result.OutputTokens,
		CostUSD:         decimal.NewFromFloat(result.CostUSD),
		DurationMS:      result.Duration.Milliseconds(),
	}
}

// agentNames converts pipeline roles to their persisted string names.
func agentNames(types []agents.AgentType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// printHistory prints the most recent journaled runs plus 30-day analyst
// participation counts.
func printHistory(ctx context.Context, journal *run.Service, limit int) error {
	entries, err := journal.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No journaled runs yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tQUERY\tANALYSTS\tSTEPS\tTOKENS\tCOST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t$%s\n",
			humanize.Time(e.CreatedAt),
			flattenQuery(e.Query, 48),
			strings.Join(e.SelectedAgents, ","),
			e.Steps,
			humanize.Comma(e.InputTokens+e.OutputTokens),
			e.CostUSD.StringFixed(4),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats, err := journal.AgentStats(ctx, time.Time{})
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Analyst participation (30 days):")
	for _, s := range stats {
		fmt.Printf("  %-20s selected %d, completed %d, skipped %d\n",
			s.AgentName, s.TimesSelected, s.TimesCompleted, s.TimesSkipped)
	}
	return nil
}

// flattenQuery collapses a query onto one line bounded to max runes.
func flattenQuery(q string, max int) string {
	q = strings.Join(strings.Fields(q), " ")
	runes := []rune(q)
	if len(runes) <= max {
		return q
	}
	return string(runes[:max-1]) + "…"
}

// notifyRunCompleted pushes the final report to Telegram. Delivery is best
// effort: failures are logged and never fail the run.
func notifyRunCompleted(ctx context.Context, cfg config.TelegramConfig, result *agents.RunResult, log *logger.Logger) {
	notifier, err := telegram.NewNotifier(cfg)
	if err != nil {
		log.Warnf("Telegram notifier unavailable: %v", err)
		return
	}

	if err := notifier.NotifyRunCompleted(ctx, result); err != nil {
		log.Warnf("Telegram notification failed: %v", err)
	}
}
