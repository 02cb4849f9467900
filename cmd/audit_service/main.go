package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/teleaudit/trat/internal/platform/config"
	"github.com/teleaudit/trat/internal/platform/database"
	"github.com/teleaudit/trat/internal/platform/logger"
	"github.com/teleaudit/trat/internal/platform/messagebroker"

	"github.com/teleaudit/trat/internal/audit_service/adapters/natspub"
	"github.com/teleaudit/trat/internal/audit_service/adapters/nodeclient"
	"github.com/teleaudit/trat/internal/audit_service/app"
	"github.com/teleaudit/trat/internal/audit_service/domain"
	"github.com/teleaudit/trat/internal/audit_service/extract"
	"github.com/teleaudit/trat/internal/audit_service/ingest"
	"github.com/teleaudit/trat/internal/audit_service/report"
	pgrepo "github.com/teleaudit/trat/internal/audit_service/repository/postgres"
	"github.com/teleaudit/trat/internal/audit_service/repository/rulefile"
)

const (
	serviceName     = "routing_audit_service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Starting service...")

	inputFile := cfg.InputFile
	if len(os.Args) > 1 {
		inputFile = os.Args[1]
	}
	if inputFile == "" {
		appLogger.Error("No audit source file provided (argument or APP_INPUT_FILE)")
		os.Exit(1)
	}

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"nodes", len(cfg.Nodes),
		"rules_source", cfg.RulesSource,
		"request_timeout", cfg.RequestTimeout,
		"throttle_delay", cfg.ThrottleDelay,
		"concurrency", cfg.Concurrency,
		"metrics_port", cfg.MetricsPort,
		"input_file", inputFile,
	)

	// Node pool from the configured failover order.
	urls := make([]string, len(cfg.Nodes))
	for i, host := range cfg.Nodes {
		urls[i] = domain.NodeURL(host, cfg.NodePort, cfg.NodeAPIPath)
	}
	pool, err := domain.NewNodePool(urls)
	if err != nil {
		appLogger.Error("Failed to build node pool", "error", err)
		os.Exit(1)
	}

	// Routing rule table.
	var ruleRepo domain.RuleRepository
	switch cfg.RulesSource {
	case "postgres":
		dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize database connection pool", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		ruleRepo = pgrepo.NewPgRuleRepository(dbPool, appLogger)
	default:
		ruleRepo = rulefile.NewFileRuleRepository(cfg.RulesFile, appLogger)
	}
	rules, err := ruleRepo.LoadRules(mainCtx)
	if err != nil {
		appLogger.Error("Failed to load routing rules", "error", err)
		os.Exit(1)
	}
	ruleTable, err := domain.NewRuleTable(rules)
	if err != nil {
		appLogger.Error("Routing rule table unusable", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Routing rule table ready", "rules", ruleTable.Len())

	runID := time.Now().UTC().Format("20060102_150405")

	// Optional verdict event publishing.
	var sink app.VerdictSink
	var publisher *natspub.Publisher
	if cfg.NATSEnabled {
		natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, appLogger, serviceName)
		if err != nil {
			appLogger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		publisher = natspub.NewPublisher(natsClient, cfg.NATSSubjectPrefix, runID, appLogger)
		sink = publisher
		appLogger.Info("NATS verdict publishing enabled", "subject_prefix", cfg.NATSSubjectPrefix)
	}

	msisdnOpts := domain.MSISDNOptions{
		CountryCode:      cfg.CountryCode,
		MobilePrefix:     cfg.MobilePrefix,
		SubscriberDigits: cfg.SubscriberDigits,
	}
	records, err := ingest.NewReader(msisdnOpts, appLogger).ReadFile(inputFile)
	if err != nil {
		appLogger.Error("Failed to ingest audit source", "file", inputFile, "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		appLogger.Error("Audit source contained no usable records", "file", inputFile)
		os.Exit(1)
	}

	transport := nodeclient.NewHTTPNodeClient(appLogger, nil)
	resolver := app.NewFailoverResolver(pool, transport, extract.NewDefault(), app.ResolverConfig{
		RequestTimeout: cfg.RequestTimeout,
		ThrottleDelay:  cfg.ThrottleDelay,
		DeadThreshold:  cfg.DeadThreshold,
	}, appLogger)
	comparator := app.NewComparator(ruleTable, domain.DefaultCarrierRegistry(), appLogger)
	engine := app.NewEngine(pool, resolver, comparator, cfg.Concurrency, sink, appLogger)

	// Ops HTTP surface: health + prometheus metrics.
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: router,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("Metrics server listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()

		verdicts, summary, runErr := engine.Run(groupCtx, records)
		if runErr != nil {
			appLogger.Warn("Audit run stopped before completion", "error", runErr)
		}

		if publisher != nil {
			if err := publisher.PublishSummary(context.Background(), summary); err != nil {
				appLogger.Warn("Failed to publish summary event", "error", err)
			}
		}

		writer := report.NewWriter(cfg.OutputDir, appLogger)
		csvPath, txtPath, err := writer.WriteAll(inputFile, runID, verdicts, summary)
		if err != nil {
			return fmt.Errorf("writing reports: %w", err)
		}
		appLogger.Info("Audit complete",
			"records", summary.TotalRecords,
			"success_rate", fmt.Sprintf("%.1f%%", summary.SuccessRate()*100),
			"csv_report", csvPath,
			"txt_report", txtPath,
		)
		return runErr
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Service stopped")
}
