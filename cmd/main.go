package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/config"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/notification"
	domainReports "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
	domainRepositories "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/rules"
	loggerPkg "github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/logger"
	prometheusMetrics "github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/metrics"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/nexus"
	notificationInfra "github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/notification"
	reportsInfra "github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/reports"
	sqliteRepositories "github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/repositories"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/interfaces/http/handlers"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/interfaces/http/router"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/usecases/cleanup"
	"github.com/skarzhevskyy/nexus-repository-cleanup/pkg/constants"
	"github.com/skarzhevskyy/nexus-repository-cleanup/pkg/helper"
)

// Version and BuildTime are set during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	fmt.Printf("Nexus Repository Cleanup %s (built at %s)\n", Version, BuildTime)

	// Load and validate configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger; one-shot runs also log to the terminal
	cfg.Logger.Console = cfg.RunMode == config.RunModeOnce
	log, err := loggerPkg.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	logStartupInfo(log, cfg, Version, BuildTime)

	// Load and validate cleanup rules
	ruleSet, err := rules.ParseFile(cfg.RulesFile)
	if err != nil {
		log.Fatal("Failed to load cleanup rules",
			zap.String("rules_file", cfg.RulesFile),
			zap.Error(err))
	}
	log.Info("Cleanup rules loaded",
		zap.String("rules_file", cfg.RulesFile),
		zap.Int("rules", len(ruleSet.Rules)))

	// Initialize infrastructure dependencies
	catalog, err := nexus.NewClient(nexus.Config{
		BaseURL:  cfg.NexusURL,
		Username: cfg.NexusUsername,
		Password: cfg.NexusPassword,
		Token:    cfg.NexusToken,
		Timeout:  cfg.NexusTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize Nexus client", zap.Error(err))
	}

	results := initializeResultRepository(cfg, log)
	notifier := initializeNotifier(cfg, log)
	promMetrics := prometheusMetrics.NewPrometheusMetrics(log)
	metricsCollector := prometheusMetrics.NewPrometheusCollector(promMetrics)

	reportWriter, componentWriter, closeWriters, err := initializeWriters(cfg)
	if err != nil {
		log.Fatal("Failed to initialize report writers", zap.Error(err))
	}
	defer closeWriters(log)

	opts, err := cleanupOptions(cfg)
	if err != nil {
		log.Fatal("Invalid cleanup configuration", zap.Error(err))
	}

	cleanupService := cleanup.NewCleanupService(
		catalog, results, notifier, metricsCollector,
		ruleSet, reportWriter, componentWriter, log, opts)

	if cfg.RunMode == config.RunModeOnce {
		runOnce(cleanupService, closeWriters, log)
		return
	}

	// Server mode: scheduled cleanups plus the HTTP API
	appHandlers := handlers.NewHandlers(cleanupService, results, metricsCollector, log, Version, BuildTime)
	app := router.NewFiberApp(log)
	router.SetupRoutes(app, appHandlers, metricsCollector, log)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	cronScheduler := setupCronJobs(cleanupCtx, cleanupService, cfg.CleanupSchedule, log)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	serverErrChan := startServer(app, cfg.HTTPPort, log)
	handleGracefulShutdown(app, serverErrChan, cleanupCancel, log)
}

func logStartupInfo(log *zap.Logger, cfg *config.Config, version, buildTime string) {
	log.Info("Starting Nexus Repository Cleanup",
		zap.String("version", version),
		zap.String("buildTime", buildTime))

	log.Info("Configuration loaded",
		zap.String("nexus_url", cfg.NexusURL),
		zap.String("nexus_username", helper.MaskValue(cfg.NexusUsername)),
		zap.String("nexus_token", helper.MaskValue(cfg.NexusToken)),
		zap.String("rules_file", cfg.RulesFile),
		zap.Bool("dry_run", cfg.DryRun),
		zap.String("run_mode", cfg.RunMode),
		zap.Int("concurrency", cfg.Concurrency),
		zap.String("cleanup_schedule", cfg.CleanupSchedule),
		zap.String("http_port", cfg.HTTPPort))

	log.Info("Logger configuration",
		zap.String("log_level", cfg.Logger.Level),
		zap.String("log_dir", cfg.Logger.LogDir),
		zap.Int("log_max_size", cfg.Logger.MaxSize),
		zap.Int("log_max_backups", cfg.Logger.MaxBackups),
		zap.Int("log_max_age", cfg.Logger.MaxAge),
		zap.Bool("log_compress", cfg.Logger.Compress))
}

func initializeResultRepository(cfg *config.Config, log *zap.Logger) domainRepositories.CleanupResultRepository {
	repo, err := sqliteRepositories.NewSQLiteCleanupResultRepository(cfg.DBPath, log)
	if err != nil {
		if cfg.RunMode == config.RunModeServer {
			log.Fatal("Failed to initialize run history database",
				zap.String("db_path", cfg.DBPath),
				zap.Error(err))
		}
		log.Warn("Run history disabled, can't open database",
			zap.String("db_path", cfg.DBPath),
			zap.Error(err))
		return nil
	}
	return repo
}

func initializeNotifier(cfg *config.Config, log *zap.Logger) notification.Notifier {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		log.Info("Telegram notifications disabled")
		return nil
	}
	return notificationInfra.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, log)
}

func initializeWriters(cfg *config.Config) (reportWriter, componentWriter domainReports.Writer, closeWriters func(*zap.Logger), err error) {
	console := reportsInfra.NewConsoleWriter(os.Stdout, cfg.DryRun)
	reportWriter = console

	var fileWriters []domainReports.Writer
	if cfg.ReportOutputFile != "" {
		fw, err := reportsInfra.NewFileWriter(cfg.ReportOutputFile)
		if err != nil {
			return nil, nil, nil, err
		}
		fileWriters = append(fileWriters, fw)
		reportWriter = reportsInfra.NewMultiWriter(console, fw)
	}

	if cfg.ComponentOutputFile != "" {
		cw, err := reportsInfra.NewFileWriter(cfg.ComponentOutputFile)
		if err != nil {
			return nil, nil, nil, err
		}
		fileWriters = append(fileWriters, cw)
		componentWriter = cw
	}

	closed := false
	closeWriters = func(log *zap.Logger) {
		if closed {
			return
		}
		closed = true
		for _, w := range fileWriters {
			if err := w.Close(); err != nil {
				log.Error("Failed to close report writer", zap.Error(err))
			}
		}
	}
	return reportWriter, componentWriter, closeWriters, nil
}

func cleanupOptions(cfg *config.Config) (cleanup.Options, error) {
	repoSort, err := domainReports.ParseSortBy(cfg.RepositorySort)
	if err != nil {
		return cleanup.Options{}, fmt.Errorf("REPO_SORT: %w", err)
	}
	groupSort, err := domainReports.ParseSortBy(cfg.GroupSort)
	if err != nil {
		return cleanup.Options{}, fmt.Errorf("GROUP_SORT: %w", err)
	}

	return cleanup.Options{
		DryRun:             cfg.DryRun,
		Concurrency:        cfg.Concurrency,
		Timeout:            constants.CleanupTimeout,
		ReportRepositories: cfg.ReportRepositories,
		ReportGroups:       cfg.ReportGroups,
		RepositorySort:     repoSort,
		GroupSort:          groupSort,
		TopGroups:          cfg.TopGroups,
	}, nil
}

func runOnce(cleanupService *cleanup.CleanupService, closeWriters func(*zap.Logger), log *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cleanupService.Cleanup(ctx)
	closeWriters(log)

	if err != nil {
		log.Error("Cleanup run failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Info("Cleanup run completed")
}

func setupCronJobs(ctx context.Context, cleanupService *cleanup.CleanupService, schedule string, log *zap.Logger) *cron.Cron {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := c.AddFunc(schedule, func() {
		jobCtx, cancel := context.WithTimeout(ctx, constants.CleanupTimeout)
		defer cancel()

		if err := cleanupService.Cleanup(jobCtx); err != nil {
			log.Error("Cleanup job failed",
				zap.Error(err),
				zap.String("schedule", schedule))
		}
	})
	if err != nil {
		log.Fatal("Failed to schedule cleanup job", zap.Error(err))
	}

	log.Info("Cron scheduler started", zap.String("schedule", schedule))
	return c
}

func startServer(app *router.FiberApp, port string, log *zap.Logger) chan error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			// Only send error if it's not a normal shutdown
			if !strings.Contains(err.Error(), "server closed") {
				log.Error("Server error", zap.Error(err))
				serverErr <- err
			} else {
				log.Info("Server shutdown successfully")
			}
		}
	}()

	log.Info("Service started successfully",
		zap.String("port", port),
		zap.String("version", Version),
		zap.String("buildTime", BuildTime))

	return serverErr
}

func handleGracefulShutdown(app *router.FiberApp, serverErr chan error, cleanupCancel context.CancelFunc, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var shutdownErr error
	select {
	case <-quit:
		log.Info("Received shutdown signal, initiating graceful shutdown...")
	case err := <-serverErr:
		log.Error("Server error occurred", zap.Error(err))
		shutdownErr = err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer shutdownCancel()

	// Stop cleanup jobs first
	log.Info("Stopping cleanup jobs...")
	cleanupCancel()

	log.Info("Shutting down HTTP server...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", zap.Error(err))
		shutdownErr = err
	}

	if shutdownErr != nil {
		log.Error("Service shutdown completed with errors", zap.Error(shutdownErr))
		os.Exit(1)
	}

	log.Info("Service shutdown completed successfully")
	os.Exit(0)
}
