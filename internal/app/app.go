package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"heatwatch/internal/config"
	"heatwatch/internal/infrastructure/crawler"
	"heatwatch/internal/infrastructure/extractor"
	"heatwatch/internal/infrastructure/language"
	"heatwatch/internal/infrastructure/report"
	"heatwatch/internal/infrastructure/scheduler"
	"heatwatch/internal/infrastructure/storage"
	"heatwatch/internal/infrastructure/telegram"
	"heatwatch/internal/lexicon"
	"heatwatch/internal/logging"
	"heatwatch/internal/ports"
	"heatwatch/internal/retry"
	"heatwatch/internal/scanner"
	"heatwatch/internal/score"
	"heatwatch/internal/usecase"
)

// csvExportLimit caps rows in the optional CSV export.
const csvExportLimit = 10000

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repository *storage.SQLiteRepository
	pipeline   *usecase.Pipeline
	scheduler  *usecase.Scheduler
}

// New builds a runnable application instance. A store that cannot be
// opened is fatal; nothing can be persisted without it.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	repository, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	scorer, err := score.NewScorer(lexicon.Default())
	if err != nil {
		repository.Close()
		return nil, fmt.Errorf("build scorer: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Scraper.RequestTimeout()}

	registry := scanner.NewRegistry()
	registry.Register(crawler.NewSectionScanner(httpClient, cfg.Scraper.UserAgent))
	registry.Register(crawler.NewRSSScanner(cfg.Scraper.UserAgent))

	retryCfg := retry.Config{
		MaxAttempts: cfg.Scraper.RetryAttempts,
		Delay:       cfg.Scraper.RetryDelay(),
	}

	var detector ports.LanguageDetector
	if cfg.Scraper.DetectLanguage {
		detector = language.NewDetector()
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var csvExport func(ctx context.Context) error
	if cfg.Report.CSVPath != "" {
		csvPath := cfg.Report.CSVPath
		csvExport = func(ctx context.Context) error {
			file, err := os.Create(csvPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", csvPath, err)
			}
			defer file.Close()
			return report.WriteCSV(ctx, repository, file, csvExportLimit)
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Registry:   registry,
		Extractor:  extractor.NewReadabilityExtractor(httpClient, cfg.Scraper.UserAgent, retryCfg),
		Repository: repository,
		Reporter:   report.NewTextReporter(repository, cfg.Report.TopN),
		Notifier:   notifier,
		Detector:   detector,
		Scorer:     scorer,
		Sources:    cfg.Sources,
		Scraper:    cfg.Scraper,
		ReportPath: cfg.Report.Path,
		CSVExport:  csvExport,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	application := &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repository,
		pipeline:   pipeline,
	}

	if cfg.Scheduler.CronExpression != "" {
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
		application.scheduler = usecase.NewScheduler(driver, pipeline,
			baseLogger.With("component", "scheduler"))
	}

	return application, nil
}

// Run executes a single scrape run, or keeps the cron scheduler alive
// until ctx is cancelled when a cron expression is configured.
func (a *Application) Run(ctx context.Context) error {
	defer a.repository.Close()

	if a.scheduler == nil {
		return a.pipeline.Run(ctx)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}
