package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"heatwatch/internal/config"
	"heatwatch/internal/domain"
	"heatwatch/internal/ports"
	"heatwatch/internal/ratelimit"
	"heatwatch/internal/scanner"
	"heatwatch/internal/score"
)

// csvExporter is the optional export hook; the SQLite repository
// satisfies it through the report package.
type csvExporter func(ctx context.Context) error

// PipelineDeps wires all driven adapters into the scrape workflow.
type PipelineDeps struct {
	Registry   *scanner.Registry
	Extractor  ports.ArticleExtractor
	Repository ports.ArticleRepository
	Reporter   ports.Reporter
	Notifier   ports.Notifier
	Detector   ports.LanguageDetector
	Scorer     *score.Scorer
	Sources    []config.SourceConfig
	Scraper    config.ScraperConfig
	ReportPath string
	CSVExport  csvExporter
	Logger     *slog.Logger
}

// Pipeline implements the scrape-score-persist workflow: for each source
// discover links, then per URL fetch, extract, score, classify, and store.
// One URL's failure never stops the run; only an unreachable store does.
type Pipeline struct {
	registry   *scanner.Registry
	extractor  ports.ArticleExtractor
	repository ports.ArticleRepository
	reporter   ports.Reporter
	notifier   ports.Notifier
	detector   ports.LanguageDetector
	scorer     *score.Scorer
	sources    []config.SourceConfig
	scraper    config.ScraperConfig
	reportPath string
	csvExport  csvExporter
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		registry:   deps.Registry,
		extractor:  deps.Extractor,
		repository: deps.Repository,
		reporter:   deps.Reporter,
		notifier:   deps.Notifier,
		detector:   deps.Detector,
		scorer:     deps.Scorer,
		sources:    deps.Sources,
		scraper:    deps.Scraper,
		reportPath: deps.ReportPath,
		csvExport:  deps.CSVExport,
		logger:     logger,
	}
}

// Run processes every configured source sequentially, then generates the
// summary report. Cancellation between URLs finalizes the open session
// with partial counters and still produces a report.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.repository == nil || p.extractor == nil || p.scorer == nil {
		return fmt.Errorf("pipeline is not fully wired")
	}

	remaining := p.scraper.MaxArticlesPerRun

	for _, source := range p.sources {
		if ctx.Err() != nil {
			p.logger.Warn("run cancelled, skipping remaining sources")
			break
		}
		if p.scraper.MaxArticlesPerRun > 0 && remaining <= 0 {
			p.logger.Info("per-run article cap reached", "cap", p.scraper.MaxArticlesPerRun)
			break
		}

		if err := p.processSource(ctx, source, &remaining); err != nil {
			return fmt.Errorf("source %s: %w", source.Name, err)
		}
	}

	return p.finishRun(ctx)
}

// processSource scrapes one source inside its own session. Only storage
// failures that make further writes impossible propagate as errors.
func (p *Pipeline) processSource(ctx context.Context, source config.SourceConfig, remaining *int) error {
	logger := p.logger.With("source", source.Name, "language", source.Language)
	logger.Info("scraping source")

	startedAt := time.Now().UTC()
	sessionID, err := p.repository.StartSession(ctx, source.Name, startedAt)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	session := domain.ScrapeSession{
		ID:        sessionID,
		Source:    source.Name,
		StartedAt: startedAt,
		Status:    domain.SessionCompleted,
	}
	defer p.finishSession(ctx, &session, logger)

	// One limiter per source paces discovery and article fetches alike.
	limiter := ratelimit.New(p.scraper.RequestDelay())

	links, err := p.discoverLinks(ctx, source, limiter)
	if err != nil {
		if ctx.Err() != nil {
			session.Status = domain.SessionStopped
			return nil
		}
		logger.Error("link discovery failed", "error", err)
		p.recordError(ctx, source.Name, "", domain.KindOf(err, domain.ErrFetch), err, logger)
		session.Errors++
		session.Status = domain.SessionFailed
		return nil
	}

	session.ArticlesFound = len(links)
	logger.Info("links discovered", "count", len(links))

	for i, link := range links {
		if ctx.Err() != nil {
			session.Status = domain.SessionStopped
			break
		}
		if p.scraper.MaxArticlesPerRun > 0 && *remaining <= 0 {
			break
		}

		urlLogger := logger.With("url", link, "progress", fmt.Sprintf("%d/%d", i+1, len(links)))

		stored, err := p.repository.HasArticle(ctx, link)
		if err != nil {
			p.recordError(ctx, source.Name, link, domain.ErrPersist, err, urlLogger)
			session.Errors++
			continue
		}
		if stored {
			urlLogger.Debug("already in database, skipping")
			continue
		}
		session.ArticlesNew++

		if err := limiter.Wait(ctx); err != nil {
			session.Status = domain.SessionStopped
			break
		}

		if p.processURL(ctx, source, link, &session, urlLogger) {
			*remaining--
		}
	}

	return nil
}

// processURL runs extract, score, classify, persist for one URL and
// reports whether a new article row was written.
func (p *Pipeline) processURL(ctx context.Context, source config.SourceConfig, link string, session *domain.ScrapeSession, logger *slog.Logger) bool {
	extraction, err := p.extractor.Extract(ctx, link, source.Language)
	if err != nil {
		logger.Warn("extraction failed", "error", err)
		p.recordError(ctx, source.Name, link, domain.KindOf(err, domain.ErrFetch), err, logger)
		session.Errors++
		return false
	}

	lang := source.Language
	if p.detector != nil {
		if detected, ok := p.detector.Detect(extraction.Text); ok && detected != lang {
			logger.Debug("language override", "configured", lang, "detected", detected)
			lang = detected
		}
	}

	fullText := extraction.Title + "\n\n" + extraction.Text
	total, matches := p.scorer.Score(fullText, lang)
	category := score.Classify(total)
	logger.Info("article scored", "score", total, "category", category)

	article := domain.Article{
		Source:        source.Name,
		SourceBias:    source.Bias,
		Language:      lang,
		URL:           link,
		URLHash:       domain.HashURL(link),
		Title:         extraction.Title,
		Authors:       extraction.Authors,
		PublishedDate: extraction.PublishedDate,
		Text:          extraction.Text,
		HeatScore:     total,
		Category:      category,
		ScrapedAt:     time.Now().UTC(),
	}

	_, inserted, err := p.repository.SaveArticle(ctx, article, toKeywordMatches(matches))
	if err != nil {
		logger.Error("persist failed", "error", err)
		p.recordError(ctx, source.Name, link, domain.ErrPersist, err, logger)
		session.Errors++
		return false
	}
	if !inserted {
		logger.Debug("duplicate url, insert skipped")
		return false
	}

	session.ArticlesScraped++
	return true
}

func (p *Pipeline) discoverLinks(ctx context.Context, source config.SourceConfig, limiter *ratelimit.Limiter) ([]string, error) {
	if p.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	strategy, err := p.registry.Resolve(source.Scanner)
	if err != nil {
		return nil, err
	}

	return strategy.DiscoverLinks(ctx, scanner.Request{
		SiteName: source.Name,
		BaseURL:  source.URL,
		Sections: source.Sections,
		Feeds:    source.Feeds,
		Language: source.Language,
		MaxLinks: p.scraper.MaxArticlesPerSource,
		Pacer:    limiter,
	})
}

// finishSession persists final counters exactly once per source, also on
// cancellation, so partial statistics survive an interrupted run.
func (p *Pipeline) finishSession(ctx context.Context, session *domain.ScrapeSession, logger *slog.Logger) {
	finishedAt := time.Now().UTC()
	session.FinishedAt = &finishedAt

	// Use a fresh context so a cancelled run can still finalize.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.repository.FinishSession(finishCtx, *session); err != nil {
		logger.Error("finalize session failed", "error", err)
		return
	}

	logger.Info("session finished",
		"status", session.Status,
		"found", session.ArticlesFound,
		"new", session.ArticlesNew,
		"scraped", session.ArticlesScraped,
		"errors", session.Errors)
}

// finishRun renders, stores, and distributes the summary report.
func (p *Pipeline) finishRun(ctx context.Context) error {
	if p.reporter == nil {
		return nil
	}

	// Reporting must survive run cancellation.
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	summary, err := p.reporter.Generate(reportCtx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if p.reportPath != "" {
		if err := os.WriteFile(p.reportPath, []byte(summary), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		p.logger.Info("report written", "path", p.reportPath)
	}

	if p.csvExport != nil {
		if err := p.csvExport(reportCtx); err != nil {
			p.logger.Error("csv export failed", "error", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishSummary(reportCtx, summary); err != nil {
			p.logger.Error("publish summary failed", "error", err)
		}
	}

	return nil
}

func (p *Pipeline) recordError(ctx context.Context, source, url string, kind domain.ErrorKind, cause error, logger *slog.Logger) {
	record := domain.ErrorRecord{
		CreatedAt: time.Now().UTC(),
		Source:    source,
		URL:       url,
		Kind:      kind,
		Message:   cause.Error(),
	}
	if err := p.repository.SaveError(ctx, record); err != nil {
		logger.Error("record error failed", "error", err)
	}
}

func toKeywordMatches(matches []score.Match) []domain.KeywordMatch {
	result := make([]domain.KeywordMatch, 0, len(matches))
	for _, m := range matches {
		result = append(result, domain.KeywordMatch{
			Phrase:       m.Phrase,
			Tier:         string(m.Tier),
			Count:        m.Count,
			Weight:       m.Weight,
			Contribution: m.Contribution,
		})
	}
	return result
}
