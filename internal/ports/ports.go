package ports

import (
	"context"
	"time"

	"heatwatch/internal/domain"
)

// ArticleExtractor fetches a URL and extracts the article fields, or fails
// with a typed domain.ScrapeError. Retry policy lives behind this boundary.
type ArticleExtractor interface {
	Extract(ctx context.Context, url, lang string) (domain.Extraction, error)
}

// ArticleRepository persists scored articles, session counters, and the
// error audit trail. Saving an article that already exists for its URL is
// a no-op, which makes re-runs idempotent.
type ArticleRepository interface {
	HasArticle(ctx context.Context, url string) (bool, error)
	SaveArticle(ctx context.Context, article domain.Article, matches []domain.KeywordMatch) (int64, bool, error)
	StartSession(ctx context.Context, source string, at time.Time) (int64, error)
	FinishSession(ctx context.Context, session domain.ScrapeSession) error
	SaveError(ctx context.Context, record domain.ErrorRecord) error
}

// ReportStore serves the read-only aggregate queries behind reporting.
type ReportStore interface {
	CountArticles(ctx context.Context) (int, error)
	CategoryStats(ctx context.Context) ([]domain.CategoryStat, error)
	SourceStats(ctx context.Context) ([]domain.SourceStat, error)
	LanguageStats(ctx context.Context) ([]domain.LanguageStat, error)
	TopArticles(ctx context.Context, limit int) ([]domain.Article, error)
}

// Reporter renders the human-readable run summary from the store.
type Reporter interface {
	Generate(ctx context.Context) (string, error)
}

// Notifier publishes the end-of-run summary to an external channel.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// LanguageDetector guesses the language of extracted text. The second
// return value reports whether the guess is confident enough to use.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Scheduler controls when scrape runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
