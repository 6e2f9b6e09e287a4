package domain

import "time"

// Language tags supported by the lexicon.
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

// RelevanceCategory buckets the heat score into fixed bands.
type RelevanceCategory string

const (
	ExtremelyRelevant  RelevanceCategory = "EXTREMELY_RELEVANT"
	HighlyRelevant     RelevanceCategory = "HIGHLY_RELEVANT"
	ModeratelyRelevant RelevanceCategory = "MODERATELY_RELEVANT"
	MinimallyRelevant  RelevanceCategory = "MINIMALLY_RELEVANT"
	NotRelevant        RelevanceCategory = "NOT_RELEVANT"
)

// Article is the core entity produced for each successfully extracted URL.
// Written once, never mutated afterwards.
type Article struct {
	ID            int64
	Source        string
	SourceBias    string
	Language      string
	URL           string
	URLHash       string
	Title         string
	Authors       string
	PublishedDate *time.Time
	Text          string
	HeatScore     int
	Category      RelevanceCategory
	ScrapedAt     time.Time
}

// KeywordMatch records one distinct matched phrase inside an article.
// Contribution is weight multiplied by the occurrence count.
type KeywordMatch struct {
	ArticleID    int64
	Phrase       string
	Tier         string
	Count        int
	Weight       int
	Contribution int
}

// SessionStatus marks how a per-source scrape session ended.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "RUNNING"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionStopped   SessionStatus = "STOPPED"
	SessionFailed    SessionStatus = "FAILED"
)

// ScrapeSession accumulates per-source counters during a run and is
// finalized exactly once, including runs cancelled mid-source.
type ScrapeSession struct {
	ID              int64
	Source          string
	StartedAt       time.Time
	FinishedAt      *time.Time
	ArticlesFound   int
	ArticlesNew     int
	ArticlesScraped int
	Errors          int
	Status          SessionStatus
}

// ErrorRecord is the append-only audit trail for per-URL failures.
type ErrorRecord struct {
	ID        int64
	CreatedAt time.Time
	Source    string
	URL       string
	Kind      ErrorKind
	Message   string
}

// Extraction is what the fetch/extract boundary returns for a URL.
type Extraction struct {
	URL           string
	Title         string
	Text          string
	Authors       string
	PublishedDate *time.Time
}
