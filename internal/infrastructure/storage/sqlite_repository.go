// Package storage persists scored articles, keyword matches, sessions,
// and the error log in SQLite. Timestamps are stored as unix seconds,
// published dates as ISO date strings.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"heatwatch/internal/domain"
	"heatwatch/internal/ports"
)

const publishedDateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	source_bias TEXT,
	language TEXT,
	url TEXT NOT NULL UNIQUE,
	url_hash TEXT UNIQUE,
	title TEXT,
	authors TEXT,
	published_date TEXT,
	scraped_at INTEGER NOT NULL,
	text_content TEXT,
	heat_score INTEGER NOT NULL,
	category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS keyword_matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	keyword TEXT NOT NULL,
	tier TEXT NOT NULL,
	match_count INTEGER NOT NULL,
	weight INTEGER NOT NULL,
	points INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scrape_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER,
	articles_found INTEGER NOT NULL DEFAULT 0,
	articles_new INTEGER NOT NULL DEFAULT 0,
	articles_scraped INTEGER NOT NULL DEFAULT 0,
	errors INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scrape_errors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at INTEGER NOT NULL,
	source TEXT,
	url TEXT,
	kind TEXT NOT NULL,
	message TEXT
);

CREATE INDEX IF NOT EXISTS idx_articles_score ON articles(heat_score DESC);
CREATE INDEX IF NOT EXISTS idx_matches_article ON keyword_matches(article_id);
`

// SQLiteRepository implements the article store and its reporting reads.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.ArticleRepository = (*SQLiteRepository)(nil)
	_ ports.ReportStore       = (*SQLiteRepository)(nil)
)

// Open connects to the SQLite file at path (":memory:" works for tests),
// applies pragmas, and creates missing tables. A failure here is fatal to
// the run; no writes can happen without the store.
func Open(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Pragmas are per-connection; pin the pool to one.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// HasArticle reports whether the URL is already stored, letting the
// orchestrator skip the network round-trip on re-runs.
func (r *SQLiteRepository) HasArticle(ctx context.Context, url string) (bool, error) {
	query, args, err := sq.Select("1").
		From("articles").
		Where(sq.Eq{"url_hash": domain.HashURL(url)}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query article: %w", err)
	}
	return true, nil
}

// SaveArticle writes the article and its keyword matches in one
// transaction. A URL already present leaves the store untouched and
// returns inserted=false, which keeps re-runs idempotent.
func (r *SQLiteRepository) SaveArticle(ctx context.Context, article domain.Article, matches []domain.KeywordMatch) (int64, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var published any
	if article.PublishedDate != nil {
		published = article.PublishedDate.Format(publishedDateLayout)
	}

	query, args, err := sq.Insert("articles").
		Columns("source", "source_bias", "language", "url", "url_hash", "title",
			"authors", "published_date", "scraped_at", "text_content", "heat_score", "category").
		Values(article.Source, article.SourceBias, article.Language, article.URL,
			domain.HashURL(article.URL), article.Title, article.Authors, published,
			article.ScrapedAt.Unix(), article.Text, article.HeatScore, string(article.Category)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, false, fmt.Errorf("insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, nil
	}

	articleID, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}

	for _, match := range matches {
		query, args, err := sq.Insert("keyword_matches").
			Columns("article_id", "keyword", "tier", "match_count", "weight", "points").
			Values(articleID, match.Phrase, match.Tier, match.Count, match.Weight, match.Contribution).
			ToSql()
		if err != nil {
			return 0, false, fmt.Errorf("build match insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, false, fmt.Errorf("insert match %q: %w", match.Phrase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit: %w", err)
	}

	return articleID, true, nil
}

// StartSession opens a per-source session row and returns its id.
func (r *SQLiteRepository) StartSession(ctx context.Context, source string, at time.Time) (int64, error) {
	query, args, err := sq.Insert("scrape_sessions").
		Columns("source", "started_at", "status").
		Values(source, at.Unix(), string(domain.SessionRunning)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FinishSession writes the final counters and status for a session.
func (r *SQLiteRepository) FinishSession(ctx context.Context, session domain.ScrapeSession) error {
	update := sq.Update("scrape_sessions").
		Set("articles_found", session.ArticlesFound).
		Set("articles_new", session.ArticlesNew).
		Set("articles_scraped", session.ArticlesScraped).
		Set("errors", session.Errors).
		Set("status", string(session.Status)).
		Where(sq.Eq{"id": session.ID})
	if session.FinishedAt != nil {
		update = update.Set("finished_at", session.FinishedAt.Unix())
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update session %d: %w", session.ID, err)
	}
	return nil
}

// SaveError appends one record to the error audit trail.
func (r *SQLiteRepository) SaveError(ctx context.Context, record domain.ErrorRecord) error {
	query, args, err := sq.Insert("scrape_errors").
		Columns("created_at", "source", "url", "kind", "message").
		Values(record.CreatedAt.Unix(), record.Source, record.URL, string(record.Kind), record.Message).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert error record: %w", err)
	}
	return nil
}

// CountArticles returns the total number of stored articles.
func (r *SQLiteRepository) CountArticles(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("articles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

// CategoryStats aggregates count and average score per relevance
// category, most relevant first.
func (r *SQLiteRepository) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	query, args, err := sq.Select("category", "COUNT(*)", "AVG(heat_score)").
		From("articles").
		GroupBy("category").
		OrderBy("AVG(heat_score) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CategoryStat
	for rows.Next() {
		var s domain.CategoryStat
		if err := rows.Scan(&s.Category, &s.Count, &s.AvgScore); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// SourceStats aggregates count and average score per source, busiest first.
func (r *SQLiteRepository) SourceStats(ctx context.Context) ([]domain.SourceStat, error) {
	query, args, err := sq.Select("source", "COUNT(*)", "AVG(heat_score)").
		From("articles").
		GroupBy("source").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query source stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.SourceStat
	for rows.Next() {
		var s domain.SourceStat
		if err := rows.Scan(&s.Source, &s.Count, &s.AvgScore); err != nil {
			return nil, fmt.Errorf("scan source stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// LanguageStats counts stored articles per language tag.
func (r *SQLiteRepository) LanguageStats(ctx context.Context) ([]domain.LanguageStat, error) {
	query, args, err := sq.Select("language", "COUNT(*)").
		From("articles").
		GroupBy("language").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query language stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.LanguageStat
	for rows.Next() {
		var s domain.LanguageStat
		if err := rows.Scan(&s.Language, &s.Count); err != nil {
			return nil, fmt.Errorf("scan language stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TopArticles returns the highest-scoring articles without their body
// text, newest insertions breaking score ties.
func (r *SQLiteRepository) TopArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	query, args, err := sq.Select("id", "source", "source_bias", "language", "url", "url_hash",
		"title", "authors", "published_date", "scraped_at", "heat_score", "category").
		From("articles").
		OrderBy("heat_score DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// ArticlesByCategory lists a category's articles, highest score first.
func (r *SQLiteRepository) ArticlesByCategory(ctx context.Context, category domain.RelevanceCategory) ([]domain.Article, error) {
	query, args, err := sq.Select("id", "source", "source_bias", "language", "url", "url_hash",
		"title", "authors", "published_date", "scraped_at", "heat_score", "category").
		From("articles").
		Where(sq.Eq{"category": string(category)}).
		OrderBy("heat_score DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query by category: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Matches returns the keyword matches stored for one article.
func (r *SQLiteRepository) Matches(ctx context.Context, articleID int64) ([]domain.KeywordMatch, error) {
	query, args, err := sq.Select("article_id", "keyword", "tier", "match_count", "weight", "points").
		From("keyword_matches").
		Where(sq.Eq{"article_id": articleID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.KeywordMatch
	for rows.Next() {
		var m domain.KeywordMatch
		if err := rows.Scan(&m.ArticleID, &m.Phrase, &m.Tier, &m.Count, &m.Weight, &m.Contribution); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var (
		article   domain.Article
		published sql.NullString
		scrapedAt int64
		category  string
	)
	err := rows.Scan(&article.ID, &article.Source, &article.SourceBias, &article.Language,
		&article.URL, &article.URLHash, &article.Title, &article.Authors, &published,
		&scrapedAt, &article.HeatScore, &category)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	article.Category = domain.RelevanceCategory(category)
	article.ScrapedAt = time.Unix(scrapedAt, 0).UTC()
	if published.Valid && published.String != "" {
		if t, err := time.Parse(publishedDateLayout, published.String); err == nil {
			article.PublishedDate = &t
		}
	}
	return article, nil
}
