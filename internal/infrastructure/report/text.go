// Package report renders human-readable summaries of the article store.
// It only reads aggregates; all formatting stays out of the core.
package report

import (
	"context"
	"fmt"
	"strings"

	"heatwatch/internal/domain"
	"heatwatch/internal/ports"
)

const divider = "================================================================================"

// TextReporter renders the end-of-run text summary.
type TextReporter struct {
	store ports.ReportStore
	topN  int
}

var _ ports.Reporter = (*TextReporter)(nil)

// NewTextReporter wires the read-only store; topN defaults to 10.
func NewTextReporter(store ports.ReportStore, topN int) *TextReporter {
	if topN <= 0 {
		topN = 10
	}
	return &TextReporter{store: store, topN: topN}
}

// Generate builds the summary: totals, per-category and per-source
// aggregates, language split, and the top scored articles.
func (r *TextReporter) Generate(ctx context.Context) (string, error) {
	var b strings.Builder

	b.WriteString("\n" + divider + "\n")
	b.WriteString("SCRAPING SUMMARY REPORT\n")
	b.WriteString(divider + "\n")

	total, err := r.store.CountArticles(ctx)
	if err != nil {
		return "", fmt.Errorf("count articles: %w", err)
	}
	fmt.Fprintf(&b, "\nTotal Articles in Database: %d\n", total)

	categories, err := r.store.CategoryStats(ctx)
	if err != nil {
		return "", fmt.Errorf("category stats: %w", err)
	}
	b.WriteString("\nBy Relevance Category:\n")
	for _, stat := range categories {
		fmt.Fprintf(&b, "  %-25s %4d articles (avg score: %.1f)\n",
			stat.Category, stat.Count, stat.AvgScore)
	}

	sources, err := r.store.SourceStats(ctx)
	if err != nil {
		return "", fmt.Errorf("source stats: %w", err)
	}
	b.WriteString("\nBy Source:\n")
	for _, stat := range sources {
		fmt.Fprintf(&b, "  %-30s %4d articles (avg score: %.1f)\n",
			stat.Source, stat.Count, stat.AvgScore)
	}

	languages, err := r.store.LanguageStats(ctx)
	if err != nil {
		return "", fmt.Errorf("language stats: %w", err)
	}
	b.WriteString("\nBy Language:\n")
	for _, stat := range languages {
		fmt.Fprintf(&b, "  %-30s %4d articles\n", languageName(stat.Language), stat.Count)
	}

	top, err := r.store.TopArticles(ctx, r.topN)
	if err != nil {
		return "", fmt.Errorf("top articles: %w", err)
	}
	fmt.Fprintf(&b, "\nTop %d Most Relevant Articles:\n", r.topN)
	for i, article := range top {
		fmt.Fprintf(&b, "\n  %d. [%d] %s\n", i+1, article.HeatScore, truncate(article.Title, 70))
		fmt.Fprintf(&b, "     Source: %s | Category: %s\n", article.Source, article.Category)
	}

	b.WriteString("\n" + divider + "\n")
	return b.String(), nil
}

func languageName(tag string) string {
	switch tag {
	case domain.LangEnglish:
		return "English"
	case domain.LangSpanish:
		return "Spanish"
	default:
		return tag
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
