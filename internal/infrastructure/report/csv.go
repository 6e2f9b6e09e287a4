package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"heatwatch/internal/domain"
)

// articleLister is the slice of the store the CSV export needs.
type articleLister interface {
	TopArticles(ctx context.Context, limit int) ([]domain.Article, error)
}

// WriteCSV exports up to limit articles (highest score first) as a flat
// CSV for spreadsheet analysis. Body text is deliberately excluded.
func WriteCSV(ctx context.Context, store articleLister, w io.Writer, limit int) error {
	articles, err := store.TopArticles(ctx, limit)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"source", "bias", "language", "url", "title", "authors",
		"published_date", "heat_score", "category"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, article := range articles {
		published := ""
		if article.PublishedDate != nil {
			published = article.PublishedDate.Format("2006-01-02")
		}
		row := []string{
			article.Source,
			article.SourceBias,
			article.Language,
			article.URL,
			article.Title,
			article.Authors,
			published,
			strconv.Itoa(article.HeatScore),
			string(article.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
