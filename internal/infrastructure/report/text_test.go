package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"heatwatch/internal/domain"
)

type fakeStore struct {
	total      int
	categories []domain.CategoryStat
	sources    []domain.SourceStat
	languages  []domain.LanguageStat
	top        []domain.Article

	countErr error
}

func (f *fakeStore) CountArticles(context.Context) (int, error) {
	return f.total, f.countErr
}

func (f *fakeStore) CategoryStats(context.Context) ([]domain.CategoryStat, error) {
	return f.categories, nil
}

func (f *fakeStore) SourceStats(context.Context) ([]domain.SourceStat, error) {
	return f.sources, nil
}

func (f *fakeStore) LanguageStats(context.Context) ([]domain.LanguageStat, error) {
	return f.languages, nil
}

func (f *fakeStore) TopArticles(_ context.Context, limit int) ([]domain.Article, error) {
	if limit < len(f.top) {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func testStore() *fakeStore {
	published := time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC)
	return &fakeStore{
		total: 3,
		categories: []domain.CategoryStat{
			{Category: domain.ExtremelyRelevant, Count: 1, AvgScore: 62},
			{Category: domain.ModeratelyRelevant, Count: 2, AvgScore: 12.5},
		},
		sources: []domain.SourceStat{
			{Source: "Imperial Valley Press", Count: 2, AvgScore: 37},
			{Source: "Adelante Valle", Count: 1, AvgScore: 13},
		},
		languages: []domain.LanguageStat{
			{Language: domain.LangEnglish, Count: 2},
			{Language: domain.LangSpanish, Count: 1},
		},
		top: []domain.Article{
			{
				Source:        "Imperial Valley Press",
				SourceBias:    "local",
				Language:      domain.LangEnglish,
				URL:           "https://example.com/a",
				Title:         "Heat wave claims a life in Calexico",
				Authors:       "Staff Report",
				PublishedDate: &published,
				HeatScore:     62,
				Category:      domain.ExtremelyRelevant,
			},
			{
				Source:    "Adelante Valle",
				Language:  domain.LangSpanish,
				URL:       "https://example.com/b",
				Title:     "Ola de calor en el valle",
				HeatScore: 13,
				Category:  domain.ModeratelyRelevant,
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	reporter := NewTextReporter(testStore(), 10)
	out, err := reporter.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"SCRAPING SUMMARY REPORT",
		"Total Articles in Database: 3",
		"EXTREMELY_RELEVANT",
		"avg score: 62.0",
		"Imperial Valley Press",
		"English",
		"Spanish",
		"1. [62] Heat wave claims a life in Calexico",
		"Source: Adelante Valle | Category: MODERATELY_RELEVANT",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateEmptyStore(t *testing.T) {
	t.Parallel()

	reporter := NewTextReporter(&fakeStore{}, 10)
	out, err := reporter.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "Total Articles in Database: 0") {
		t.Fatalf("empty store report unexpected:\n%s", out)
	}
}

func TestGeneratePropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := testStore()
	store.countErr = errors.New("database locked")

	reporter := NewTextReporter(store, 10)
	if _, err := reporter.Generate(context.Background()); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 70); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 80)
	if got := truncate(long, 70); len([]rune(got)) != 70 {
		t.Fatalf("truncate length = %d, want 70", len([]rune(got)))
	}
}
