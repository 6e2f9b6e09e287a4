package report

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"heatwatch/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := WriteCSV(context.Background(), testStore(), &b, 100); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	if records[0][0] != "source" || records[0][8] != "category" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != "Imperial Valley Press" || first[6] != "2023-07-14" || first[7] != "62" {
		t.Fatalf("unexpected first row: %v", first)
	}

	second := records[2]
	if second[6] != "" {
		t.Fatalf("missing published date should be empty, got %q", second[6])
	}
	if second[8] != string(domain.ModeratelyRelevant) {
		t.Fatalf("unexpected category: %q", second[8])
	}
}

func TestWriteCSVRespectsLimit(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := WriteCSV(context.Background(), testStore(), &b, 1); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
}
