package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"heatwatch/internal/domain"
	"heatwatch/internal/retry"
)

const articlePage = `<html>
<head><title>Heat wave claims a life in Calexico</title></head>
<body>
<article>
<h1>Heat wave claims a life in Calexico</h1>
<p>County officials confirmed a heat-related death on Tuesday as temperatures in
the valley climbed past 115 degrees for the fourth consecutive day. The victim,
a farm worker in his fifties, was found unresponsive near the fields east of
town and was pronounced dead at the scene.</p>
<p>The coroner's office said heat stroke is the suspected cause of death and
that an autopsy has been scheduled. Outreach teams have expanded cooling center
hours through the weekend while the excessive heat warning remains in effect
for the entire region.</p>
</article>
</body>
</html>`

func testRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, Delay: time.Millisecond}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	t.Cleanup(server.Close)

	e := NewReadabilityExtractor(server.Client(), "test-agent", testRetry())
	got, err := e.Extract(context.Background(), server.URL+"/news/heat-death", domain.LangEnglish)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !strings.Contains(got.Title, "Heat wave claims a life") {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if !strings.Contains(got.Text, "heat-related death") {
		t.Fatalf("body text missing expected phrase: %q", got.Text)
	}
	if got.URL != server.URL+"/news/heat-death" {
		t.Fatalf("unexpected url: %q", got.URL)
	}
}

func TestExtractFetchFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	e := NewReadabilityExtractor(server.Client(), "", testRetry())
	_, err := e.Extract(context.Background(), server.URL+"/gone", domain.LangEnglish)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if kind := domain.KindOf(err, domain.ErrExtract); kind != domain.ErrFetch {
		t.Fatalf("expected FETCH_FAILED, got %s", kind)
	}
}

func TestExtractRetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, articlePage)
	}))
	t.Cleanup(server.Close)

	e := NewReadabilityExtractor(server.Client(), "", testRetry())
	if _, err := e.Extract(context.Background(), server.URL+"/flaky", domain.LangEnglish); err != nil {
		t.Fatalf("Extract after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestExtractEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><title>Menu</title></head><body><nav>Home</nav></body></html>")
	}))
	t.Cleanup(server.Close)

	e := NewReadabilityExtractor(server.Client(), "", testRetry())
	_, err := e.Extract(context.Background(), server.URL+"/nav-only", domain.LangEnglish)
	if err == nil {
		t.Fatalf("expected error for page without article body")
	}
	if kind := domain.KindOf(err, domain.ErrFetch); kind != domain.ErrExtract {
		t.Fatalf("expected EXTRACT_FAILED, got %s", kind)
	}
}
