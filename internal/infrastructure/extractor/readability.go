// Package extractor implements the fetch/extract boundary: HTTP download
// plus readability-based article extraction. Failures come back typed so
// the orchestrator can file them under the right error kind.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"heatwatch/internal/domain"
	"heatwatch/internal/ports"
	"heatwatch/internal/retry"
)

const (
	// minTextLength guards against extractions that technically succeed
	// but return navigation chrome instead of an article body.
	minTextLength = 80

	// maxBodyBytes caps the downloaded page size.
	maxBodyBytes = 4 << 20
)

// ReadabilityExtractor fetches article pages and extracts their fields.
type ReadabilityExtractor struct {
	client    *http.Client
	userAgent string
	retryCfg  retry.Config
}

var _ ports.ArticleExtractor = (*ReadabilityExtractor)(nil)

// NewReadabilityExtractor wires an HTTP client; nil gets a 15s timeout.
// Retries cover the download only, never unparseable pages.
func NewReadabilityExtractor(client *http.Client, userAgent string, retryCfg retry.Config) *ReadabilityExtractor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ReadabilityExtractor{client: client, userAgent: userAgent, retryCfg: retryCfg}
}

// Extract downloads the URL and pulls out title, body text, authors, and
// the published date. The lang tag is advisory; extraction itself is
// language-neutral.
func (e *ReadabilityExtractor) Extract(ctx context.Context, articleURL, lang string) (domain.Extraction, error) {
	parsed, err := url.Parse(articleURL)
	if err != nil {
		return domain.Extraction{}, domain.NewScrapeError(domain.ErrFetch, articleURL,
			fmt.Errorf("invalid url: %w", err))
	}

	var body []byte
	fetchErr := retry.Do(ctx, e.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if e.userAgent != "" {
			req.Header.Set("User-Agent", e.userAgent)
		}

		resp, err := e.client.Do(req)
		if err != nil {
			return fmt.Errorf("request article: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("article page returned %s", resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	})
	if fetchErr != nil {
		return domain.Extraction{}, domain.NewScrapeError(domain.ErrFetch, articleURL, fetchErr)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return domain.Extraction{}, domain.NewScrapeError(domain.ErrExtract, articleURL,
			fmt.Errorf("readability: %w", err))
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minTextLength {
		return domain.Extraction{}, domain.NewScrapeError(domain.ErrExtract, articleURL,
			fmt.Errorf("no usable article body (%d chars)", len(text)))
	}

	return domain.Extraction{
		URL:           articleURL,
		Title:         strings.TrimSpace(article.Title),
		Text:          text,
		Authors:       strings.TrimSpace(article.Byline),
		PublishedDate: article.PublishedTime,
	}, nil
}
