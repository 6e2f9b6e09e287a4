package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"heatwatch/internal/scanner"
)

// articleHints mark hrefs that look like article pages rather than
// navigation, tag, or static links.
var articleHints = []string{"article", "news", "/202", "story", "post"}

// SectionScanner crawls configured section pages of a news site and
// collects candidate article URLs.
type SectionScanner struct {
	client    *http.Client
	userAgent string
}

var _ scanner.Scanner = (*SectionScanner)(nil)

// NewSectionScanner wires an HTTP client; a nil client gets a 15s timeout.
func NewSectionScanner(client *http.Client, userAgent string) *SectionScanner {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &SectionScanner{client: client, userAgent: userAgent}
}

// Name identifies the strategy inside the registry.
func (s *SectionScanner) Name() string {
	return "sections"
}

// DiscoverLinks walks each section page and returns deduplicated article
// URLs, capped at req.MaxLinks. A section page that fails to load fails
// the whole discovery; the orchestrator records it per source.
func (s *SectionScanner) DiscoverLinks(ctx context.Context, req scanner.Request) ([]string, error) {
	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("no sections configured for site %s", req.SiteName)
	}

	base, err := url.Parse(req.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %s: %w", req.BaseURL, err)
	}

	seen := map[string]struct{}{}
	var links []string

	for _, section := range req.Sections {
		if req.Pacer != nil {
			if err := req.Pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		sectionURL := strings.TrimSuffix(req.BaseURL, "/") + section
		doc, err := s.fetchDocument(ctx, sectionURL)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}

		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			full, ok := resolveLink(base, href)
			if !ok || !looksLikeArticle(href) {
				return
			}
			if _, dup := seen[full]; dup {
				return
			}
			seen[full] = struct{}{}
			links = append(links, full)
		})
	}

	if req.MaxLinks > 0 && len(links) > req.MaxLinks {
		links = links[:req.MaxLinks]
	}

	return links, nil
}

func (s *SectionScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("section page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// resolveLink turns a relative href into an absolute URL on the source's
// host; off-host and non-http links are ignored.
func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if abs.Host != base.Host {
		return "", false
	}

	abs.Fragment = ""
	return abs.String(), true
}

func looksLikeArticle(href string) bool {
	href = strings.ToLower(href)
	for _, hint := range articleHints {
		if strings.Contains(href, hint) {
			return true
		}
	}
	return false
}
