package crawler

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"heatwatch/internal/scanner"
)

// RSSScanner discovers article links through a site's RSS/Atom feeds,
// for the sources that publish one. Feeds give cleaner URL lists than
// section crawling and cost a single request per feed.
type RSSScanner struct {
	parser *gofeed.Parser
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner builds the gofeed-backed strategy.
func NewRSSScanner(userAgent string) *RSSScanner {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &RSSScanner{parser: parser}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// DiscoverLinks parses every configured feed and returns deduplicated
// item links, capped at req.MaxLinks.
func (r *RSSScanner) DiscoverLinks(ctx context.Context, req scanner.Request) ([]string, error) {
	if len(req.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured for site %s", req.SiteName)
	}

	seen := map[string]struct{}{}
	var links []string

	for _, feedURL := range req.Feeds {
		if req.Pacer != nil {
			if err := req.Pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", feedURL, err)
		}

		for _, item := range feed.Items {
			if item.Link == "" {
				continue
			}
			if _, dup := seen[item.Link]; dup {
				continue
			}
			seen[item.Link] = struct{}{}
			links = append(links, item.Link)
		}
	}

	if req.MaxLinks > 0 && len(links) > req.MaxLinks {
		links = links[:req.MaxLinks]
	}

	return links, nil
}
