package scanner

import (
	"context"
	"fmt"
)

// Pacer spaces network requests; the source's rate limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Request carries all parameters required to discover article links for
// one configured source. When Pacer is set, strategies must wait on it
// before every network request they make.
type Request struct {
	SiteName string
	BaseURL  string
	Sections []string
	Feeds    []string
	Language string
	MaxLinks int
	Pacer    Pacer
}

// Scanner captures a single link-discovery strategy (section crawl, RSS).
type Scanner interface {
	Name() string
	DiscoverLinks(ctx context.Context, req Request) ([]string, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
