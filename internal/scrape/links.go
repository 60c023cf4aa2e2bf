package scrape

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CollectLinks returns every anchor target on the page, resolved against the
// page URL, with the fragment removed, kept only when it contains filter.
// The result is deduplicated and sorted.
func CollectLinks(page *Page, filter string) []string {
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	walk(page.Root, func(n *html.Node) {
		if n.DataAtom != atom.A {
			return
		}
		href, ok := attr(n, "href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""
		abs.RawFragment = ""
		link := abs.String()
		if strings.Contains(link, filter) {
			seen[link] = struct{}{}
		}
	})

	links := make([]string, 0, len(seen))
	for l := range seen {
		links = append(links, l)
	}
	sort.Strings(links)
	return links
}

// Collector fetches the seed page and writes the filtered link list.
type Collector struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewCollector creates a link collector.
func NewCollector(fetcher *Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{fetcher: fetcher, logger: logger}
}

// Run fetches seedURL, collects links containing filter and overwrites outPath.
// It returns the collected links.
func (c *Collector) Run(ctx context.Context, seedURL, filter, outPath string) ([]string, error) {
	page, err := c.fetcher.Fetch(ctx, seedURL)
	if err != nil {
		return nil, err
	}
	links := CollectLinks(page, filter)
	if err := WriteLinks(outPath, links); err != nil {
		return nil, fmt.Errorf("write links: %w", err)
	}
	c.logger.Info("Collected links",
		zap.String("seed", seedURL),
		zap.String("filter", filter),
		zap.Int("count", len(links)),
		zap.String("path", outPath))
	return links, nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
