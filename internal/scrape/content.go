package scrape

import (
	"strings"

	"github.com/hyperjump/sozoku/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extractor turns a commentary page into records.
type Extractor struct {
	headings map[string]struct{}
}

// NewExtractor creates an extractor for the given heading tag names (e.g. "h2").
// With no tags it defaults to h2.
func NewExtractor(tags ...string) *Extractor {
	if len(tags) == 0 {
		tags = []string{"h2"}
	}
	h := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		h[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &Extractor{headings: h}
}

// Extract returns one record per heading whose next sibling element chain
// contains a <p>. Headings without one are skipped. A page without <title>
// yields records with only the heading text as title.
func (e *Extractor) Extract(page *Page) []models.Record {
	pageTitle := ""
	if t := find(page.Root, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		pageTitle = strings.TrimSpace(textContent(t))
	}

	var records []models.Record
	walk(page.Root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if _, ok := e.headings[n.Data]; !ok {
			return
		}
		p := nextSiblingElement(n, atom.P)
		if p == nil {
			return
		}
		records = append(records, models.Record{
			Title: pageTitle + strings.TrimSpace(textContent(n)),
			Text:  NormalizeParagraph(textContent(p)),
			URL:   page.URL,
		})
	})
	return records
}

// NormalizeParagraph trims surrounding whitespace, drops ideographic spaces
// and line breaks, and swaps ASCII commas for full-width ones.
func NormalizeParagraph(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(
		"\u3000", "",
		"\r", "",
		"\n", "",
		",", models.FullWidthComma,
	).Replace(s)
	return s
}

func nextSiblingElement(n *html.Node, a atom.Atom) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && s.DataAtom == a {
			return s
		}
	}
	return nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
