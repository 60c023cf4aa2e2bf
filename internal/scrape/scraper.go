package scrape

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Scraper turns the link list into the records artifact.
type Scraper struct {
	fetcher   *Fetcher
	extractor *Extractor
	logger    *zap.Logger
}

// NewScraper creates a content scraper.
func NewScraper(fetcher *Fetcher, extractor *Extractor, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &Scraper{fetcher: fetcher, extractor: extractor, logger: logger}
}

// Run reads urlsPath, fetches each page in order and writes csvPath.
// The first fetch failure aborts the run; rows already written stay on disk.
// It returns the number of rows written.
func (s *Scraper) Run(ctx context.Context, urlsPath, csvPath string) (int, error) {
	urls, err := ReadLinks(urlsPath)
	if err != nil {
		return 0, fmt.Errorf("read links: %w", err)
	}

	out, err := CreateRecordFile(csvPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", csvPath, err)
	}
	defer out.Close()

	for i, u := range urls {
		page, err := s.fetcher.Fetch(ctx, u)
		if err != nil {
			return out.Count(), err
		}
		records := s.extractor.Extract(page)
		if err := out.Write(records...); err != nil {
			return out.Count(), fmt.Errorf("write records: %w", err)
		}
		s.logger.Info("Scraped page",
			zap.Int("page", i+1),
			zap.Int("total", len(urls)),
			zap.String("url", u),
			zap.Int("records", len(records)))
	}

	if err := out.Close(); err != nil {
		return out.Count(), err
	}
	return out.Count(), nil
}
