// Package pipeline wires fetching, cleaning, storage and answer extraction
// into the two operations the API exposes.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/pagesift/internal/apperr"
	"github.com/dgallion1/pagesift/internal/extract"
	"github.com/dgallion1/pagesift/internal/fetch"
	"github.com/dgallion1/pagesift/internal/parser"
	"github.com/dgallion1/pagesift/internal/store"
)

// Fetcher retrieves a page. *fetch.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// Extractor answers a query against page text. *extract.Extractor
// satisfies it.
type Extractor interface {
	Extract(ctx context.Context, text, query string, model extract.Model) (*extract.Result, error)
}

// Options tune the service.
type Options struct {
	Mode                 parser.Mode   // Default HTML extract mode.
	PDFFallbackPdftotext bool
	SweepInterval        time.Duration // Content store janitor period.
}

// Service runs scrape and parse requests.
type Service struct {
	fetcher   Fetcher
	extractor Extractor
	store     *store.Store
	opts      Options
	log       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(f Fetcher, e Extractor, st *store.Store, opts Options, log *slog.Logger) *Service {
	if opts.Mode == "" {
		opts.Mode = parser.ModeBody
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{fetcher: f, extractor: e, store: st, opts: opts, log: log}
}

// Start launches the content store janitor.
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.opts.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.store.Cleanup(); n > 0 {
					s.log.Debug("expired content removed", "count", n)
				}
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ScrapeInput is a scrape request.
type ScrapeInput struct {
	URL  string
	Mode string // Optional HTML extract mode override.
}

// ScrapeResult is the cleaned text of one page.
type ScrapeResult struct {
	URL           string
	Title         string
	Content       string
	ContentLength int // Characters, not bytes.
	ContentID     string
}

// Scrape fetches a page, reduces it to clean text and stores it for later
// parse requests.
func (s *Service) Scrape(ctx context.Context, in ScrapeInput) (*ScrapeResult, error) {
	if strings.TrimSpace(in.URL) == "" {
		return nil, apperr.Errorf(apperr.KindValidation, "URL is required")
	}
	mode := s.opts.Mode
	if in.Mode != "" {
		m, err := parser.ParseMode(in.Mode)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, "invalid mode")
		}
		mode = m
	}

	start := time.Now()
	log := s.log.With("url", in.URL, "mode", mode)
	page, err := s.fetcher.Fetch(ctx, in.URL)
	if err != nil {
		log.Warn("scrape failed", "error", err)
		return nil, err
	}

	doc, err := parser.ParsePage(page.Body, page.ContentType, page.FinalURL, parser.Options{
		Mode:                 mode,
		PDFFallbackPdftotext: s.opts.PDFFallbackPdftotext,
	})
	if err != nil {
		log.Warn("page parse failed", "content_type", page.ContentType, "error", err)
		return nil, err
	}
	if doc.Text == "" {
		log.Info("page has no text", "content_type", page.ContentType)
		return nil, apperr.Errorf(apperr.KindEmptyContent, "no content found on the website")
	}

	entry := s.store.Put(page.URL, doc.Title, doc.Text)
	log.Info("scraped",
		"final_url", page.FinalURL,
		"content_type", page.ContentType,
		"bytes", len(page.Body),
		"content_length", entry.Length,
		"content_id", entry.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &ScrapeResult{
		URL:           page.URL,
		Title:         doc.Title,
		Content:       doc.Text,
		ContentLength: entry.Length,
		ContentID:     entry.ID,
	}, nil
}

// ParseInput is a parse request. Content wins over ContentID when both are
// set.
type ParseInput struct {
	Content   string
	ContentID string
	Query     string
	Model     string
}

// Parse runs the query against supplied or previously scraped content.
func (s *Service) Parse(ctx context.Context, in ParseInput) (*extract.Result, error) {
	text := in.Content
	if strings.TrimSpace(text) == "" {
		if in.ContentID == "" {
			return nil, apperr.Errorf(apperr.KindValidation, "content is required")
		}
		entry, ok := s.store.Get(in.ContentID)
		if !ok {
			return nil, apperr.Errorf(apperr.KindValidation, "content %q not found or expired", in.ContentID)
		}
		text = entry.Text
	}
	if strings.TrimSpace(in.Query) == "" {
		return nil, apperr.Errorf(apperr.KindValidation, "query is required")
	}

	model := extract.ParseModel(in.Model)
	start := time.Now()
	res, err := s.extractor.Extract(ctx, text, in.Query, model)
	if err != nil {
		s.log.Warn("parse failed", "model", model.String(), "error", err)
		return nil, err
	}
	s.log.Info("parsed",
		"backend", res.Backend,
		"content_length", utf8.RuneCountInString(text),
		"chunks", res.Chunks,
		"matched", res.Matched,
		"no_match", res.NoMatch,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
