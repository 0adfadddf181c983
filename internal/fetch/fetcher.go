// Package fetch retrieves content for ingestion: robots-aware HTTP
// fetching with a layered response cache and visible-text extraction.
// It is a collaborator of the ingest pipeline, not part of its core
// contract; the pipeline itself performs no network I/O.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/veridex/internal/cache"
	"github.com/ppiankov/veridex/internal/model"
)

// Result is one fetched content item ready for ingestion
type Result struct {
	URL          string
	FinalURL     string
	Title        string
	Text         string
	HTML         string
	LastModified *time.Time
	FromCache    bool
}

// Fetcher fetches pages with robots.txt compliance and caching
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	cache      cache.Cache // nil disables caching
}

// NewFetcher creates a fetcher from config. A nil cache disables
// response caching.
func NewFetcher(cfg model.HTTPConfig, c cache.Cache) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		cache:     c,
	}
}

// Fetch retrieves a page, honoring robots.txt and the response cache,
// and extracts its title and visible text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(cache.Key(rawURL)); found {
			result := f.build(rawURL, rawURL, string(body), nil)
			result.FromCache = true
			return result, nil
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("fetch disallowed by robots.txt: %s", rawURL)
	}
	if crawlDelay > 0 {
		select {
		case <-time.After(crawlDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var lastModified *time.Time
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			lastModified = &t
		}
	}

	if f.cache != nil {
		_ = f.cache.Set(cache.Key(rawURL), body, 0)
	}

	return f.build(rawURL, resp.Request.URL.String(), string(body), lastModified), nil
}

func (f *Fetcher) build(rawURL, finalURL, html string, lastModified *time.Time) *Result {
	title, text := ExtractReadable(html)
	return &Result{
		URL:          rawURL,
		FinalURL:     finalURL,
		Title:        title,
		Text:         text,
		HTML:         html,
		LastModified: lastModified,
	}
}
