package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

const defaultUserAgent = "TechBriefing/1.0"

// Fetcher downloads RSS, Atom or JSON feeds and maps their entries to items.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewFetcher(client *http.Client, userAgent string, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{client: client, userAgent: userAgent, logger: log}
}

// Fetch returns up to limit entries in the order the feed lists them.
func (f *Fetcher) Fetch(ctx context.Context, source domain.FeedSource, limit int) ([]domain.Item, error) {
	parsed, err := f.fetchFeed(ctx, source.URL)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", source.Name, err)
	}

	items := make([]domain.Item, 0, limit)
	for _, entry := range parsed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		if entry == nil {
			continue
		}

		link := strings.TrimSpace(entry.Link)
		if link == "" {
			link = strings.TrimSpace(entry.GUID)
		}
		if link == "" {
			f.debug("skip entry without link", "source", source.Name, "title", entry.Title)
			continue
		}

		items = append(items, domain.Item{
			Title:     CleanTitle(entry.Title),
			Link:      link,
			SourceTag: source.Name,
		})
	}

	f.debug("feed fetched", "source", source.Name, "entries", len(parsed.Items), "kept", len(items))
	return items, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return parsed, nil
}

// CleanTitle reduces a possibly HTML-laden title to single-spaced plain text.
func CleanTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if strings.ContainsAny(raw, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			text = doc.Text()
		}
	}

	return strings.Join(strings.Fields(text), " ")
}

func (f *Fetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
