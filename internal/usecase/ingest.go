package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

// Ingestor collects unseen feed items across all configured sources.
type Ingestor struct {
	fetcher    ports.FeedFetcher
	store      ports.SeenStore
	recordSeen bool
	logger     *slog.Logger
}

// NewIngestor wires the feed fetcher with the seen store. When recordSeen is
// set every collected link is added to the store.
func NewIngestor(fetcher ports.FeedFetcher, store ports.SeenStore, recordSeen bool, log *slog.Logger) *Ingestor {
	return &Ingestor{fetcher: fetcher, store: store, recordSeen: recordSeen, logger: log}
}

// Collect returns unseen items in source order. It never returns an empty
// slice: when nothing new is found the placeholder item is returned.
func (i *Ingestor) Collect(ctx context.Context, sources []domain.FeedSource, limit int) []domain.Item {
	var items []domain.Item
	batch := make(map[string]struct{})

	for _, source := range sources {
		entries, err := i.fetcher.Fetch(ctx, source, limit)
		if err != nil {
			i.warn("skipping source", "source", source.Name, "error", fmt.Errorf("%w: %v", ErrSourceFetch, err))
			continue
		}

		for _, entry := range entries {
			if entry.Link == "" {
				continue
			}
			if _, dup := batch[entry.Link]; dup {
				continue
			}
			if i.seen(ctx, entry.Link) {
				continue
			}

			batch[entry.Link] = struct{}{}
			items = append(items, entry)

			if i.recordSeen && i.store != nil {
				if err := i.store.Add(ctx, entry.Link); err != nil {
					i.warn("record seen failed", "link", entry.Link, "error", err)
				}
			}
		}
	}

	if len(items) == 0 {
		if i.logger != nil {
			i.logger.Info("no new items, using placeholder")
		}
		return []domain.Item{domain.PlaceholderItem()}
	}

	if i.logger != nil {
		i.logger.Info("collected items", "count", len(items))
	}
	return items
}

// seen treats lookup failures as unseen so one broken query does not drop a
// briefing.
func (i *Ingestor) seen(ctx context.Context, link string) bool {
	if i.store == nil {
		return false
	}
	ok, err := i.store.Has(ctx, link)
	if err != nil {
		i.warn("seen lookup failed", "link", link, "error", err)
		return false
	}
	return ok
}

func (i *Ingestor) warn(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}
