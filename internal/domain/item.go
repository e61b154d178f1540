package domain

import "time"

const (
	placeholderTitle = "Automation pipeline is running"
	placeholderLink  = "https://github.com"
)

// Item is a single feed entry; Link doubles as its identity in the seen store.
type Item struct {
	Title     string
	Link      string
	SourceTag string
}

// PlaceholderItem is substituted when a run finds nothing new so downstream
// stages always have at least one item to talk about.
func PlaceholderItem() Item {
	return Item{Title: placeholderTitle, Link: placeholderLink}
}

// IsPlaceholder reports whether the item is the continuity fallback.
func (i Item) IsPlaceholder() bool {
	return i.Title == placeholderTitle && i.Link == placeholderLink
}

// SeenRecord is a persisted identifier with the time it was first recorded.
type SeenRecord struct {
	Link   string
	SeenAt time.Time
}

// FeedSource is a named syndication feed polled on every run.
type FeedSource struct {
	Name string
	URL  string
}
