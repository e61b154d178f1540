package usecase

import (
	"fmt"
	"strings"
	"time"

	"TechBriefing/internal/domain"
)

var linkTags = []struct {
	needle string
	tag    string
}{
	{"openai", "OpenAI"},
	{"techcrunch", "TechCrunch"},
	{"google", "Google"},
}

// SourceTag labels an item for the caption, preferring the feed name.
func SourceTag(item domain.Item) string {
	if tag := strings.TrimSpace(item.SourceTag); tag != "" {
		return tag
	}
	link := strings.ToLower(item.Link)
	for _, candidate := range linkTags {
		if strings.Contains(link, candidate.needle) {
			return candidate.tag
		}
	}
	return "Tech"
}

// FormatCaption renders the header with the day/month and one block per item.
func FormatCaption(header string, now time.Time, items []domain.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n\n", header, now.Format("02/01"))
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s] %s\n%s\n\n", SourceTag(item), item.Title, item.Link)
	}
	return b.String()
}
