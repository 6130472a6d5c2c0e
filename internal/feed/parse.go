package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"filmdash/internal/film"
)

// letterboxdNS is the namespace prefix Letterboxd declares for its film
// elements.
const letterboxdNS = "letterboxd"

// Parse turns an RSS or Atom document into entries, in feed order.
func Parse(data []byte, strategies []Strategy) ([]Entry, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if strategies == nil {
		strategies = DefaultStrategies
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, normalizeItem(item, strategies))
	}
	return entries, nil
}

func normalizeItem(item *gofeed.Item, strategies []Strategy) Entry {
	fields := namespaceFields(item)
	entry := Entry{
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		Type:        ClassifyActivity(item.Title),
	}
	switch {
	case item.PublishedParsed != nil:
		entry.Published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		entry.Published = *item.UpdatedParsed
	}
	if watched, ok := film.ParseDate(fields["watchedDate"]); ok {
		entry.WatchedDate = watched.Format(film.DateLayout)
		if entry.Type == ActivityOther {
			entry.Type = ActivityDiary
		}
	}
	entry.Rewatch = strings.EqualFold(strings.TrimSpace(fields["rewatch"]), "yes")

	entry.Film, _ = Extract(Source{
		Title:  FixMojibake(item.Title),
		Link:   item.Link,
		Fields: fields,
	}, strategies)
	return entry
}

func namespaceFields(item *gofeed.Item) map[string]string {
	fields := make(map[string]string)
	for name, values := range item.Extensions[letterboxdNS] {
		if len(values) > 0 {
			fields[name] = strings.TrimSpace(values[0].Value)
		}
	}
	return fields
}

// Summary counts feed activity over the last seven days.
type Summary struct {
	Total        int        `json:"total"`
	Watched      int        `json:"watched"`
	Reviewed     int        `json:"reviewed"`
	Liked        int        `json:"liked"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// Summarize counts entries published within seven days of now. LastActivity
// is the publish time of the first entry in feed order.
func Summarize(entries []Entry, now time.Time) Summary {
	var summary Summary
	cutoff := now.Add(-7 * 24 * time.Hour)
	for _, entry := range entries {
		if entry.Published.Before(cutoff) {
			continue
		}
		summary.Total++
		switch entry.Type {
		case ActivityDiary:
			summary.Watched++
		case ActivityReview:
			summary.Reviewed++
		case ActivityLike:
			summary.Liked++
		}
	}
	if len(entries) > 0 && !entries[0].Published.IsZero() {
		last := entries[0].Published
		summary.LastActivity = &last
	}
	return summary
}
