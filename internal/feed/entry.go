package feed

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"filmdash/internal/film"
)

// ActivityType classifies a feed item.
type ActivityType string

const (
	ActivityDiary     ActivityType = "diary"
	ActivityReview    ActivityType = "review"
	ActivityLike      ActivityType = "like"
	ActivityWatchlist ActivityType = "watchlist"
	ActivityList      ActivityType = "list"
	ActivityOther     ActivityType = "activity"
)

// ClassifyActivity derives the activity type from an item title.
func ClassifyActivity(title string) ActivityType {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "watched"):
		return ActivityDiary
	case strings.Contains(lower, "reviewed"):
		return ActivityReview
	case strings.Contains(lower, "liked"):
		return ActivityLike
	case strings.Contains(lower, "added") && strings.Contains(lower, "watchlist"):
		return ActivityWatchlist
	case strings.Contains(lower, "created a list"):
		return ActivityList
	default:
		return ActivityOther
	}
}

// FilmInfo is the film extracted from a feed item.
type FilmInfo struct {
	Title     string  `json:"title"`
	Year      string  `json:"year,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	HasRating bool    `json:"has_rating"`
	URL       string  `json:"url,omitempty"`
}

// Entry is one parsed feed item.
type Entry struct {
	Title       string       `json:"title"`
	Link        string       `json:"link"`
	Description string       `json:"description,omitempty"`
	Published   time.Time    `json:"published"`
	WatchedDate string       `json:"watched_date,omitempty"`
	Rewatch     bool         `json:"rewatch,omitempty"`
	Type        ActivityType `json:"type"`
	Film        FilmInfo     `json:"film"`
}

// EffectiveDate returns the explicit watched date. In permissive mode the
// publish date stands in when no watched date exists. The publish date is
// formatted in its own zone so the calendar day matches the feed.
func (e Entry) EffectiveDate(permissive bool) string {
	if e.WatchedDate != "" {
		return e.WatchedDate
	}
	if permissive && !e.Published.IsZero() {
		return e.Published.Format(film.DateLayout)
	}
	return ""
}

// IsDiaryCandidate reports whether the entry may be merged into the diary.
func (e Entry) IsDiaryCandidate(permissive bool) bool {
	return ValidTitle(e.Film.Title) && e.EffectiveDate(permissive) != ""
}

// ToDiaryRecord converts a candidate into a diary row tagged as live.
func ToDiaryRecord(e Entry, permissive bool) film.Record {
	date := e.EffectiveDate(permissive)
	uri := e.Film.URL
	if uri == "" {
		uri = e.Link
	}
	rec := film.Record{
		film.FieldDate:        date,
		film.FieldName:        e.Film.Title,
		film.FieldYear:        e.Film.Year,
		film.FieldURI:         uri,
		film.FieldRating:      "",
		film.FieldRewatch:     "",
		film.FieldTags:        "",
		film.FieldWatchedDate: date,
		film.FieldLive:        "true",
	}
	if e.Film.HasRating {
		rec[film.FieldRating] = film.FormatRating(e.Film.Rating)
	}
	if e.Rewatch {
		rec[film.FieldRewatch] = "Yes"
	}
	return rec
}

// ValidTitle rejects extraction results that cannot name a film: empty,
// numeric, single-character, punctuation or star only, or an "unknown"
// placeholder.
func ValidTitle(title string) bool {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < 2 {
		return false
	}
	switch strings.ToLower(title) {
	case "unknown", "unknown film":
		return false
	}
	digits, filler := true, true
	for _, r := range title {
		if !unicode.IsDigit(r) {
			digits = false
		}
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) && r != '★' && r != '½' {
			filler = false
		}
	}
	return !digits && !filler
}
