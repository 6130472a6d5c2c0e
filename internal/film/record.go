package film

import (
	"strconv"
	"strings"
	"time"
)

// Column names used across the export files.
const (
	FieldDate          = "Date"
	FieldName          = "Name"
	FieldYear          = "Year"
	FieldURI           = "Letterboxd URI"
	FieldRating        = "Rating"
	FieldRewatch       = "Rewatch"
	FieldTags          = "Tags"
	FieldWatchedDate   = "Watched Date"
	FieldReview        = "Review"
	FieldFilmName      = "Film Name"
	FieldTitle         = "Title"
	FieldReleaseYear   = "Release Year"
	FieldPosition      = "Position"
	FieldNotes         = "Notes"
	FieldDescription   = "Description"
	FieldURL           = "URL"
	FieldUsername      = "Username"
	FieldFavoriteFilms = "Favorite Films"
	FieldLive          = "Live"
)

// DateLayout is the calendar date format used by every export file.
const DateLayout = "2006-01-02"

// Record is one row of an export file keyed by column header. Unknown columns
// are preserved as-is.
type Record map[string]string

// Get returns the first non-empty value among keys.
func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(r[key]); value != "" {
			return value
		}
	}
	return ""
}

// Name returns the film title, accepting the list-file spellings.
func (r Record) Name() string { return r.Get(FieldName, FieldFilmName, FieldTitle) }

// Year returns the release year as written.
func (r Record) Year() string { return r.Get(FieldYear, FieldReleaseYear) }

// URI returns the Letterboxd URI or list URL.
func (r Record) URI() string { return r.Get(FieldURI, FieldURL) }

// Date returns the logged date.
func (r Record) Date() string { return r.Get(FieldDate) }

// WatchedDate returns the explicit watch date if present.
func (r Record) WatchedDate() string { return r.Get(FieldWatchedDate) }

// EffectiveDate prefers the watch date over the logged date.
func (r Record) EffectiveDate() string { return r.Get(FieldWatchedDate, FieldDate) }

// Live reports whether the record came from the activity feed.
func (r Record) Live() bool { return r[FieldLive] == "true" }

// Rating parses the half-star rating. Absent or malformed ratings report false.
func (r Record) Rating() (float64, bool) {
	return ParseRating(r.Get(FieldRating))
}

// Time parses the effective date.
func (r Record) Time() (time.Time, bool) {
	return ParseDate(r.EffectiveDate())
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneAll deep-copies a record slice, preserving nil.
func CloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}

// ParseDate accepts YYYY-MM-DD and RFC3339 timestamps.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(DateLayout, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, true
	}
	if len(value) >= len(DateLayout) {
		if ts, err := time.Parse(DateLayout, value[:len(DateLayout)]); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// YearInt parses a 4-digit year, returning 0 when absent.
func YearInt(value string) int {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return year
}
