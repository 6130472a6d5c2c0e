package reconcile

import (
	"sort"
	"time"

	"filmdash/internal/film"
)

// SortNewestFirst orders records by effective date, newest first. Records
// without a parseable date keep their relative order at the end.
func SortNewestFirst(records []film.Record) {
	sortByDate(records, film.Record.Time)
}

// sortWatched orders watched rows by their logged date, falling back to the
// watch date.
func sortWatched(records []film.Record) {
	sortByDate(records, func(r film.Record) (time.Time, bool) {
		return film.ParseDate(r.Get(film.FieldDate, film.FieldWatchedDate))
	})
}

func sortByDate(records []film.Record, date func(film.Record) (time.Time, bool)) {
	type dated struct {
		ts time.Time
		ok bool
	}
	keys := make(map[int]dated, len(records))
	index := make([]int, len(records))
	for i, rec := range records {
		ts, ok := date(rec)
		keys[i] = dated{ts, ok}
		index[i] = i
	}
	sort.SliceStable(index, func(a, b int) bool {
		ka, kb := keys[index[a]], keys[index[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		return ka.ts.After(kb.ts)
	})
	sorted := make([]film.Record, len(records))
	for i, idx := range index {
		sorted[i] = records[idx]
	}
	copy(records, sorted)
}

func latestDate(records []film.Record) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, rec := range records {
		ts, ok := rec.Time()
		if !ok {
			continue
		}
		if !found || ts.After(latest) {
			latest, found = ts, true
		}
	}
	return latest, found
}
