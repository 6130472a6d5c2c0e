package view

import (
	"fmt"
	"sort"
	"strings"

	"filmdash/internal/film"
	"filmdash/internal/services"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortDate   SortKey = "date"
	SortName   SortKey = "name"
	SortYear   SortKey = "year"
	SortRating SortKey = "rating"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a key and direction, written "key-dir".
type Sort struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

func (s Sort) String() string {
	return string(s.Key) + "-" + string(s.Direction)
}

// ParseSort reads "date-desc" style values. A bare key sorts descending.
func ParseSort(value string) (Sort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	key, dir, found := strings.Cut(value, "-")
	if !found {
		dir = string(Desc)
	}
	s := Sort{Key: SortKey(key), Direction: Direction(dir)}
	switch s.Key {
	case SortDate, SortName, SortYear, SortRating:
	default:
		return Sort{}, services.Wrap(services.ErrValidation, "view", "parse sort", fmt.Sprintf("unknown sort key %q", key), nil)
	}
	switch s.Direction {
	case Asc, Desc:
	default:
		return Sort{}, services.Wrap(services.ErrValidation, "view", "parse sort", fmt.Sprintf("unknown direction %q", dir), nil)
	}
	return s, nil
}

// SortRecords returns a sorted copy of records. Records missing the sort
// value go last in either direction; ties keep their input order.
func SortRecords(records []film.Record, s Sort) []film.Record {
	out := make([]film.Record, len(records))
	copy(out, records)
	desc := s.Direction == Desc

	switch s.Key {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := strings.ToLower(out[i].Name()), strings.ToLower(out[j].Name())
			if desc {
				return a > b
			}
			return a < b
		})
	case SortYear:
		sortPresentFirst(out, desc, func(r film.Record) (float64, bool) {
			year := film.YearInt(r.Year())
			return float64(year), year > 0
		})
	case SortRating:
		sortPresentFirst(out, desc, film.Record.Rating)
	default:
		sortPresentFirst(out, desc, func(r film.Record) (float64, bool) {
			ts, ok := r.Time()
			return float64(ts.Unix()), ok
		})
	}
	return out
}

func sortPresentFirst(records []film.Record, desc bool, value func(film.Record) (float64, bool)) {
	type entry struct {
		v  float64
		ok bool
	}
	keyed := make([]entry, len(records))
	idx := make([]int, len(records))
	for i, rec := range records {
		v, ok := value(rec)
		keyed[i] = entry{v, ok}
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := keyed[idx[a]], keyed[idx[b]]
		if ea.ok != eb.ok {
			return ea.ok
		}
		if desc {
			return ea.v > eb.v
		}
		return ea.v < eb.v
	})
	sorted := make([]film.Record, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	copy(records, sorted)
}
