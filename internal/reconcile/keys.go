package reconcile

import (
	"strings"

	"filmdash/internal/film"
)

// duplicateKeys returns the keys an existing diary record claims. Strict mode
// adds title based keys; the bare title key is intentionally loose and can
// match the same title across different years.
func duplicateKeys(rec film.Record, strict bool) []string {
	keys := make([]string, 0, 4)
	if uri := rec.URI(); uri != "" {
		keys = append(keys, "uri:"+uri)
	}
	if !strict {
		return keys
	}
	norm := film.NormalizeTitle(rec.Name())
	if norm == "" {
		return keys
	}
	if year := strings.TrimSpace(rec.Year()); year != "" {
		keys = append(keys, "ty:"+norm+"|"+year)
	}
	if date := rec.EffectiveDate(); date != "" {
		keys = append(keys, "td:"+norm+"|"+date)
	}
	return append(keys, "t:"+norm)
}

type keySet map[string]struct{}

func (s keySet) addAll(keys []string) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

func (s keySet) any(keys []string) bool {
	for _, key := range keys {
		if _, ok := s[key]; ok {
			return true
		}
	}
	return false
}
