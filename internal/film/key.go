package film

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// NormalizeTitle folds a title to a comparison form: transliterated to ASCII,
// lowercased, punctuation dropped, whitespace collapsed.
func NormalizeTitle(title string) string {
	ascii := unidecode.Unidecode(strings.TrimSpace(title))
	var b strings.Builder
	b.Grow(len(ascii))
	space := false
	for _, r := range strings.ToLower(ascii) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			space = true
		}
	}
	return b.String()
}

// Key returns the composite FilmKey for a title and year.
func Key(title, year string) string {
	return NormalizeTitle(title) + "|" + strings.TrimSpace(year)
}

// RecordKey returns the FilmKey of a record.
func RecordKey(r Record) string {
	return Key(r.Name(), r.Year())
}
