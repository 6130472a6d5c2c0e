package film

import (
	"math"
	"strconv"
	"strings"
)

const (
	fullStar = "★"
	halfStar = "½"
)

// ParseRating parses a rating in [0,5]. Values are snapped to half stars.
func ParseRating(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(rating) || rating < 0 || rating > 5 {
		return 0, false
	}
	return math.Round(rating*2) / 2, true
}

// FormatRating renders a rating the way the export files store it.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

// Stars renders a rating as star glyphs, e.g. 3.5 as "★★★½". Unrated is empty.
func Stars(value string) string {
	rating, ok := ParseRating(value)
	if !ok {
		return ""
	}
	full := int(rating)
	out := strings.Repeat(fullStar, full)
	if rating-float64(full) >= 0.5 {
		out += halfStar
	}
	return out
}

// StarsToRating counts star glyphs in s: each ★ is one, a ½ adds a half.
func StarsToRating(s string) (float64, bool) {
	full := strings.Count(s, fullStar)
	half := strings.Contains(s, halfStar)
	if full == 0 && !half {
		return 0, false
	}
	rating := float64(full)
	if half {
		rating += 0.5
	}
	if rating > 5 {
		return 0, false
	}
	return rating, true
}
