package feed

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"filmdash/internal/film"
)

// Source is the raw material an extraction strategy works from.
type Source struct {
	// Title is the item title after mojibake repair.
	Title string
	Link  string
	// Fields holds letterboxd namespace values keyed by element name.
	Fields map[string]string
}

// Strategy extracts film details from an item, reporting false when its
// pattern does not apply.
type Strategy struct {
	Name    string
	Extract func(Source) (FilmInfo, bool)
}

// DefaultStrategies lists the extraction strategies from most to least
// reliable.
var DefaultStrategies = []Strategy{
	{Name: "namespace", Extract: FromNamespace},
	{Name: "rated_title", Extract: FromRatedTitle},
	{Name: "title_year", Extract: FromTitleYear},
	{Name: "heuristic", Extract: FromHeuristic},
	{Name: "slug", Extract: FromSlug},
}

var (
	ratedTitlePattern = regexp.MustCompile(`^\S+\s+(.+?),\s*(\d{4})\s*-\s*(★*½?)$`)
	titleYearPattern  = regexp.MustCompile(`^\S+\s+(.+?),\s*(\d{4}).*$`)
	yearTailPattern   = regexp.MustCompile(`,\s*\d{4}.*$`)
	trailingJunk      = regexp.MustCompile(`[★\-,\s]+$`)
	anyYearPattern    = regexp.MustCompile(`\d{4}`)
	starsPattern      = regexp.MustCompile(`[★½]+`)
	slugPattern       = regexp.MustCompile(`/film/([^/]+)/`)
)

// Extract runs strategies in order and returns the first result with a
// usable title. When none succeeds the returned info has an empty title but
// keeps whatever year and rating the title carried.
func Extract(src Source, strategies []Strategy) (FilmInfo, string) {
	for _, strategy := range strategies {
		info, ok := strategy.Extract(src)
		if ok && ValidTitle(info.Title) {
			if info.URL == "" {
				info.URL = src.Link
			}
			return info, strategy.Name
		}
	}
	info := FilmInfo{URL: src.Link}
	info.Year = firstYear(src.Title)
	info.Rating, info.HasRating = starRating(src.Title)
	return info, ""
}

// FromNamespace reads the letterboxd:filmTitle, filmYear and memberRating
// elements.
func FromNamespace(src Source) (FilmInfo, bool) {
	title := strings.TrimSpace(src.Fields["filmTitle"])
	if title == "" {
		return FilmInfo{}, false
	}
	info := FilmInfo{
		Title: title,
		Year:  strings.TrimSpace(src.Fields["filmYear"]),
		URL:   src.Link,
	}
	if raw := strings.TrimSpace(src.Fields["memberRating"]); raw != "" {
		if rating, err := strconv.ParseFloat(raw, 64); err == nil && rating >= 0 {
			info.Rating, info.HasRating = rating, true
		}
	}
	return info, true
}

// FromRatedTitle matches "user Title, 2024 - ★★½".
func FromRatedTitle(src Source) (FilmInfo, bool) {
	m := ratedTitlePattern.FindStringSubmatch(src.Title)
	if m == nil {
		return FilmInfo{}, false
	}
	info := FilmInfo{Title: strings.TrimSpace(m[1]), Year: m[2], URL: src.Link}
	info.Rating, info.HasRating = film.StarsToRating(m[3])
	return info, true
}

// FromTitleYear matches "user Title, 2024" with anything after the year.
// Stars are counted wherever they appear.
func FromTitleYear(src Source) (FilmInfo, bool) {
	m := titleYearPattern.FindStringSubmatch(src.Title)
	if m == nil {
		return FilmInfo{}, false
	}
	info := FilmInfo{Title: strings.TrimSpace(m[1]), Year: m[2], URL: src.Link}
	info.Rating, info.HasRating = starRating(src.Title)
	return info, true
}

// FromHeuristic drops the leading username and strips the year and trailing
// stars or punctuation.
func FromHeuristic(src Source) (FilmInfo, bool) {
	words := strings.Split(src.Title, " ")
	if len(words) < 2 {
		return FilmInfo{}, false
	}
	title := strings.Join(words[1:], " ")
	title = yearTailPattern.ReplaceAllString(title, "")
	title = strings.TrimSpace(trailingJunk.ReplaceAllString(title, ""))
	if title == "" {
		return FilmInfo{}, false
	}
	info := FilmInfo{Title: title, Year: firstYear(src.Title), URL: src.Link}
	info.Rating, info.HasRating = starRating(src.Title)
	return info, true
}

// FromSlug title-cases the /film/<slug>/ segment of the link.
func FromSlug(src Source) (FilmInfo, bool) {
	m := slugPattern.FindStringSubmatch(src.Link)
	if m == nil {
		return FilmInfo{}, false
	}
	title := cases.Title(language.Und).String(strings.ReplaceAll(m[1], "-", " "))
	info := FilmInfo{Title: title, Year: firstYear(src.Title), URL: src.Link}
	info.Rating, info.HasRating = starRating(src.Title)
	return info, true
}

func firstYear(s string) string {
	return anyYearPattern.FindString(s)
}

func starRating(s string) (float64, bool) {
	return film.StarsToRating(strings.Join(starsPattern.FindAllString(s, -1), ""))
}
