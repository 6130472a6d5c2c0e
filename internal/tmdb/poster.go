package tmdb

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"strings"

	"filmdash/internal/config"
)

const webBaseURL = "https://www.themoviedb.org"

// Posters builds poster and fallback artwork URLs.
type Posters struct {
	ImageBaseURL    string
	PosterSize      string
	FallbackCount   int
	FallbackPattern string
}

// DefaultPosters returns the stock URL settings.
func DefaultPosters() Posters {
	return PostersFromConfig(&config.Config{TMDB: config.Default().TMDB})
}

// PostersFromConfig reads the poster settings from cfg.
func PostersFromConfig(cfg *config.Config) Posters {
	return Posters{
		ImageBaseURL:    cfg.TMDB.ImageBaseURL,
		PosterSize:      cfg.TMDB.PosterSize,
		FallbackCount:   cfg.TMDB.FallbackPosterCount,
		FallbackPattern: cfg.TMDB.FallbackPosterPattern,
	}
}

// PosterURL returns the full image URL for a TMDB poster path, or "" when
// path is empty.
func (p Posters) PosterURL(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	return p.ImageBaseURL + p.PosterSize + path
}

// FallbackIndex maps title and year to a stable index in [1, FallbackCount].
func (p Posters) FallbackIndex(title, year string) int {
	n := p.FallbackCount
	if n <= 0 {
		n = 1
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(title + "|" + year))
	return int(h.Sum32()%uint32(n)) + 1
}

// FallbackPosterURL returns the offline artwork for title and year.
func (p Posters) FallbackPosterURL(title, year string) string {
	return fmt.Sprintf(p.FallbackPattern, p.FallbackIndex(title, year))
}

// WebURL links to the TMDB page for a result, or to a TMDB search when the
// film was not resolved.
func WebURL(result Result, title, year string) string {
	if result.TMDBID != nil {
		mediaType := result.MediaType
		if mediaType == "" {
			mediaType = "movie"
		}
		return webBaseURL + "/" + mediaType + "/" + strconv.FormatInt(*result.TMDBID, 10)
	}
	return webBaseURL + "/search?query=" + url.QueryEscape(title+" "+year)
}

// Poster is everything a renderer needs to show artwork for one film.
type Poster struct {
	Result   Result `json:"result"`
	URL      string `json:"url"`
	Fallback bool   `json:"fallback"`
	WebURL   string `json:"web_url"`
}

// Poster resolves artwork for title and year, using the fallback image when
// TMDB has no poster or is unavailable.
func (e *Enricher) Poster(ctx context.Context, title, year string) Poster {
	result := e.Resolve(ctx, title, year)
	poster := Poster{Result: result, WebURL: WebURL(result, title, year)}
	if u := e.posters.PosterURL(result.PosterPath); u != "" {
		poster.URL = u
		return poster
	}
	poster.URL = e.posters.FallbackPosterURL(title, year)
	poster.Fallback = true
	return poster
}
