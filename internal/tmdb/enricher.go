package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"filmdash/internal/config"
	"filmdash/internal/film"
	"filmdash/internal/logging"
	"filmdash/internal/services"
)

// Outcome classifies an enrichment lookup.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNoResults     Outcome = "no_results"
	OutcomeNoAPIKey      Outcome = "no_api_key"
	OutcomeInvalidAPIKey Outcome = "invalid_api_key"
	OutcomeConnectivity  Outcome = "connectivity"
)

// Definitive reports whether the outcome is final for the session.
func (o Outcome) Definitive() bool {
	return o == OutcomeOK || o == OutcomeNoResults
}

// Result is the poster metadata resolved for one title and year.
type Result struct {
	TMDBID       *int64  `json:"tmdb_id"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
	Outcome      Outcome `json:"outcome"`
}

// placeholderKeys are sample values shipped in example configs.
var placeholderKeys = map[string]struct{}{
	"your_actual_api_key_here": {},
	"YOUR_TMDB_API_KEY":        {},
}

// UsableAPIKey reports whether key is set and not a placeholder.
func UsableAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	_, placeholder := placeholderKeys[key]
	return !placeholder
}

// Notifier receives enrichment outage notices.
type Notifier interface {
	NotifyEnrichmentUnavailable(ctx context.Context, reason string) error
}

// Enricher resolves titles to TMDB metadata with caching and offline
// tracking.
type Enricher struct {
	searcher Searcher
	cache    *Cache
	posters  Posters
	notifier Notifier
	logger   *slog.Logger
	group    singleflight.Group
	offline  atomic.Bool
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithNotifier routes outage notices to n.
func WithNotifier(n Notifier) EnricherOption {
	return func(e *Enricher) { e.notifier = n }
}

// WithLogger sets the enricher logger.
func WithLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) { e.logger = logging.NewComponentLogger(logger, "tmdb") }
}

// WithPosters sets the poster URL builder.
func WithPosters(p Posters) EnricherOption {
	return func(e *Enricher) { e.posters = p }
}

// NewEnricher builds an enricher. A nil searcher means no usable credential:
// every lookup reports no_api_key without touching the network. A nil cache
// gets a private one.
func NewEnricher(searcher Searcher, cache *Cache, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		searcher: searcher,
		cache:    cache,
		posters:  DefaultPosters(),
		logger:   logging.NewComponentLogger(nil, "tmdb"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache(nil)
	}
	if searcher == nil {
		e.offline.Store(true)
	}
	return e
}

// NewFromConfig builds the production enricher. An unusable API key yields
// an enricher that never calls TMDB.
func NewFromConfig(cfg *config.Config, cache *Cache, notifier Notifier, logger *slog.Logger) *Enricher {
	var searcher Searcher
	if UsableAPIKey(cfg.TMDB.APIKey) {
		client, err := New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, WithTimeout(cfg.TMDBTimeout()))
		if err == nil {
			searcher = client
		}
	}
	return NewEnricher(searcher, cache,
		WithNotifier(notifier),
		WithLogger(logger),
		WithPosters(PostersFromConfig(cfg)),
	)
}

// Online reports whether the last lookup reached TMDB successfully.
func (e *Enricher) Online() bool {
	return !e.offline.Load()
}

// Posters returns the URL builder.
func (e *Enricher) Posters() Posters {
	return e.posters
}

// ClearCache drops every cached result.
func (e *Enricher) ClearCache() {
	e.cache.Clear()
}

// Resolve returns metadata for title and year. It never returns an error:
// failures are reported through the Outcome and the notifier.
func (e *Enricher) Resolve(ctx context.Context, title, year string) Result {
	key := CacheKey(title, year)
	if cached, ok := e.cache.Lookup(key); ok {
		return cached
	}
	if e.searcher == nil {
		e.unavailable(ctx, OutcomeNoAPIKey, nil)
		return Result{Outcome: OutcomeNoAPIKey}
	}
	if strings.TrimSpace(title) == "" {
		return Result{Outcome: OutcomeNoResults}
	}

	value, _, _ := e.group.Do(key, func() (any, error) {
		if cached, ok := e.cache.Lookup(key); ok {
			return cached, nil
		}
		result, err := e.search(ctx, title, year)
		if err != nil {
			e.unavailable(ctx, result.Outcome, err)
			return result, nil
		}
		if e.offline.Swap(false) {
			e.logger.Info("tmdb reachable again")
		}
		return e.cache.StoreOnce(key, result), nil
	})
	return value.(Result)
}

func (e *Enricher) search(ctx context.Context, title, year string) (Result, error) {
	yearNum := film.YearInt(year)

	movies, err := e.searcher.SearchMovie(ctx, title, yearNum)
	if err != nil {
		return Result{Outcome: classify(err)}, err
	}
	if first, ok := movies.First(); ok {
		return fromSearch(first, "movie"), nil
	}

	shows, err := e.searcher.SearchTV(ctx, title, yearNum)
	if err != nil {
		return Result{Outcome: classify(err)}, err
	}
	if first, ok := shows.First(); ok {
		return fromSearch(first, "tv"), nil
	}
	return Result{Outcome: OutcomeNoResults}, nil
}

func fromSearch(match SearchResult, mediaType string) Result {
	id := match.ID
	return Result{
		TMDBID:       &id,
		PosterPath:   match.PosterPath,
		BackdropPath: match.BackdropPath,
		Overview:     match.Overview,
		MediaType:    mediaType,
		Outcome:      OutcomeOK,
	}
}

func classify(err error) Outcome {
	var status *StatusError
	if errors.As(err, &status) && status.Code == http.StatusUnauthorized {
		return OutcomeInvalidAPIKey
	}
	return OutcomeConnectivity
}

func (e *Enricher) unavailable(ctx context.Context, outcome Outcome, cause error) {
	wasOnline := !e.offline.Swap(true)
	err := services.Wrap(services.ErrEnrichmentUnavailable, "tmdb", "resolve", string(outcome), cause)
	if wasOnline {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "poster enrichment unavailable",
			"tmdb_unavailable",
			logging.String("outcome", string(outcome)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(outcome)),
			logging.String(logging.FieldImpact, "fallback posters shown"),
		)
	} else {
		e.logger.Debug("poster enrichment still unavailable", logging.String("outcome", string(outcome)))
	}
	if e.notifier == nil {
		return
	}
	if nerr := e.notifier.NotifyEnrichmentUnavailable(ctx, string(outcome)); nerr != nil {
		e.logger.Debug("enrichment notice not delivered", logging.Error(nerr))
	}
}

func hintFor(outcome Outcome) string {
	switch outcome {
	case OutcomeNoAPIKey:
		return "set tmdb.api_key or TMDB_API_KEY"
	case OutcomeInvalidAPIKey:
		return "check that tmdb.api_key is a valid v3 key"
	default:
		return "check network connectivity to api.themoviedb.org"
	}
}
