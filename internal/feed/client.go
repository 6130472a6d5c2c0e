package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"filmdash/internal/config"
	"filmdash/internal/film"
	"filmdash/internal/logging"
	"filmdash/internal/services"
)

const cacheSize = 64

// Fetcher retrieves a feed document for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, target string) ([]byte, error)
}

// Options configures a Client.
type Options struct {
	URLTemplate string
	CacheTTL    time.Duration
	Timeout     time.Duration
	Attempts    uint
	RetryDelay  time.Duration
	Permissive  bool
	Strategies  []Strategy
	Logger      *slog.Logger
}

// Client fetches, parses and caches activity feeds.
type Client struct {
	fetcher    Fetcher
	template   string
	timeout    time.Duration
	attempts   uint
	delay      time.Duration
	permissive bool
	strategies []Strategy
	cache      *expirable.LRU[string, []Entry]
	logger     *slog.Logger
}

// New builds a client around fetcher.
func New(fetcher Fetcher, opts Options) *Client {
	if opts.URLTemplate == "" {
		opts.URLTemplate = "https://letterboxd.com/%s/rss/"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.Strategies == nil {
		opts.Strategies = DefaultStrategies
	}
	return &Client{
		fetcher:    fetcher,
		template:   opts.URLTemplate,
		timeout:    opts.Timeout,
		attempts:   opts.Attempts,
		delay:      opts.RetryDelay,
		permissive: opts.Permissive,
		strategies: opts.Strategies,
		cache:      expirable.NewLRU[string, []Entry](cacheSize, nil, opts.CacheTTL),
		logger:     logging.NewComponentLogger(opts.Logger, "feed"),
	}
}

// NewFromConfig builds the production client with a relay fetcher.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	attempts := cfg.Feed.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	relay := NewRelay(cfg.Feed.RelayURL, cfg.Feed.UserAgent, &http.Client{})
	return New(relay, Options{
		URLTemplate: cfg.Feed.FeedURLTemplate,
		CacheTTL:    cfg.FeedCacheTTL(),
		Timeout:     cfg.FeedTimeout(),
		Attempts:    uint(attempts),
		Permissive:  cfg.Feed.PermissiveDates,
		Logger:      logger,
	})
}

// Permissive reports whether entries without a watched date are accepted.
func (c *Client) Permissive() bool {
	return c.permissive
}

// FeedURL returns the feed address for username.
func (c *Client) FeedURL(username string) string {
	return fmt.Sprintf(c.template, username)
}

// FetchFeed returns the parsed feed for username. Results are cached for the
// configured TTL; failures are not cached.
func (c *Client) FetchFeed(ctx context.Context, username string) ([]Entry, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, services.Wrap(services.ErrValidation, "feed", "fetch", "username required", nil)
	}
	if cached, ok := c.cache.Get(username); ok {
		c.logger.Debug("feed cache hit", logging.String("username", username))
		return cached, nil
	}

	target := c.FeedURL(username)
	var document []byte
	err := retry.Do(
		func() error {
			attemptCtx, cancel := c.attemptContext(ctx)
			defer cancel()
			data, err := c.fetcher.Fetch(attemptCtx, target)
			if err != nil {
				if errors.Is(err, ErrNotXML) || !retryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			document = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying feed fetch",
				logging.String("username", username),
				logging.Int("attempt", int(n)+1),
				logging.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", username, err)
	}

	entries, err := Parse(document, c.strategies)
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "parse", username, err)
	}
	c.cache.Add(username, entries)
	c.logger.Info("feed fetched",
		logging.String("username", username),
		logging.Int("entries", len(entries)),
	)
	return entries, nil
}

func (c *Client) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// retryable treats 4xx relay answers other than 408 and 429 as final.
func retryable(err error) bool {
	var status *RelayStatusError
	if errors.As(err, &status) {
		return status.Code >= 500 || status.Code == http.StatusRequestTimeout || status.Code == http.StatusTooManyRequests
	}
	return true
}

// DiaryCandidates returns the entries that may be merged into the diary.
func (c *Client) DiaryCandidates(ctx context.Context, username string) ([]Entry, error) {
	entries, err := c.FetchFeed(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDiaryCandidate(c.permissive) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// GetEntriesSince returns diary candidates whose effective date is after
// since. Dates compare as YYYY-MM-DD strings so no time zone shifts a day.
func (c *Client) GetEntriesSince(ctx context.Context, username, since string) ([]Entry, error) {
	candidates, err := c.DiaryCandidates(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(candidates))
	for _, entry := range candidates {
		if entry.EffectiveDate(c.permissive) > since {
			out = append(out, entry)
		}
	}
	return out, nil
}

// RecentDiaryEntries converts up to limit candidates from the first 2*limit
// feed items into diary records.
func (c *Client) RecentDiaryEntries(ctx context.Context, username string, limit int) ([]film.Record, error) {
	entries, err := c.FetchFeed(ctx, username)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if len(entries) > limit*2 {
		entries = entries[:limit*2]
	}
	out := make([]film.Record, 0, limit)
	for _, entry := range entries {
		if len(out) == limit {
			break
		}
		if entry.IsDiaryCandidate(c.permissive) {
			out = append(out, ToDiaryRecord(entry, c.permissive))
		}
	}
	return out, nil
}

// ToDiaryRecords converts entries using the client's date policy.
func (c *Client) ToDiaryRecords(entries []Entry) []film.Record {
	out := make([]film.Record, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToDiaryRecord(entry, c.permissive))
	}
	return out
}

// Summary counts the last week of activity for username.
func (c *Client) Summary(ctx context.Context, username string, now time.Time) (Summary, error) {
	entries, err := c.FetchFeed(ctx, username)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries, now), nil
}

// TestAccess reports whether the feed for username can be fetched and
// parsed. An empty feed counts as accessible.
func (c *Client) TestAccess(ctx context.Context, username string) error {
	_, err := c.FetchFeed(ctx, username)
	return err
}

// ClearCache drops the cached feed for username, or every feed when username
// is empty.
func (c *Client) ClearCache(username string) {
	username = strings.TrimSpace(username)
	if username == "" {
		c.cache.Purge()
		return
	}
	c.cache.Remove(username)
}
