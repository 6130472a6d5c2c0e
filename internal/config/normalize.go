package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeFeed()
	c.normalizeReconcile()
	c.normalizeNotifications()
	c.normalizeLogging()
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	if value, ok := os.LookupEnv("FILMDASH_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.API.Token = value
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("FILMDASH_EXPORT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ExportDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if value, ok := os.LookupEnv("TMDB_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.TMDB.APIKey = value
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	if !strings.HasSuffix(c.TMDB.ImageBaseURL, "/") {
		c.TMDB.ImageBaseURL += "/"
	}
	c.TMDB.PosterSize = strings.Trim(strings.TrimSpace(c.TMDB.PosterSize), "/")
	if c.TMDB.PosterSize == "" {
		c.TMDB.PosterSize = defaultTMDBPosterSize
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = defaultTMDBTimeoutSeconds
	}
	if c.TMDB.FallbackPosterCount <= 0 {
		c.TMDB.FallbackPosterCount = defaultFallbackPosterCount
	}
	c.TMDB.FallbackPosterPattern = strings.TrimSpace(c.TMDB.FallbackPosterPattern)
	if c.TMDB.FallbackPosterPattern == "" {
		c.TMDB.FallbackPosterPattern = defaultFallbackPosterPattern
	}
}

func (c *Config) normalizeFeed() {
	c.Feed.RelayURL = strings.TrimSpace(c.Feed.RelayURL)
	if c.Feed.RelayURL == "" {
		c.Feed.RelayURL = defaultRelayURL
	}
	c.Feed.FeedURLTemplate = strings.TrimSpace(c.Feed.FeedURLTemplate)
	if c.Feed.FeedURLTemplate == "" {
		c.Feed.FeedURLTemplate = defaultFeedURLTemplate
	}
	if c.Feed.CacheTTLSeconds <= 0 {
		c.Feed.CacheTTLSeconds = defaultFeedCacheTTLSeconds
	}
	if c.Feed.TimeoutSeconds <= 0 {
		c.Feed.TimeoutSeconds = defaultFeedTimeoutSeconds
	}
	if c.Feed.RetryAttempts <= 0 {
		c.Feed.RetryAttempts = defaultFeedRetryAttempts
	}
	c.Feed.UserAgent = strings.TrimSpace(c.Feed.UserAgent)
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = defaultFeedUserAgent
	}
	if c.Feed.PollSeconds <= 0 {
		c.Feed.PollSeconds = defaultFeedPollSeconds
	}
}

func (c *Config) normalizeReconcile() {
	if c.Reconcile.MaxLiveEntries <= 0 {
		c.Reconcile.MaxLiveEntries = defaultMaxLiveEntries
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.IntervalMinutes <= 0 {
		c.Notifications.IntervalMinutes = defaultNotifyIntervalMinutes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = defaultLogMaxBackups
	}
}
