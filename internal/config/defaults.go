package config

const (
	defaultConfigPath            = "~/.config/filmdash/config.toml"
	defaultExportDir             = "letterboxd-export"
	defaultDataDir               = "~/.local/share/filmdash"
	defaultLogDir                = "~/.local/share/filmdash/logs"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p/"
	defaultTMDBPosterSize        = "w500"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBTimeoutSeconds    = 10
	defaultFallbackPosterCount   = 8
	defaultFallbackPosterPattern = "images/fallback-posters/poster-%d.jpg"
	defaultRelayURL              = "https://api.allorigins.win/get"
	defaultFeedURLTemplate       = "https://letterboxd.com/%s/rss/"
	defaultFeedCacheTTLSeconds   = 300
	defaultFeedTimeoutSeconds    = 15
	defaultFeedRetryAttempts     = 2
	defaultFeedUserAgent         = "filmdash/0.1"
	defaultFeedPollSeconds       = 300
	defaultMaxLiveEntries        = 20
	defaultNotifyRequestTimeout  = 10
	defaultNotifyIntervalMinutes = 30
	defaultAPIBind               = "127.0.0.1:7490"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogMaxSizeMB          = 10
	defaultLogMaxBackups         = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExportDir: defaultExportDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:               defaultTMDBBaseURL,
			ImageBaseURL:          defaultTMDBImageBaseURL,
			PosterSize:            defaultTMDBPosterSize,
			Language:              defaultTMDBLanguage,
			TimeoutSeconds:        defaultTMDBTimeoutSeconds,
			FallbackPosterCount:   defaultFallbackPosterCount,
			FallbackPosterPattern: defaultFallbackPosterPattern,
		},
		Feed: Feed{
			RelayURL:        defaultRelayURL,
			FeedURLTemplate: defaultFeedURLTemplate,
			CacheTTLSeconds: defaultFeedCacheTTLSeconds,
			TimeoutSeconds:  defaultFeedTimeoutSeconds,
			RetryAttempts:   defaultFeedRetryAttempts,
			UserAgent:       defaultFeedUserAgent,
			PollSeconds:     defaultFeedPollSeconds,
		},
		Reconcile: Reconcile{
			MaxLiveEntries:       defaultMaxLiveEntries,
			OnlyNewerThanLatest:  true,
			StrictDuplicateCheck: true,
		},
		Notifications: Notifications{
			RequestTimeout:  defaultNotifyRequestTimeout,
			IntervalMinutes: defaultNotifyIntervalMinutes,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
