package session

import (
	"errors"
	"fmt"
	"log/slog"

	"filmdash/internal/config"
	"filmdash/internal/export"
	"filmdash/internal/feed"
	"filmdash/internal/notifications"
	"filmdash/internal/prefs"
	"filmdash/internal/reconcile"
	"filmdash/internal/tmdb"
)

// Runtime holds the production collaborators built from configuration.
type Runtime struct {
	Config     *config.Config
	Repository *export.Repository
	Prefs      *prefs.Store
	Notifier   *notifications.RateLimited
	Enricher   *tmdb.Enricher
	Feed       *feed.Client
	Session    *Session
}

// Open wires a session from cfg. The caller closes the runtime.
func Open(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	store, err := prefs.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	notifier := notifications.NewRateLimited(
		notifications.NewService(cfg, logger),
		cfg.NotificationInterval(),
		notifications.WithDismissed(store.NotificationsDismissed),
		notifications.WithOncePerSession(cfg.Notifications.OncePerSession),
	)
	rt := &Runtime{
		Config:     cfg,
		Repository: export.NewRepository(nil, cfg.Paths.ExportDir, logger),
		Prefs:      store,
		Notifier:   notifier,
		Enricher:   tmdb.NewFromConfig(cfg, nil, notifier, logger),
		Feed:       feed.NewFromConfig(cfg, logger),
	}
	rt.Session = New(Deps{
		Repository: rt.Repository,
		Enricher:   rt.Enricher,
		Feed:       rt.Feed,
		Prefs:      store,
		Notifier:   notifier,
		Reconcile:  reconcile.OptionsFromConfig(cfg),
		Logger:     logger,
	})
	return rt, nil
}

// Close releases the preference database.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return r.Prefs.Close()
}
