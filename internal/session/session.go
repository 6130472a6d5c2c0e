package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"filmdash/internal/export"
	"filmdash/internal/feed"
	"filmdash/internal/film"
	"filmdash/internal/logging"
	"filmdash/internal/notifications"
	"filmdash/internal/reconcile"
	"filmdash/internal/services"
	"filmdash/internal/tmdb"
	"filmdash/internal/view"
)

const posterWorkers = 4

// PrefStore persists the live data choice per profile.
type PrefStore interface {
	LiveEnabled(ctx context.Context, profile string) (bool, error)
	SetLiveEnabled(ctx context.Context, profile string, enabled bool) error
}

// Deps are the collaborators a Session drives.
type Deps struct {
	Repository *export.Repository
	Enricher   *tmdb.Enricher
	Feed       *feed.Client
	Prefs      PrefStore
	Notifier   notifications.Service
	Reconcile  reconcile.Options // zero value means reconcile.DefaultOptions
	Logger     *slog.Logger
	Now        func() time.Time
}

// Session is the state of one dashboard session.
type Session struct {
	id         string
	repo       *export.Repository
	enricher   *tmdb.Enricher
	feed       *feed.Client
	prefs      PrefStore
	notifier   notifications.Service
	opts       reconcile.Options
	reconciler *reconcile.Reconciler
	views      *view.Set
	now        func() time.Time
	logger     *slog.Logger

	mu     sync.Mutex
	bundle *export.Bundle
	live   bool
}

// New builds a session with a fresh correlation id.
func New(deps Deps) *Session {
	id := uuid.NewString()
	if deps.Repository == nil {
		deps.Repository = export.NewRepository(nil, ".", deps.Logger)
	}
	if deps.Enricher == nil {
		deps.Enricher = tmdb.NewEnricher(nil, nil, tmdb.WithLogger(deps.Logger))
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewNoop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Reconcile == (reconcile.Options{}) {
		deps.Reconcile = reconcile.DefaultOptions()
	}
	logger := logging.NewComponentLogger(deps.Logger, "session").
		With(logging.String(logging.FieldCorrelationID, id))
	return &Session{
		id:         id,
		repo:       deps.Repository,
		enricher:   deps.Enricher,
		feed:       deps.Feed,
		prefs:      deps.Prefs,
		notifier:   deps.Notifier,
		opts:       deps.Reconcile,
		reconciler: reconcile.New(deps.Logger),
		views:      view.NewSet(),
		now:        deps.Now,
		logger:     logger,
	}
}

// ID returns the correlation id stamped on this session's logs.
func (s *Session) ID() string {
	return s.id
}

// Context decorates ctx with the session id and the selected profile.
func (s *Session) Context(ctx context.Context) context.Context {
	ctx = services.WithRequestID(ctx, s.id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle != nil {
		ctx = services.WithProfile(ctx, s.bundle.User.ID)
	}
	return ctx
}

// Profiles lists the selectable profiles.
func (s *Session) Profiles() []export.User {
	return s.repo.Users()
}

// Bundle returns the selected profile's bundle, or nil before selection.
func (s *Session) Bundle() *export.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle
}

// Live reports whether live data is merged into the current bundle.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// SelectProfile loads the profile and makes it current. An unknown id is
// logged and leaves the session unchanged, returning false. The saved live
// preference is restored; a feed failure during that restore leaves live
// data off.
func (s *Session) SelectProfile(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = services.WithProfile(services.WithRequestID(ctx, s.id), id)
	logger := logging.WithContext(ctx, s.logger)

	user, err := s.repo.User(id)
	if err != nil {
		logger.Info("profile selection ignored", logging.String("reason", "unknown profile"))
		return false, nil
	}
	bundle, err := s.repo.LoadUser(ctx, user)
	if err != nil {
		return false, err
	}

	s.bundle = bundle
	s.live = false
	s.views.Reset()
	logger.Info("profile selected",
		logging.String("display_name", bundle.DisplayName),
		logging.Int("diary", len(bundle.Diary)),
		logging.Int("watched", len(bundle.Watched)),
	)

	if s.prefs == nil || s.feed == nil {
		return true, nil
	}
	enabled, err := s.prefs.LiveEnabled(ctx, user.ID)
	if err != nil {
		logging.WarnWithContext(logger, "live preference unavailable", "prefs_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "live data starts disabled"),
		)
		return true, nil
	}
	if enabled {
		if err := s.enableLocked(ctx, false); err != nil {
			logging.WarnWithContext(logger, "live data could not be restored", "live_restore_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "showing export data only"),
				logging.String(logging.FieldErrorHint, "check the feed relay and try enabling live data again"),
			)
		}
	}
	return true, nil
}

// FeedUsername returns the feed account for the current profile: the
// manifest override, then the exported username, then the profile id.
func (s *Session) FeedUsername() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return feedUsername(s.bundle)
}

func feedUsername(bundle *export.Bundle) string {
	if bundle == nil {
		return ""
	}
	if name := strings.TrimSpace(bundle.User.FeedUsername); name != "" {
		return name
	}
	if name := bundle.Profile.Get(film.FieldUsername); name != "" {
		return name
	}
	return bundle.User.ID
}

// EnableLive checks the feed, merges its diary entries and records the
// choice. On any failure the bundle is unchanged and the error is returned.
func (s *Session) EnableLive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enableLocked(services.WithRequestID(ctx, s.id), true)
}

func (s *Session) enableLocked(ctx context.Context, persist bool) error {
	if s.bundle == nil {
		return services.Wrap(services.ErrValidation, "session", "enable live", "no profile selected", nil)
	}
	if s.feed == nil {
		return services.Wrap(services.ErrConfiguration, "session", "enable live", "feed client not configured", nil)
	}
	ctx = services.WithProfile(ctx, s.bundle.User.ID)
	logger := logging.WithContext(ctx, s.logger)
	username := feedUsername(s.bundle)

	if err := s.feed.TestAccess(ctx, username); err != nil {
		// Restores on profile selection only log; notices are for explicit enables.
		if persist {
			if notifyErr := s.notifier.NotifyFeedUnavailable(ctx, username, err); notifyErr != nil {
				logger.Debug("feed notice failed", logging.Error(notifyErr))
			}
		}
		return err
	}
	diary, watched, err := s.merge(ctx, username)
	if err != nil {
		return err
	}
	if persist && s.prefs != nil {
		if err := s.prefs.SetLiveEnabled(ctx, s.bundle.User.ID, true); err != nil {
			return services.Wrap(services.ErrTransient, "session", "enable live", "save preference", err)
		}
	}

	added := len(diary) - len(s.bundle.DiarySnapshot())
	s.bundle.Diary = diary
	s.bundle.Watched = watched
	s.live = true
	logger.Info("live data enabled",
		logging.String("feed_user", username),
		logging.Int("diary_added", added),
	)
	return nil
}

func (s *Session) merge(ctx context.Context, username string) ([]film.Record, []film.Record, error) {
	candidates, err := s.feed.DiaryCandidates(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	live := s.feed.ToDiaryRecords(candidates)
	diary := s.reconciler.MergeDiary(s.bundle.DiarySnapshot(), live, s.opts)
	watched := s.reconciler.MergeWatched(s.bundle.WatchedSnapshot())
	return diary, watched, nil
}

// DisableLive restores the diary and watched collections to their loaded
// content and records the choice. The restore always happens; a preference
// write failure is returned afterwards.
func (s *Session) DisableLive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil {
		return services.Wrap(services.ErrValidation, "session", "disable live", "no profile selected", nil)
	}
	ctx = services.WithProfile(services.WithRequestID(ctx, s.id), s.bundle.User.ID)
	s.bundle.RestoreDiary()
	s.bundle.RestoreWatched()
	s.live = false
	logging.WithContext(ctx, s.logger).Info("live data disabled")

	if s.prefs != nil {
		if err := s.prefs.SetLiveEnabled(ctx, s.bundle.User.ID, false); err != nil {
			return services.Wrap(services.ErrTransient, "session", "disable live", "save preference", err)
		}
	}
	return nil
}

// RefreshLive re-applies the merge from the snapshots using the feed as
// currently cached. It is a no-op while live data is off. On failure the
// previous merge stays in place.
func (s *Session) RefreshLive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil || !s.live {
		return nil
	}
	ctx = services.WithProfile(services.WithRequestID(ctx, s.id), s.bundle.User.ID)
	diary, watched, err := s.merge(ctx, feedUsername(s.bundle))
	if err != nil {
		return err
	}
	s.bundle.Diary = diary
	s.bundle.Watched = watched
	logging.WithContext(ctx, s.logger).Debug("live data refreshed", logging.Int("diary", len(diary)))
	return nil
}

// FeedSummary counts the last week of feed activity for the current profile.
func (s *Session) FeedSummary(ctx context.Context) (feed.Summary, error) {
	username := s.FeedUsername()
	if username == "" {
		return feed.Summary{}, services.Wrap(services.ErrValidation, "session", "feed summary", "no profile selected", nil)
	}
	if s.feed == nil {
		return feed.Summary{}, services.Wrap(services.ErrConfiguration, "session", "feed summary", "feed client not configured", nil)
	}
	return s.feed.Summary(services.WithRequestID(ctx, s.id), username, s.now())
}

// Page renders one page of a named collection.
func (s *Session) Page(name string) (view.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.collectionLocked(name)
	if err != nil {
		return view.Page{}, err
	}
	return s.views.Get(name).Apply(records), nil
}

// CheckView reports whether name is a collection of the selected profile.
func (s *Session) CheckView(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.collectionLocked(name)
	return err
}

func (s *Session) collectionLocked(name string) ([]film.Record, error) {
	if s.bundle == nil {
		return nil, services.Wrap(services.ErrValidation, "session", "page", "no profile selected", nil)
	}
	records, ok := s.bundle.Collection(name)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "session", "page", "unknown view "+name, nil)
	}
	return records, nil
}

// ViewState returns the navigation state of a view.
func (s *Session) ViewState(name string) view.State {
	return s.views.Get(name)
}

// SetSort applies a "key-dir" sort to a view and returns to page 1.
func (s *Session) SetSort(name, value string) (view.State, error) {
	sort, err := view.ParseSort(value)
	if err != nil {
		return view.State{}, err
	}
	return s.views.Update(name, func(st *view.State) { st.SetSort(sort) }), nil
}

// SetFilter applies a name filter to a view and returns to page 1.
func (s *Session) SetFilter(name, filter string) view.State {
	return s.views.Update(name, func(st *view.State) { st.SetFilter(filter) })
}

// SetPage moves a view to page.
func (s *Session) SetPage(name string, page int) view.State {
	return s.views.Update(name, func(st *view.State) { st.SetPage(page) })
}

// Poster resolves artwork for one record.
func (s *Session) Poster(ctx context.Context, rec film.Record) tmdb.Poster {
	return s.enricher.Poster(services.WithRequestID(ctx, s.id), rec.Name(), rec.Year())
}

// Posters resolves artwork for a page of records with a small worker pool.
// Results line up with records.
func (s *Session) Posters(ctx context.Context, records []film.Record) []tmdb.Poster {
	ctx = services.WithRequestID(ctx, s.id)
	mapper := iter.Mapper[film.Record, tmdb.Poster]{MaxGoroutines: posterWorkers}
	return mapper.Map(records, func(rec *film.Record) tmdb.Poster {
		return s.enricher.Poster(ctx, rec.Name(), rec.Year())
	})
}

// Stats summarises the current bundle.
func (s *Session) Stats() (export.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil {
		return export.Stats{}, services.Wrap(services.ErrValidation, "session", "stats", "no profile selected", nil)
	}
	return s.bundle.Stats(), nil
}

type resetter interface {
	Reset()
}

// ClearCaches drops enrichment results and cached feeds, and re-arms
// rate-limited notices.
func (s *Session) ClearCaches() {
	s.enricher.ClearCache()
	if s.feed != nil {
		s.feed.ClearCache("")
	}
	if r, ok := s.notifier.(resetter); ok {
		r.Reset()
	}
	s.logger.Info("caches cleared")
}
