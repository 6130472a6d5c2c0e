package reconcile

import (
	"log/slog"
	"sync"

	"filmdash/internal/config"
	"filmdash/internal/film"
	"filmdash/internal/logging"
)

// Options control a diary merge.
type Options struct {
	MaxLiveEntries       int
	OnlyNewerThanLatest  bool
	StrictDuplicateCheck bool
}

// DefaultOptions returns the merge policy used when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxLiveEntries: 20, OnlyNewerThanLatest: true, StrictDuplicateCheck: true}
}

// OptionsFromConfig reads the merge policy from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.Reconcile.MaxLiveEntries > 0 {
		opts.MaxLiveEntries = cfg.Reconcile.MaxLiveEntries
	}
	opts.OnlyNewerThanLatest = cfg.Reconcile.OnlyNewerThanLatest
	opts.StrictDuplicateCheck = cfg.Reconcile.StrictDuplicateCheck
	return opts
}

// Reconciler merges live diary records into export data. It remembers the
// records accepted by the last diary merge so the watched companion only
// considers those.
type Reconciler struct {
	mu       sync.Mutex
	accepted []film.Record
	logger   *slog.Logger
}

// New returns a reconciler.
func New(logger *slog.Logger) *Reconciler {
	return &Reconciler{logger: logging.NewComponentLogger(logger, "reconcile")}
}

// MergeDiary returns existing with the surviving live records prepended and
// the union sorted newest first. Merged records are tagged live. When nothing
// survives, existing is returned unchanged. Neither input is modified.
func (r *Reconciler) MergeDiary(existing, live []film.Record, opts Options) []film.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted = nil

	if len(live) == 0 {
		return existing
	}

	candidates := live
	if opts.OnlyNewerThanLatest {
		candidates = newerThanLatest(existing, live)
	}
	if len(candidates) == 0 {
		r.logger.Debug("no live entries newer than diary", logging.Int("live", len(live)))
		return existing
	}
	if opts.MaxLiveEntries > 0 && len(candidates) > opts.MaxLiveEntries {
		candidates = candidates[:opts.MaxLiveEntries]
	}

	seen := make(keySet, len(existing)*4)
	for _, rec := range existing {
		seen.addAll(duplicateKeys(rec, opts.StrictDuplicateCheck))
	}

	accepted := make([]film.Record, 0, len(candidates))
	batch := make(map[string]struct{}, len(candidates))
	for _, rec := range candidates {
		if seen.any(duplicateKeys(rec, opts.StrictDuplicateCheck)) {
			continue
		}
		if uri := rec.URI(); uri != "" {
			if _, dup := batch[uri]; dup {
				continue
			}
			batch[uri] = struct{}{}
		}
		tagged := rec.Clone()
		tagged[film.FieldLive] = "true"
		accepted = append(accepted, tagged)
	}

	r.logger.Debug("live diary merge",
		logging.Int("live", len(live)),
		logging.Int("candidates", len(candidates)),
		logging.Int("accepted", len(accepted)),
		logging.Bool("strict", opts.StrictDuplicateCheck),
	)
	if len(accepted) == 0 {
		return existing
	}
	r.accepted = film.CloneAll(accepted)

	merged := make([]film.Record, 0, len(accepted)+len(existing))
	merged = append(merged, accepted...)
	merged = append(merged, existing...)
	SortNewestFirst(merged)
	return merged
}

// MergeWatched adds the films accepted by the preceding MergeDiary to watched,
// skipping titles already present by normalized title and year. The accepted
// set is cleared afterwards, so a second call is a no-op.
func (r *Reconciler) MergeWatched(watched []film.Record) []film.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	accepted := r.accepted
	r.accepted = nil
	if len(accepted) == 0 {
		return watched
	}

	present := make(map[string]struct{}, len(watched))
	for _, rec := range watched {
		if rec.Name() != "" {
			present[film.RecordKey(rec)] = struct{}{}
		}
	}

	additions := make([]film.Record, 0, len(accepted))
	for _, rec := range accepted {
		if rec.Name() == "" {
			continue
		}
		key := film.RecordKey(rec)
		if _, ok := present[key]; ok {
			continue
		}
		present[key] = struct{}{}
		additions = append(additions, film.Record{
			film.FieldDate: rec.Get(film.FieldDate, film.FieldWatchedDate),
			film.FieldName: rec.Name(),
			film.FieldYear: rec.Year(),
			film.FieldURI:  rec.URI(),
			film.FieldLive: "true",
		})
	}
	r.logger.Debug("live watched merge",
		logging.Int("accepted", len(accepted)),
		logging.Int("added", len(additions)),
	)
	if len(additions) == 0 {
		return watched
	}

	merged := make([]film.Record, 0, len(watched)+len(additions))
	merged = append(merged, watched...)
	merged = append(merged, additions...)
	sortWatched(merged)
	return merged
}

// Accepted returns a copy of the records accepted by the last diary merge
// that MergeWatched has not consumed yet.
func (r *Reconciler) Accepted() []film.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return film.CloneAll(r.accepted)
}

func newerThanLatest(existing, live []film.Record) []film.Record {
	latest, ok := latestDate(existing)
	if !ok {
		return live
	}
	out := make([]film.Record, 0, len(live))
	for _, rec := range live {
		if ts, ok := rec.Time(); ok && ts.After(latest) {
			out = append(out, rec)
		}
	}
	return out
}
