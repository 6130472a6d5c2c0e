package export

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	"filmdash/internal/film"
	"filmdash/internal/logging"
	"filmdash/internal/services"
	"filmdash/internal/tabular"
)

// legacyLists is loaded when the manifest names no list files for a profile.
var legacyLists = []string{
	"2019.csv",
	"lapflix-2023-watchlist.csv",
	"lapflix-movie-club.csv",
	"the-tarantino-movies-ranked.csv",
}

var likeKinds = []string{"films", "reviews", "lists"}

// Repository loads export bundles from a directory tree.
type Repository struct {
	fs      afero.Fs
	baseDir string
	logger  *slog.Logger
}

// NewRepository returns a repository rooted at baseDir. A nil fsys reads the
// host filesystem.
func NewRepository(fsys afero.Fs, baseDir string, logger *slog.Logger) *Repository {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Repository{
		fs:      fsys,
		baseDir: baseDir,
		logger:  logging.NewComponentLogger(logger, "export"),
	}
}

// BaseDir returns the export root.
func (r *Repository) BaseDir() string {
	return r.baseDir
}

// Users returns the selectable profiles. It never returns an empty slice.
func (r *Repository) Users() []User {
	users, err := readManifest(r.fs, r.baseDir)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, fs.ErrNotExist) {
			level = slog.LevelDebug
		}
		r.logger.Log(context.Background(), level, "users manifest unavailable; using single-user mode",
			logging.String("dir", r.baseDir),
			logging.Error(err),
		)
	}
	return users
}

// User finds a profile by id.
func (r *Repository) User(id string) (User, error) {
	id = strings.TrimSpace(id)
	for _, user := range r.Users() {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, services.Wrap(services.ErrNotFound, "export", "lookup profile", "unknown profile "+id, nil)
}

// Load reads every category of the profile's export concurrently and
// performs the derived joins once all reads have settled.
func (r *Repository) Load(ctx context.Context, id string) (*Bundle, error) {
	user, err := r.User(id)
	if err != nil {
		return nil, err
	}
	return r.LoadUser(ctx, user)
}

// LoadUser loads the bundle for an already resolved profile.
func (r *Repository) LoadUser(ctx context.Context, user User) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := r.userDir(user)
	logger := logging.WithContext(services.WithProfile(ctx, user.ID), r.logger)

	listFiles := user.Lists
	if len(listFiles) == 0 {
		listFiles = legacyLists
	}

	var (
		profile   []film.Record
		bundle    = &Bundle{User: user}
		likes     = make([][]film.Record, len(likeKinds))
		lists     = make([]*NamedList, len(listFiles))
		wg        conc.WaitGroup
		readTable = func(rel string, dst *[]film.Record) {
			wg.Go(func() { *dst = r.readTable(ctx, logger, dir, rel) })
		}
	)

	readTable("profile.csv", &profile)
	readTable("diary.csv", &bundle.Diary)
	readTable("watched.csv", &bundle.Watched)
	readTable("ratings.csv", &bundle.Ratings)
	readTable("reviews.csv", &bundle.Reviews)
	readTable("watchlist.csv", &bundle.Watchlist)
	readTable("comments.csv", &bundle.Comments)
	for i, kind := range likeKinds {
		readTable(filepath.Join("likes", kind+".csv"), &likes[i])
	}
	for i, name := range listFiles {
		wg.Go(func() { lists[i] = r.readList(ctx, logger, dir, name) })
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(profile) > 0 {
		bundle.Profile = profile[0]
	}
	bundle.Likes = Likes{Films: likes[0], Reviews: likes[1], Lists: likes[2]}
	for _, list := range lists {
		if list != nil {
			bundle.Lists = append(bundle.Lists, *list)
		}
	}
	bundle.finalize()

	logger.Info("export bundle loaded",
		logging.String("dir", dir),
		logging.Int("diary", len(bundle.Diary)),
		logging.Int("watched", len(bundle.Watched)),
		logging.Int("ratings", len(bundle.Ratings)),
		logging.Int("lists", len(bundle.Lists)),
	)
	return bundle, nil
}

func (r *Repository) userDir(user User) string {
	if user.SingleUserMode || user.Folder == "" || user.Folder == "." {
		return r.baseDir
	}
	return filepath.Join(r.baseDir, user.Folder)
}

func (r *Repository) readTable(ctx context.Context, logger *slog.Logger, dir, rel string) []film.Record {
	text, ok := r.readFile(ctx, logger, dir, rel)
	if !ok {
		return []film.Record{}
	}
	return tabular.Parse(text)
}

func (r *Repository) readList(ctx context.Context, logger *slog.Logger, dir, name string) *NamedList {
	text, ok := r.readFile(ctx, logger, dir, filepath.Join("lists", name))
	if !ok {
		return nil
	}
	parsed := tabular.ParseList(text)
	if parsed == nil {
		logger.Debug("list file too short; skipping", logging.String("list", name))
		return nil
	}
	return &NamedList{Filename: name, Metadata: parsed.Metadata, Items: parsed.Items}
}

// readFile reports false for any failure. A missing file is routine; other
// failures are logged as partial loads.
func (r *Repository) readFile(ctx context.Context, logger *slog.Logger, dir, rel string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	path := filepath.Join(dir, rel)
	data, err := afero.ReadFile(r.fs, path)
	if err == nil {
		return string(data), true
	}
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("export file not present", logging.String("path", path))
		return "", false
	}
	logging.WarnWithContext(logger, "export file unreadable",
		"export_partial_load",
		logging.String("path", path),
		logging.Error(services.Wrap(services.ErrPartialLoad, "export", "read", rel, err)),
		logging.String(logging.FieldErrorHint, "check file permissions in the export directory"),
		logging.String(logging.FieldImpact, "category shown as empty"),
	)
	return "", false
}
