package export_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"filmdash/internal/export"
	"filmdash/internal/film"
	"filmdash/internal/services"
)

const diaryCSV = `Date,Name,Year,Letterboxd URI,Rating,Rewatch,Tags,Watched Date
2024-01-05,Heat,1995,https://boxd.it/heat,4.5,,,2024-01-04
2024-02-10,Alien,1979,https://boxd.it/alien,5,,,2024-02-10
2024-02-11,Broken,row
`

const watchedCSV = `Date,Name,Year,Letterboxd URI
2023-12-01,Heat,1995,https://boxd.it/heat-w
2023-12-02,Alien,1979,https://boxd.it/alien
2023-12-03,Arrival,2016,https://boxd.it/arrival
`

const ratingsCSV = `Date,Name,Year,Letterboxd URI,Rating
2023-11-01,Heat,1995,https://boxd.it/heat,4.5
2023-11-02,Arrival,2016,https://boxd.it/arrival,4
2023-11-03,Cats,2019,https://boxd.it/cats,0.5
`

const listCSV = `Letterboxd list export v7
Date,Name,Tags,URL,Description
2023-06-01,Best of 2019,,https://boxd.it/list,My year
 
Position,Name,Year,URL,Description
1,Parasite,2019,https://boxd.it/parasite,Top
2,Knives Out,2019,https://boxd.it/knives,
`

func writeFiles(t *testing.T, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		if err := afero.WriteFile(fsys, filepath.Join(root, rel), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func newFixture(t *testing.T) *export.Repository {
	t.Helper()
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "export", map[string]string{
		"users.json":                `[{"id":"alice","displayName":"Alice","folder":"alice","lists":["best-2019.csv","missing.csv"]},{"id":"bob","displayName":"Bob","folder":"bob"}]`,
		"alice/profile.csv":         "Date Joined,Username,Favorite Films\n2020-01-01,alicefilms,\"https://boxd.it/alien, https://boxd.it/arrival, https://boxd.it/cats, https://boxd.it/nope\"\n",
		"alice/diary.csv":           diaryCSV,
		"alice/watched.csv":         watchedCSV,
		"alice/ratings.csv":         ratingsCSV,
		"alice/reviews.csv":         "Date,Name,Year,Review\n2024-01-05,Heat,1995,Great\n2024-01-06,Alien,1979,\n",
		"alice/likes/films.csv":     "Date,Name,Year\n2024-01-01,Heat,1995\n",
		"alice/lists/best-2019.csv": listCSV,
		"bob/diary.csv":             diaryCSV,
	})
	return export.NewRepository(fsys, "export", nil)
}

func TestLoadAssemblesBundle(t *testing.T) {
	repo := newFixture(t)
	bundle, err := repo.Load(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(bundle.Diary) != 2 {
		t.Fatalf("diary rows = %d, want 2 (malformed row dropped)", len(bundle.Diary))
	}
	if len(bundle.Watched) != 3 || len(bundle.Ratings) != 3 || len(bundle.Reviews) != 2 {
		t.Fatalf("unexpected counts: watched=%d ratings=%d reviews=%d", len(bundle.Watched), len(bundle.Ratings), len(bundle.Reviews))
	}
	if bundle.Watchlist == nil || len(bundle.Watchlist) != 0 {
		t.Fatalf("missing watchlist should load as empty, got %#v", bundle.Watchlist)
	}
	if len(bundle.Likes.Films) != 1 || len(bundle.Likes.Reviews) != 0 {
		t.Fatalf("unexpected likes: %+v", bundle.Likes)
	}
	if len(bundle.Lists) != 1 {
		t.Fatalf("lists = %d, want 1", len(bundle.Lists))
	}
	list := bundle.Lists[0]
	if list.Title() != "Best of 2019" || list.Description() != "My year" || len(list.Items) != 2 {
		t.Fatalf("unexpected list: title=%q desc=%q items=%d", list.Title(), list.Description(), len(list.Items))
	}
	item := export.ListItem(list.Items[0])
	if item.Name() != "Parasite" || item.Position() != "1" || item.Notes() != "Top" {
		t.Fatalf("unexpected list item: %+v", list.Items[0])
	}
	if bundle.DisplayName != "alicefilms" {
		t.Fatalf("display name = %q", bundle.DisplayName)
	}
}

func TestFavoritesPreferDiary(t *testing.T) {
	repo := newFixture(t)
	bundle, err := repo.Load(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bundle.Favorites) != 3 {
		t.Fatalf("favorites = %d, want 3 (unresolved dropped)", len(bundle.Favorites))
	}
	// Alien is in diary and watched; the diary row carries a Rating column.
	if bundle.Favorites[0][film.FieldRating] != "5" {
		t.Fatalf("alien favorite did not resolve to diary: %+v", bundle.Favorites[0])
	}
	if bundle.Favorites[1].Name() != "Arrival" || bundle.Favorites[1].Date() != "2023-12-03" {
		t.Fatalf("arrival should resolve to watched: %+v", bundle.Favorites[1])
	}
	if bundle.Favorites[2].Name() != "Cats" {
		t.Fatalf("cats should resolve to ratings: %+v", bundle.Favorites[2])
	}
}

func TestDisplayNameChain(t *testing.T) {
	repo := newFixture(t)
	bundle, err := repo.Load(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bundle.DisplayName != "Bob" {
		t.Fatalf("display name = %q, want configured name", bundle.DisplayName)
	}

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "export", map[string]string{
		"users.json": `[{"id":"zed","displayName":"   ","folder":"zed"}]`,
	})
	bundle, err = export.NewRepository(fsys, "export", nil).Load(context.Background(), "zed")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bundle.DisplayName != "zed" {
		t.Fatalf("display name = %q, want raw id", bundle.DisplayName)
	}
}

func TestLoadUnknownProfile(t *testing.T) {
	repo := newFixture(t)
	if _, err := repo.Load(context.Background(), "mallory"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSingleUserModeReadsBaseDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "export", map[string]string{
		"diary.csv":      diaryCSV,
		"lists/2019.csv": listCSV,
	})
	repo := export.NewRepository(fsys, "export", nil)
	users := repo.Users()
	if len(users) != 1 || users[0].ID != "default" {
		t.Fatalf("unexpected users: %+v", users)
	}
	bundle, err := repo.Load(context.Background(), "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bundle.Diary) != 2 {
		t.Fatalf("diary = %d", len(bundle.Diary))
	}
	if len(bundle.Lists) != 1 || bundle.Lists[0].Filename != "2019.csv" {
		t.Fatalf("legacy list set not used: %+v", bundle.Lists)
	}
	if bundle.DisplayName != "User" {
		t.Fatalf("display name = %q", bundle.DisplayName)
	}
}

func TestRestoreDiaryIsExact(t *testing.T) {
	repo := newFixture(t)
	bundle, err := repo.Load(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	original := film.CloneAll(bundle.Diary)

	bundle.Diary[0][film.FieldName] = "Mutated"
	bundle.Diary = append([]film.Record{{film.FieldName: "Live", film.FieldLive: "true"}}, bundle.Diary...)
	bundle.RestoreDiary()

	if !reflect.DeepEqual(bundle.Diary, original) {
		t.Fatalf("restored diary differs:\n got %+v\nwant %+v", bundle.Diary, original)
	}
	bundle.Diary[0][film.FieldName] = "Again"
	if snap := bundle.DiarySnapshot(); snap[0].Name() != "Heat" {
		t.Fatalf("snapshot aliased by restored diary: %+v", snap[0])
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	repo := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Load(ctx, "alice"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
