package export

import (
	"strings"

	"filmdash/internal/film"
)

// Likes holds the three likes sub-collections.
type Likes struct {
	Films   []film.Record
	Reviews []film.Record
	Lists   []film.Record
}

// Bundle is the assembled export data of one profile.
type Bundle struct {
	User        User
	Profile     film.Record
	Diary       []film.Record
	Watched     []film.Record
	Ratings     []film.Record
	Reviews     []film.Record
	Watchlist   []film.Record
	Comments    []film.Record
	Likes       Likes
	Lists       []NamedList
	Favorites   []film.Record
	DisplayName string

	diarySnapshot   []film.Record
	watchedSnapshot []film.Record
}

func (b *Bundle) finalize() {
	b.DisplayName = b.resolveDisplayName()
	b.Favorites = b.resolveFavorites()
	b.diarySnapshot = film.CloneAll(b.Diary)
	b.watchedSnapshot = film.CloneAll(b.Watched)
}

func (b *Bundle) resolveDisplayName() string {
	if name := b.Profile.Get(film.FieldUsername); name != "" {
		return name
	}
	if name := strings.TrimSpace(b.User.DisplayName); name != "" {
		return name
	}
	return b.User.ID
}

// resolveFavorites maps each favorite URI to the first diary, watched or
// ratings record carrying it, in that order.
func (b *Bundle) resolveFavorites() []film.Record {
	raw := b.Profile.Get(film.FieldFavoriteFilms)
	if raw == "" {
		return nil
	}
	var out []film.Record
	for _, uri := range strings.Split(raw, ", ") {
		uri = strings.TrimSpace(uri)
		if uri == "" {
			continue
		}
		if rec := b.FindByURI(uri); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// FindByURI returns the first record with the given Letterboxd URI, searching
// diary, then watched, then ratings. It returns nil when none match.
func (b *Bundle) FindByURI(uri string) film.Record {
	for _, collection := range [][]film.Record{b.Diary, b.Watched, b.Ratings} {
		for _, rec := range collection {
			if rec[film.FieldURI] == uri {
				return rec
			}
		}
	}
	return nil
}

// DiarySnapshot returns a copy of the diary as loaded from disk.
func (b *Bundle) DiarySnapshot() []film.Record {
	return film.CloneAll(b.diarySnapshot)
}

// WatchedSnapshot returns a copy of the watched collection as loaded.
func (b *Bundle) WatchedSnapshot() []film.Record {
	return film.CloneAll(b.watchedSnapshot)
}

// RestoreDiary replaces the diary with a fresh copy of the load-time snapshot.
func (b *Bundle) RestoreDiary() {
	b.Diary = film.CloneAll(b.diarySnapshot)
}

// RestoreWatched replaces the watched collection with its load-time copy.
func (b *Bundle) RestoreWatched() {
	b.Watched = film.CloneAll(b.watchedSnapshot)
}

// Collection returns the records behind a named view. Unknown names report false.
func (b *Bundle) Collection(name string) ([]film.Record, bool) {
	switch name {
	case "diary":
		return b.Diary, true
	case "watched":
		return b.Watched, true
	case "ratings":
		return b.Ratings, true
	case "reviews":
		return b.ReviewsWithText(), true
	case "watchlist":
		return b.Watchlist, true
	case "films":
		return b.AllFilms(), true
	case "comments":
		return b.Comments, true
	default:
		return nil, false
	}
}

// NamedList is one parsed list export.
type NamedList struct {
	Filename string
	Metadata film.Record
	Items    []film.Record
}

// Title returns the list name, or the filename without extension.
func (l NamedList) Title() string {
	if name := l.Metadata.Get(film.FieldName); name != "" {
		return name
	}
	return strings.TrimSuffix(l.Filename, ".csv")
}

// Description returns the list description if exported.
func (l NamedList) Description() string {
	return l.Metadata.Get(film.FieldDescription)
}

// ListItem reads list rows that may use alternate column names.
type ListItem film.Record

// Name returns Name, Film Name or Title.
func (i ListItem) Name() string { return film.Record(i).Name() }

// Year returns Year or Release Year.
func (i ListItem) Year() string { return film.Record(i).Year() }

// Position returns the ranked position if the list is ordered.
func (i ListItem) Position() string { return film.Record(i).Get(film.FieldPosition) }

// Notes returns Notes or Description.
func (i ListItem) Notes() string { return film.Record(i).Get(film.FieldNotes, film.FieldDescription) }

// URI returns the film URI.
func (i ListItem) URI() string { return film.Record(i).URI() }
