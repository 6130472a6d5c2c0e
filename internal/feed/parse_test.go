package feed_test

import (
	"testing"
	"time"

	"filmdash/internal/feed"
	"filmdash/internal/film"
)

func TestParseRSS(t *testing.T) {
	entries, err := feed.Parse([]byte(rssFixture), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	dune := entries[0]
	if dune.Type != feed.ActivityDiary || dune.WatchedDate != "2024-02-02" {
		t.Fatalf("unexpected dune entry: %+v", dune)
	}
	if dune.Film.Title != "Dune" || dune.Film.Year != "2021" || dune.Film.Rating != 4 {
		t.Fatalf("namespace fields not used: %+v", dune.Film)
	}
	if !dune.IsDiaryCandidate(false) {
		t.Fatal("dune should be a diary candidate")
	}

	heat := entries[1]
	if heat.Film.Title != "watched Heat" && heat.Film.Title != "Heat" {
		t.Fatalf("unexpected heat title %q", heat.Film.Title)
	}
	if heat.IsDiaryCandidate(false) {
		t.Fatal("entry without watched date must not be a strict candidate")
	}
	if !heat.IsDiaryCandidate(true) || heat.EffectiveDate(true) != "2024-02-01" {
		t.Fatalf("permissive candidate date = %q", heat.EffectiveDate(true))
	}

	if entries[2].Type != feed.ActivityLike {
		t.Fatalf("barbie type = %s", entries[2].Type)
	}
}

func TestParseAtom(t *testing.T) {
	entries, err := feed.Parse([]byte(atomFixture), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	alien := entries[0]
	if alien.Link != "https://letterboxd.com/alice/film/alien/" || alien.Description != "Perfect" {
		t.Fatalf("unexpected atom entry: %+v", alien)
	}
	if alien.Film.Title != "Alien" || alien.Film.Rating != 5 || alien.Published.IsZero() {
		t.Fatalf("unexpected film info: %+v", alien)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := feed.Parse([]byte("<?xml version=\"1.0\"?><nothing/>"), nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestToDiaryRecord(t *testing.T) {
	entry := feed.Entry{
		Link:        "https://letterboxd.com/alice/film/dune-2021/",
		WatchedDate: "2024-02-02",
		Rewatch:     true,
		Film:        feed.FilmInfo{Title: "Dune", Year: "2021", Rating: 4.5, HasRating: true},
	}
	rec := feed.ToDiaryRecord(entry, false)
	if rec.Name() != "Dune" || rec.Year() != "2021" || rec.Date() != "2024-02-02" || rec.WatchedDate() != "2024-02-02" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec[film.FieldRating] != "4.5" || rec[film.FieldRewatch] != "Yes" || !rec.Live() {
		t.Fatalf("unexpected record flags: %+v", rec)
	}
	if rec.URI() != entry.Link {
		t.Fatalf("uri = %q", rec.URI())
	}
}

func TestSummarize(t *testing.T) {
	entries, err := feed.Parse([]byte(rssFixture), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	now := time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC)
	summary := feed.Summarize(entries, now)
	if summary.Total != 2 || summary.Watched != 2 || summary.Liked != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.LastActivity == nil || !summary.LastActivity.Equal(entries[0].Published) {
		t.Fatalf("last activity = %v", summary.LastActivity)
	}
}
