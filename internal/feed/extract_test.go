package feed_test

import (
	"testing"

	"filmdash/internal/feed"
)

func TestValidTitle(t *testing.T) {
	invalid := []string{"", "   ", "7", "1917", "a", "--", "★★", " , - ", "Unknown", "UNKNOWN FILM"}
	for _, title := range invalid {
		if feed.ValidTitle(title) {
			t.Errorf("ValidTitle(%q) = true, want false", title)
		}
	}
	valid := []string{"Up", "Heat", "2001: A Space Odyssey", "M3GAN"}
	for _, title := range valid {
		if !feed.ValidTitle(title) {
			t.Errorf("ValidTitle(%q) = false, want true", title)
		}
	}
}

func TestStrategies(t *testing.T) {
	tests := []struct {
		name      string
		strategy  func(feed.Source) (feed.FilmInfo, bool)
		src       feed.Source
		wantOK    bool
		wantTitle string
		wantYear  string
		wantStars float64
	}{
		{
			name:     "namespace",
			strategy: feed.FromNamespace,
			src: feed.Source{Title: "Dune, 2021", Fields: map[string]string{
				"filmTitle": "Dune", "filmYear": "2021", "memberRating": "4.5",
			}},
			wantOK: true, wantTitle: "Dune", wantYear: "2021", wantStars: 4.5,
		},
		{
			name:     "namespace absent",
			strategy: feed.FromNamespace,
			src:      feed.Source{Title: "alice Dune, 2021"},
		},
		{
			name:      "rated title",
			strategy:  feed.FromRatedTitle,
			src:       feed.Source{Title: "ghosteffect A Minecraft Movie, 2025 - ★★★"},
			wantOK:    true,
			wantTitle: "A Minecraft Movie", wantYear: "2025", wantStars: 3,
		},
		{
			name:      "rated title half star",
			strategy:  feed.FromRatedTitle,
			src:       feed.Source{Title: "alice Heat, 1995 - ★★★½"},
			wantOK:    true,
			wantTitle: "Heat", wantYear: "1995", wantStars: 3.5,
		},
		{
			name:     "rated title needs dash",
			strategy: feed.FromRatedTitle,
			src:      feed.Source{Title: "alice Heat, 1995 (rewatch) ★★★½"},
		},
		{
			name:      "title year",
			strategy:  feed.FromTitleYear,
			src:       feed.Source{Title: "alice Heat, 1995 (rewatch) ★★★½"},
			wantOK:    true,
			wantTitle: "Heat", wantYear: "1995", wantStars: 3.5,
		},
		{
			name:      "heuristic",
			strategy:  feed.FromHeuristic,
			src:       feed.Source{Title: "alice Heat ★★★"},
			wantOK:    true,
			wantTitle: "Heat", wantStars: 3,
		},
		{
			name:     "heuristic single word",
			strategy: feed.FromHeuristic,
			src:      feed.Source{Title: "alice"},
		},
		{
			name:      "slug",
			strategy:  feed.FromSlug,
			src:       feed.Source{Title: "x", Link: "https://letterboxd.com/alice/film/the-godfather/"},
			wantOK:    true,
			wantTitle: "The Godfather",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := tt.strategy(tt.src)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if info.Title != tt.wantTitle || info.Year != tt.wantYear {
				t.Fatalf("got %q (%q), want %q (%q)", info.Title, info.Year, tt.wantTitle, tt.wantYear)
			}
			if tt.wantStars > 0 && (!info.HasRating || info.Rating != tt.wantStars) {
				t.Fatalf("rating = %v (%v), want %v", info.Rating, info.HasRating, tt.wantStars)
			}
			if tt.wantStars == 0 && info.HasRating {
				t.Fatalf("unexpected rating %v", info.Rating)
			}
		})
	}
}

func TestExtractFallsThroughInvalidTitles(t *testing.T) {
	src := feed.Source{
		Title: "alice unknown, 2020",
		Link:  "https://letterboxd.com/alice/film/parasite-2019/",
	}
	info, strategy := feed.Extract(src, feed.DefaultStrategies)
	if strategy != "slug" || info.Title != "Parasite 2019" {
		t.Fatalf("got %q via %q, want slug title", info.Title, strategy)
	}
	if info.URL != src.Link {
		t.Fatalf("url = %q", info.URL)
	}
}

func TestExtractReportsUnusableTitle(t *testing.T) {
	src := feed.Source{Title: "alice 1999, 2000 - ★★", Link: "https://letterboxd.com/alice/list/best/"}
	info, strategy := feed.Extract(src, feed.DefaultStrategies)
	if strategy != "" || info.Title != "" {
		t.Fatalf("expected no usable title, got %q via %q", info.Title, strategy)
	}
	if info.Year != "1999" || !info.HasRating || info.Rating != 2 {
		t.Fatalf("partial details lost: %+v", info)
	}
}

func TestClassifyActivity(t *testing.T) {
	tests := map[string]feed.ActivityType{
		"alice watched Heat, 1995":           feed.ActivityDiary,
		"alice reviewed Heat":                feed.ActivityReview,
		"alice liked Heat":                   feed.ActivityLike,
		"alice added Heat to her watchlist":  feed.ActivityWatchlist,
		"alice created a list: Best of 2024": feed.ActivityList,
		"Heat, 1995 - ★★★★":                  feed.ActivityOther,
	}
	for title, want := range tests {
		if got := feed.ClassifyActivity(title); got != want {
			t.Errorf("ClassifyActivity(%q) = %s, want %s", title, got, want)
		}
	}
}
