package api

import (
	"filmdash/internal/export"
	"filmdash/internal/feed"
	"filmdash/internal/film"
	"filmdash/internal/tmdb"
	"filmdash/internal/view"
)

// Profile is one selectable profile.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Folder      string `json:"folder"`
	FeedUser    string `json:"feed_user,omitempty"`
}

// ProfilesResponse lists profiles and the current selection.
type ProfilesResponse struct {
	Profiles []Profile `json:"profiles"`
	Current  string    `json:"current,omitempty"`
}

// SelectResponse reports the outcome of a profile selection.
type SelectResponse struct {
	Selected    bool   `json:"selected"`
	Profile     string `json:"profile"`
	DisplayName string `json:"display_name,omitempty"`
	Live        bool   `json:"live"`
}

// ViewResponse is one rendered page of a view.
type ViewResponse struct {
	View    string        `json:"view"`
	State   view.State    `json:"state"`
	Page    view.Page     `json:"page"`
	Posters []tmdb.Poster `json:"posters,omitempty"`
}

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	Profile      string                `json:"profile"`
	DisplayName  string                `json:"display_name"`
	Live         bool                  `json:"live"`
	Stats        export.Stats          `json:"stats"`
	Monthly      []export.MonthCount   `json:"monthly"`
	Distribution []export.RatingBucket `json:"distribution"`
	Favorites    []film.Record         `json:"favorites"`
	Recent       []film.Record         `json:"recent"`
}

// LiveRequest toggles live data.
type LiveRequest struct {
	Enabled *bool `json:"enabled"`
}

// LiveResponse reports the live data state.
type LiveResponse struct {
	Enabled  bool   `json:"enabled"`
	FeedUser string `json:"feed_user,omitempty"`
	Diary    int    `json:"diary"`
}

// FeedSummaryResponse wraps the weekly feed summary.
type FeedSummaryResponse struct {
	FeedUser string       `json:"feed_user"`
	Summary  feed.Summary `json:"summary"`
}
