package view

import (
	"strings"
	"sync"

	"filmdash/internal/film"
)

// Names of the paged collections.
const (
	Diary     = "diary"
	Watchlist = "watchlist"
	Reviews   = "reviews"
	Watched   = "watched"
	Films     = "films"
	Ratings   = "ratings"
)

const defaultPageSize = 32

var defaults = map[string]State{
	Diary:     {Page: 1, PageSize: defaultPageSize, Sort: Sort{SortDate, Desc}},
	Watchlist: {Page: 1, PageSize: defaultPageSize, Sort: Sort{SortDate, Desc}},
	Reviews:   {Page: 1, PageSize: 10, Sort: Sort{SortDate, Desc}},
	Watched:   {Page: 1, PageSize: defaultPageSize, Sort: Sort{SortYear, Desc}},
	Films:     {Page: 1, PageSize: defaultPageSize, Sort: Sort{SortYear, Desc}},
	Ratings:   {Page: 1, PageSize: defaultPageSize, Sort: Sort{SortRating, Desc}},
}

// State is the navigation state of one view.
type State struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Sort     Sort   `json:"sort"`
	Filter   string `json:"filter,omitempty"`
}

// Default returns the initial state for name. Unknown views page by 32,
// newest first.
func Default(name string) State {
	if st, ok := defaults[name]; ok {
		return st
	}
	return State{Page: 1, PageSize: defaultPageSize, Sort: Sort{SortDate, Desc}}
}

// SetSort changes the order and returns to the first page.
func (s *State) SetSort(sort Sort) {
	s.Sort = sort
	s.Page = 1
}

// SetFilter changes the name filter and returns to the first page.
func (s *State) SetFilter(filter string) {
	s.Filter = strings.TrimSpace(filter)
	s.Page = 1
}

// SetPage moves to page, clamped below at 1. Pages past the end are allowed
// and render empty.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Page is one rendered slice of a collection.
type Page struct {
	Items    []film.Record `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	PageSize int           `json:"page_size"`
}

// Apply filters, sorts and slices records.
func (s State) Apply(records []film.Record) Page {
	size := s.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	page := s.Page
	if page < 1 {
		page = 1
	}

	filtered := Filter(records, s.Filter)
	sorted := SortRecords(filtered, s.Sort)
	total := len(sorted)
	out := Page{
		Items:    []film.Record{},
		Total:    total,
		Page:     page,
		Pages:    (total + size - 1) / size,
		PageSize: size,
	}
	start := (page - 1) * size
	if start >= total {
		return out
	}
	end := min(start+size, total)
	out.Items = sorted[start:end]
	return out
}

// Filter keeps records whose name contains query, ignoring case. An empty
// query keeps everything.
func Filter(records []film.Record, query string) []film.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	out := make([]film.Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Name()), query) {
			out = append(out, rec)
		}
	}
	return out
}

// Set tracks the state of every view for a session.
type Set struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewSet returns an empty set; views start at their defaults.
func NewSet() *Set {
	return &Set{states: make(map[string]*State)}
}

// Get returns a copy of the state for name without recording it.
func (vs *Set) Get(name string) State {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if st, ok := vs.states[name]; ok {
		return *st
	}
	return Default(name)
}

// Update applies fn to the state for name and returns the result.
func (vs *Set) Update(name string, fn func(*State)) State {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	st := vs.state(name)
	fn(st)
	return *st
}

// Reset returns every view to its defaults.
func (vs *Set) Reset() {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.states = make(map[string]*State)
}

func (vs *Set) state(name string) *State {
	st, ok := vs.states[name]
	if !ok {
		initial := Default(name)
		st = &initial
		vs.states[name] = st
	}
	return st
}
