package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"filmdash/internal/film"
	"filmdash/internal/logging"
	"filmdash/internal/services"
)

const (
	recentLimit = 10
	monthWindow = 12
)

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	users := s.session.Profiles()
	resp := ProfilesResponse{Profiles: make([]Profile, 0, len(users))}
	for _, user := range users {
		resp.Profiles = append(resp.Profiles, Profile{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			Folder:      user.Folder,
			FeedUser:    user.FeedUsername,
		})
	}
	if bundle := s.session.Bundle(); bundle != nil {
		resp.Current = bundle.User.ID
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	ok, err := s.session.SelectProfile(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown profile "+id)
		return
	}
	bundle := s.session.Bundle()
	s.writeJSON(w, http.StatusOK, SelectResponse{
		Selected:    true,
		Profile:     bundle.User.ID,
		DisplayName: bundle.DisplayName,
		Live:        s.session.Live(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["view"]
	query := r.URL.Query()
	ctx := services.WithView(r.Context(), name)

	if err := s.session.CheckView(name); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if value := query.Get("sort"); value != "" {
		if _, err := s.session.SetSort(name, value); err != nil {
			s.writeServiceError(w, err)
			return
		}
	}
	if query.Has("filter") {
		s.session.SetFilter(name, query.Get("filter"))
	}
	if value := query.Get("page"); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		s.session.SetPage(name, page)
	}

	page, err := s.session.Page(name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	resp := ViewResponse{View: name, State: s.session.ViewState(name), Page: page}
	if wantPosters, _ := strconv.ParseBool(query.Get("posters")); wantPosters {
		resp.Posters = s.session.Posters(ctx, page.Items)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.session.Stats()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	bundle := s.session.Bundle()
	favorites := bundle.Favorites
	if favorites == nil {
		favorites = []film.Record{}
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{
		Profile:      bundle.User.ID,
		DisplayName:  bundle.DisplayName,
		Live:         s.session.Live(),
		Stats:        stats,
		Monthly:      bundle.MonthlyCounts(monthWindow),
		Distribution: bundle.RatingDistribution(),
		Favorites:    favorites,
		Recent:       bundle.RecentActivity(recentLimit),
	})
}

func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	rec := film.Record{film.FieldName: title, film.FieldYear: r.URL.Query().Get("year")}
	s.writeJSON(w, http.StatusOK, s.session.Poster(r.Context(), rec))
}

func (s *Server) handleLiveStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.liveResponse())
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	var body LiveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil || body.Enabled == nil {
		s.writeError(w, http.StatusBadRequest, `body must be {"enabled": true|false}`)
		return
	}

	var err error
	if *body.Enabled {
		err = s.session.EnableLive(r.Context())
	} else {
		err = s.session.DisableLive(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.liveResponse())
}

func (s *Server) liveResponse() LiveResponse {
	resp := LiveResponse{Enabled: s.session.Live(), FeedUser: s.session.FeedUsername()}
	if bundle := s.session.Bundle(); bundle != nil {
		resp.Diary = len(bundle.Diary)
	}
	return resp
}

func (s *Server) handleFeedSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.session.FeedSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, FeedSummaryResponse{FeedUser: s.session.FeedUsername(), Summary: summary})
}

func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	s.session.ClearCaches()
	s.writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// statusFor maps error markers to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrFeedUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("api request failed", logging.Int("status", status), logging.Error(err))
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
