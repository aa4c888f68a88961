package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// browseParams are the accepted query parameters of the episode listing.
type browseParams struct {
	Query string `validate:"max=500"`
	Sort  string `validate:"omitempty,oneof=relevance newest oldest"`
	Limit int    `validate:"min=0,max=500"`
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GET /api/v1/episodes
func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := browseParams{
		Query: q.Get("q"),
		Sort:  q.Get("sort"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		params.Limit = limit
	}
	if err := s.validate.Struct(params); err != nil {
		s.respondError(w, http.StatusBadRequest, describeValidation(err))
		return
	}

	view, err := s.browse(r, params)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "browse failed")
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

// browse runs a search and renders the page, recording render time.
// An empty sort uses the configured default.
func (s *Server) browse(r *http.Request, params browseParams) (*PageView, error) {
	sort := models.SortMode(params.Sort)
	if sort == "" {
		sort = s.opts.DefaultSort
	}
	page, err := s.svc.Browse(r.Context(), service.BrowseOptions{
		Query: params.Query,
		Sort:  sort,
		Limit: params.Limit,
	})
	if err != nil {
		return nil, err
	}
	start := time.Now()
	view := NewPageView(page)
	s.svc.Metrics().RecordTiming(metrics.OpRender, time.Since(start))
	return view, nil
}

// GET /api/v1/episodes/{number}
func (s *Server) getEpisode(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "episode number must be an integer")
		return
	}

	ep, err := s.svc.Episode(r.Context(), number)
	if errors.Is(err, service.ErrEpisodeNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	s.respondJSON(w, http.StatusOK, NewEpisodeView(*ep, ""))
}

// GET /api/v1/stats
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.svc.Stats())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{
		Error:   true,
		Message: message,
		Code:    status,
	})
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Sort":
		return "sort must be one of relevance, newest, oldest"
	case "Limit":
		return "limit must be between 0 and 500"
	case "Query":
		return "query too long"
	}
	return fe.Error()
}
