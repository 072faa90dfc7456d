// Package chi exposes the search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recipesearch/internal/domain"
	"recipesearch/internal/domain/search/mode"
	"recipesearch/internal/domain/search/request"
	"recipesearch/internal/domain/search/result"
	"recipesearch/internal/domain/search/sortby"
	indexinguc "recipesearch/internal/usecase/indexing"
	searchuc "recipesearch/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeIndexNotReady     = "index_not_ready"
	codeRebuildInProgress = "rebuild_in_progress"
	codeInternalError     = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the search and indexing services.
type Server struct {
	search        *searchuc.Service
	indexing      *indexinguc.Service
	defaultLimit  int
	maxResults    int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. defaultLimit is used when a request
// omits the limit parameter; maxResults caps any requested limit.
func NewServer(
	search *searchuc.Service,
	indexing *indexinguc.Service,
	defaultLimit, maxResults int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		indexing:     indexing,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, codeIndexNotReady),
		sentinelHandler(domain.ErrRebuildInProgress, http.StatusConflict, codeRebuildInProgress),
		sentinelHandler(domain.ErrUnsupportedMode, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/search/proximity", s.SearchProximity)
		r.Get("/categories", s.Categories)
		r.Post("/reindex", s.Reindex)
	})
}

// searchResultItem is one hit in a search response.
type searchResultItem struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Filename string  `json:"filename"`
	Path     string  `json:"path"`
}

// searchResponse is the body of GET /api/v1/search.
type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Count   int                `json:"count"`
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("query") {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter is required")
		return
	}

	limit, err := s.limitParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	minScore, err := floatParam(q.Get("min_score"), "min_score")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	req, err := request.New(
		q.Get("query"),
		mode.Mode(q.Get("mode")),
		q.Get("category"),
		limit,
		minScore,
		sortby.Order(q.Get("sort_by")),
		q.Get("ascending") == "true",
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(results))
}

// SearchProximity handles GET /api/v1/search/proximity.
func (s *Server) SearchProximity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("terms") {
		writeError(w, http.StatusBadRequest, codeBadRequest, "terms parameter is required")
		return
	}

	limit, err := s.limitParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	maxDistance := 0
	if raw := q.Get("max_distance"); raw != "" {
		maxDistance, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "max_distance must be an integer")
			return
		}
	}

	req, err := request.NewProximity(strings.Split(q.Get("terms"), ","), maxDistance, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(results))
}

// categoryItem is one entry of GET /api/v1/categories.
type categoryItem struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Categories handles GET /api/v1/categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.search.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]categoryItem, len(cats))
	for i, c := range cats {
		items[i] = categoryItem{Category: c.Category, Count: c.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// reindexResponse is the body of POST /api/v1/reindex.
type reindexResponse struct {
	Indexed   int   `json:"indexed"`
	Failed    int   `json:"failed"`
	CacheHits int   `json:"cache_hits"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// Reindex handles POST /api/v1/reindex. The rebuild runs synchronously;
// a rebuild already in progress yields 409.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	stats, err := s.indexing.Rebuild(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reindexResponse{
		Indexed:   stats.Indexed,
		Failed:    stats.Failed,
		CacheHits: stats.CacheHits,
		ElapsedMs: stats.Elapsed.Milliseconds(),
	})
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	Documents int    `json:"documents"`
}

// Health handles GET /health. Not ready until the first scan completed.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ready := s.indexing.Ready()
	status := "ok"
	httpStatus := http.StatusOK
	if !ready {
		status = "starting"
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{
		Status:    status,
		Ready:     ready,
		Documents: s.indexing.Documents(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// limitParam parses the limit query parameter, applying the configured
// default and cap. An explicit non-positive limit is invalid.
func (s *Server) limitParam(raw string) (int, error) {
	if raw == "" {
		return s.defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	if limit <= 0 {
		return 0, errors.New("limit must be positive")
	}
	if limit > s.maxResults {
		limit = s.maxResults
	}
	return limit, nil
}

func floatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}
	return v, nil
}

func toSearchResponse(results []result.Result) searchResponse {
	items := make([]searchResultItem, len(results))
	for i := range results {
		r := &results[i]
		items[i] = searchResultItem{
			ID:       r.ID(),
			Score:    r.Score(),
			Title:    r.Title(),
			Category: r.Category(),
			Filename: r.Filename(),
			Path:     r.Path(),
		}
	}
	return searchResponse{Results: items, Count: len(items)}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrIndexNotReady,
		domain.ErrRebuildInProgress,
		domain.ErrUnsupportedMode,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
