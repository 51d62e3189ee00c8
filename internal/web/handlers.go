package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/addresses/internal/core"
	"github.com/JonMunkholm/addresses/internal/logging"
)

const (
	// maxSearchBody bounds the search request body.
	maxSearchBody = 16 << 10
	healthTimeout = 2 * time.Second
)

var monthParam = regexp.MustCompile(`^\d{6}$`)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Import   bool   `json:"import_running"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok", Import: s.deps.Limiter.Active()}
	status := http.StatusOK

	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.deps.DB.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).Warn("health check failed", "error", err)
			resp.Status = "unavailable"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, r, status, resp)
}

// SearchResponse is the search payload.
type SearchResponse struct {
	Count     int             `json:"count"`
	Addresses []core.Document `json:"addresses"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var q core.SearchQuery
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody))
	if err := dec.Decode(&q); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	docs, err := s.deps.Searcher.Search(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if docs == nil {
		docs = []core.Document{}
	}
	writeJSON(w, r, http.StatusOK, SearchResponse{Count: len(docs), Addresses: docs})
}

func (s *Server) handleImportState(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if !monthParam.MatchString(month) {
		s.respondError(w, r, fmt.Errorf("%w: month must be YYYYMM", errBadRequest))
		return
	}

	st, err := s.deps.State.Get(r.Context(), month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Limiter.Status())
}

// RunResponse acknowledges a started import.
type RunResponse struct {
	Status string `json:"status"`
}

// handleRunImport starts an import in the background. The run continues
// after the response is written; poll /api/imports/status for the outcome.
func (s *Server) handleRunImport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Runner == nil {
		s.respondError(w, r, errors.New("import runner not configured"))
		return
	}
	if err := s.deps.Limiter.TryAcquire(); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := logging.WithLogger(s.deps.JobContext, logging.FromContext(r.Context()))
	go s.runImport(ctx)

	writeJSON(w, r, http.StatusAccepted, RunResponse{Status: "started"})
}

// runImport holds the limiter slot taken by handleRunImport and frees it
// even when the runner panics.
func (s *Server) runImport(ctx context.Context) {
	var (
		res *core.Result
		err error
	)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("import panicked: %v", p)
			logging.FromContext(ctx).Error("triggered import panicked", "panic", p)
		}
		s.deps.Limiter.Release(res, err)
	}()

	res, err = s.deps.Runner.Run(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("triggered import failed", "error", err, "code", core.MapError(err).Code)
	}
}
