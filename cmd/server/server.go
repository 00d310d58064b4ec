package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/auth"
	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/metrics"
	"github.com/Simplici0/printcost/internal/store"
)

// catalogCache serves catalog snapshots and forgets them after writes.
type catalogCache interface {
	Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error)
	Invalidate(ctx context.Context, owner int64) error
}

// directCatalog reads straight from the store.
type directCatalog struct {
	src *store.Store
}

func (d directCatalog) Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error) {
	return d.src.Snapshot(ctx, owner)
}

func (directCatalog) Invalidate(context.Context, int64) error { return nil }

// boundedCatalog caps the time spent loading a snapshot.
type boundedCatalog struct {
	catalogCache
	timeout time.Duration
}

func (b boundedCatalog) Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error) {
	if b.timeout <= 0 {
		return b.catalogCache.Snapshot(ctx, owner)
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.catalogCache.Snapshot(ctx, owner)
}

type server struct {
	store    *store.Store
	accounts *auth.Service
	sessions *auth.Sessions
	catalogs catalogCache
	jobs     *jobs.Service
	metrics  *metrics.Collector
	logger   *zap.Logger
	now      func() time.Time
}

func newServer(st *store.Store, catalogs catalogCache, sessions *auth.Sessions, m *metrics.Collector, logger *zap.Logger) *server {
	return &server{
		store:    st,
		accounts: auth.NewService(st, logger),
		sessions: sessions,
		catalogs: catalogs,
		jobs:     jobs.NewService(catalogs, st, m, logger),
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/me", s.handleMe)
		r.Patch("/me", s.handleUpdateMe)

		r.Get("/printers", s.handleListPrinters)
		r.Post("/printers", s.handleCreatePrinter)
		r.Put("/printers/{id}", s.handleUpdatePrinter)
		r.Delete("/printers/{id}", s.handleDeletePrinter)

		r.Get("/filaments", s.handleListFilaments)
		r.Post("/filaments", s.handleCreateFilament)
		r.Put("/filaments/{id}", s.handleUpdateFilament)
		r.Delete("/filaments/{id}", s.handleDeleteFilament)

		for _, kind := range []store.SupplyKind{store.Accessories, store.Packaging} {
			path := "/" + string(kind)
			r.Get(path, s.handleListSupplies(kind))
			r.Post(path, s.handleCreateSupply(kind))
			r.Put(path+"/{id}", s.handleUpdateSupply(kind))
			r.Delete(path+"/{id}", s.handleDeleteSupply(kind))
		}

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleCreateCategory)
		r.Put("/categories/{id}", s.handleUpdateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/company", s.handleGetCompany)
		r.Put("/company", s.handleSaveCompany)

		r.Post("/quotes/calculate", s.handleCalculate)
		r.Post("/quotes/document", s.handleQuoteDocument)
		r.Get("/margin", s.handleMargin)

		r.Post("/jobs", s.handleSaveJob)
		r.Get("/jobs", s.handleListJobs)
		r.Delete("/jobs/{id}", s.handleDeleteJob)

		r.Get("/reports/summary", s.handleSummary)
		r.Get("/reports/history.csv", s.handleExportCSV)
		r.Get("/reports/history.xlsx", s.handleExportXLSX)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/users", s.handleListUsers)
			r.Post("/users", s.handleCreateUser)
			r.Post("/users/{id}/suspend", s.handleSuspendUser)
		})
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", s.now().Sub(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// badRequest marks client input errors that are not validation errors of a
// job draft.
type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}

type errorBody struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps err to a status code. Unexpected errors are logged and hidden.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *jobs.ValidationError
	var bad badRequest
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Missing: verr.Missing})
	case errors.As(err, &bad), errors.Is(err, auth.ErrInvalidUser):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidSession):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, auth.ErrSuspended), errors.Is(err, auth.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, errCategoryExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestf("invalid JSON body: %v", err)
	}
	return nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequestf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// forget drops the owner's cached catalog. A failure only costs a stale
// read until the entry expires.
func (s *server) forget(r *http.Request, owner int64) {
	if err := s.catalogs.Invalidate(r.Context(), owner); err != nil {
		s.logger.Warn("invalidate catalog cache", zap.Int64("owner", owner), zap.Error(err))
	}
}
