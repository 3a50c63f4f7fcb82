// Package server exposes the ROI engine over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/smartflow-ai/smartflow/internal/api"
	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
	"github.com/smartflow-ai/smartflow/internal/store"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Config controls the server runtime behavior.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

// ScenarioStore is the persistence the scenario endpoints need.
type ScenarioStore interface {
	SaveScenario(ctx context.Context, sc store.Scenario) (store.Scenario, error)
	ListScenarios(ctx context.Context) ([]store.Scenario, error)
	GetScenario(ctx context.Context, ref string) (store.Scenario, error)
	DeleteScenario(ctx context.Context, ref string) error
}

// Status is served at /v1/status.
type Status struct {
	StartedAt          time.Time `json:"started_at"`
	UptimeSec          int64     `json:"uptime_sec"`
	Requests           int64     `json:"requests"`
	Projections        int64     `json:"projections"`
	ValidationFailures int64     `json:"validation_failures"`
	BusinessTypes      int       `json:"business_types"`
	Plans              int       `json:"plans"`
	CatalogLoadedAt    time.Time `json:"catalog_loaded_at"`
	ScenariosEnabled   bool      `json:"scenarios_enabled"`
}

// Service provides the HTTP API.
type Service struct {
	cfg     Config
	store   ScenarioStore
	log     *zap.Logger
	metrics *metrics

	mu                 sync.RWMutex
	catalog            config.Catalog
	catalogLoadedAt    time.Time
	startedAt          time.Time
	requests           int64
	projections        int64
	validationFailures int64
}

// New returns a service over cat. st may be nil to disable scenario endpoints.
func New(cfg Config, cat config.Catalog, st ScenarioStore, log *zap.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now()
	return &Service{
		cfg:             cfg,
		catalog:         cat,
		catalogLoadedAt: now,
		store:           st,
		log:             log,
		metrics:         newMetrics(),
		startedAt:       now,
	}
}

// SetCatalog replaces the catalog used by subsequent requests.
func (s *Service) SetCatalog(cat config.Catalog) {
	s.mu.Lock()
	s.catalog = cat
	s.catalogLoadedAt = time.Now()
	s.mu.Unlock()

	s.metrics.catalogReloads.Inc()
	s.log.Info("catalog replaced",
		zap.Int("business_types", len(cat.BusinessTypes)),
		zap.Int("plans", len(cat.Plans)),
	)
}

func (s *Service) currentCatalog() config.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Handler returns the routed API with request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	mux.HandleFunc("POST /v1/roi", s.handleROI)
	mux.HandleFunc("POST /v1/roi/compare", s.handleCompare)
	mux.HandleFunc("GET /v1/scenarios", s.handleListScenarios)
	mux.HandleFunc("POST /v1/scenarios", s.handleSaveScenario)
	mux.HandleFunc("GET /v1/scenarios/{ref}", s.handleGetScenario)
	mux.HandleFunc("DELETE /v1/scenarios/{ref}", s.handleDeleteScenario)
	return s.logRequests(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:          s.startedAt,
		UptimeSec:          int64(time.Since(s.startedAt).Seconds()),
		Requests:           s.requests,
		Projections:        s.projections,
		ValidationFailures: s.validationFailures,
		BusinessTypes:      len(s.catalog.BusinessTypes),
		Plans:              len(s.catalog.Plans),
		CatalogLoadedAt:    s.catalogLoadedAt,
		ScenariosEnabled:   s.store != nil,
	}
}

func (s *Service) countProjections(projs ...model.Projection) {
	s.mu.Lock()
	s.projections += int64(len(projs))
	s.mu.Unlock()
	for _, p := range projs {
		s.metrics.projections.WithLabelValues(p.Plan).Inc()
	}
}

func (s *Service) countValidationFailure(code roi.ErrorCode) {
	s.mu.Lock()
	s.validationFailures++
	s.mu.Unlock()
	s.metrics.validationFailures.WithLabelValues(string(code)).Inc()
}

// ─── Handlers ───────────────────────────────────────────────────

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := s.currentCatalog()
	s.writeJSON(w, http.StatusOK, api.CatalogResponse{
		BusinessTypes: cat.BusinessTypeList(),
		Plans:         cat.PlanList(),
	})
}

func (s *Service) handleROI(w http.ResponseWriter, r *http.Request) {
	var req api.ROIRequest
	if !s.decode(w, r, &req) {
		return
	}

	proj, err := roi.Compute(req.Profile, req.Plan, s.currentCatalog())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.countProjections(proj)
	s.writeJSON(w, http.StatusOK, proj)
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req api.ROIRequest
	if !s.decode(w, r, &req) {
		return
	}

	projs, err := roi.Compare(req.Profile, s.currentCatalog())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.countProjections(projs...)

	resp := api.CompareResponse{Projections: projs}
	if best, ok := roi.Best(projs); ok {
		resp.Best = best.Plan
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ScenarioResponse pairs a stored scenario with its current projection.
// Error is set instead of Projection when the scenario no longer validates
// against the catalog.
type ScenarioResponse struct {
	Scenario   store.Scenario    `json:"scenario"`
	Projection *model.Projection `json:"projection,omitempty"`
	Error      *api.ErrorBody    `json:"error,omitempty"`
}

func (s *Service) project(sc store.Scenario) ScenarioResponse {
	resp := ScenarioResponse{Scenario: sc}
	proj, err := roi.Compute(sc.Profile, sc.Plan, s.currentCatalog())
	if err != nil {
		body := errorBody(err)
		resp.Error = &body
		return resp
	}
	resp.Projection = &proj
	return resp
}

func (s *Service) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeJSON(w, http.StatusNotFound, api.ErrorBody{Code: "SCENARIOS_DISABLED", Message: "scenario storage is not enabled"})
		return false
	}
	return true
}

func (s *Service) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	list, err := s.store.ListScenarios(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]ScenarioResponse, 0, len(list))
	for _, sc := range list {
		out = append(out, s.project(sc))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// SaveScenarioRequest is the body of POST /v1/scenarios.
type SaveScenarioRequest struct {
	Name    string                `json:"name"`
	Plan    string                `json:"plan"`
	Profile model.BusinessProfile `json:"profile"`
	Notes   string                `json:"notes,omitempty"`
}

func (s *Service) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req SaveScenarioRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, api.ErrorBody{Code: "BAD_REQUEST", Message: "name is required", Field: "name"})
		return
	}

	// Only profiles the engine accepts are worth saving.
	if _, err := roi.Compute(req.Profile, req.Plan, s.currentCatalog()); err != nil {
		s.writeError(w, err)
		return
	}

	sc, err := s.store.SaveScenario(r.Context(), store.Scenario{
		Name:    req.Name,
		Plan:    req.Plan,
		Profile: req.Profile,
		Notes:   req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.project(sc))
}

func (s *Service) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	sc, err := s.store.GetScenario(r.Context(), r.PathValue("ref"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.project(sc))
}

func (s *Service) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.DeleteScenario(r.Context(), r.PathValue("ref")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
