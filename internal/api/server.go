// Package api serves the calculators over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"options-lab/internal/logging"
	"options-lab/internal/metrics"
	"options-lab/internal/models"
	"options-lab/internal/options"
	"options-lab/internal/resilience"
	"options-lab/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Deps holds everything the handlers need. Store and Health may be nil;
// without a store the scenario routes are not registered.
type Deps struct {
	Catalog  *options.Catalog
	Engine   *options.Engine
	Metrics  *metrics.Collectors
	Store    store.ScenarioStore
	Health   *resilience.HealthMonitor
	Defaults models.ParameterSet
	Logger   zerolog.Logger

	// HideMetrics keeps /metrics off the router; collection continues.
	HideMetrics bool
}

// Server is the HTTP front end.
type Server struct {
	deps   Deps
	logger zerolog.Logger
	router *httprouter.Router
}

// NewServer builds the router and registers every route.
func NewServer(deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Engine == nil {
		deps.Engine = options.NewEngine(deps.Logger, deps.Metrics)
	}
	if deps.Health == nil {
		deps.Health = resilience.NewHealthMonitor(2 * time.Second)
		if deps.Store != nil {
			deps.Health.RegisterComponent("store", resilience.PingCheck(deps.Store.Ping))
		}
	}

	s := &Server{
		deps:   deps,
		logger: logging.WithOperation(deps.Logger, "http"),
		router: httprouter.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle(http.MethodGet, "/api/v1/strategies", s.listStrategies)
	s.handle(http.MethodGet, "/api/v1/strategies/:id", s.getStrategy)
	s.handle(http.MethodPost, "/api/v1/strategies/:id/payoff", s.payoff)
	s.handle(http.MethodGet, "/api/v1/presets", s.listPresets)
	s.handle(http.MethodGet, "/api/v1/defaults", s.defaults)
	s.handle(http.MethodGet, "/api/v1/parameters", s.parameterHelp)
	s.handle(http.MethodPost, "/api/v1/validate", s.validate)
	s.handle(http.MethodPost, "/api/v1/greeks", s.greeks)
	s.handle(http.MethodGet, "/api/v1/greeks/:greek/explain", s.explainGreek)

	if s.deps.Store != nil {
		s.handle(http.MethodGet, "/api/v1/scenarios", s.listScenarios)
		s.handle(http.MethodPost, "/api/v1/scenarios", s.saveScenario)
		s.handle(http.MethodGet, "/api/v1/scenarios/:id", s.getScenario)
		s.handle(http.MethodDelete, "/api/v1/scenarios/:id", s.deleteScenario)
	}

	s.handle(http.MethodGet, "/health", s.health)
	if !s.deps.HideMetrics {
		metricsHandler := s.deps.Metrics.Handler()
		s.handle(http.MethodGet, "/metrics", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			metricsHandler.ServeHTTP(w, r)
		})
	}

	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
}

// handle registers h and instruments it under the route template, so path
// parameters do not explode the metric labels.
func (s *Server) handle(method, route string, h httprouter.Handle) {
	s.router.Handle(method, route, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(logging.WithLogger(r.Context(), s.logger.With().Str("route", route).Logger()))
		h(rec, r, ps)
		elapsed := time.Since(start)

		s.deps.Metrics.ObserveRequest(route, strconv.Itoa(rec.status), elapsed.Seconds())
		logging.LogRequest(s.logger, r.Method, r.URL.Path, rec.status, elapsed)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
