package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"options-lab/internal/logging"
	"options-lab/internal/models"
	"options-lab/internal/options"
	"options-lab/internal/resilience"
	"options-lab/internal/security"
	"options-lab/internal/store"
)

type payoffResponse struct {
	Strategy options.Strategy     `json:"strategy"`
	Params   models.ParameterSet  `json:"params"`
	Points   []models.PayoffPoint `json:"points"`
	Summary  models.CurveSummary  `json:"summary"`
}

type greeksResponse struct {
	Params models.ParameterSet `json:"params"`
	Greeks models.GreeksResult `json:"greeks"`
}

type scenarioRequest struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Notes  string               `json:"notes"`
	Params *models.ParameterSet `json:"params"`
}

type healthResponse struct {
	Status     string                       `json:"status"`
	Uptime     string                       `json:"uptime"`
	Components []resilience.ComponentHealth `json:"components"`
}

func (s *Server) listStrategies(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.All())
}

func (s *Server) getStrategy(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	strategy, err := s.deps.Catalog.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, strategy)
}

func (s *Server) listPresets(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, options.Presets())
}

func (s *Server) defaults(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Defaults)
}

func (s *Server) parameterHelp(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, options.ParameterHelp())
}

// params decodes and validates the request parameters, writing the error
// response itself when it returns false.
func (s *Server) params(w http.ResponseWriter, r *http.Request) (models.ParameterSet, bool) {
	p, err := decodeParams(r, s.deps.Defaults)
	if err != nil {
		writeBadRequest(w, err)
		return p, false
	}
	if err := options.ValidateParameters(p); err != nil {
		s.deps.Metrics.RecordValidation(false)
		writeError(w, err)
		return p, false
	}
	s.deps.Metrics.RecordValidation(true)
	return p, true
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true, "params": p})
}

func (s *Server) payoff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	strategy, err := s.deps.Catalog.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	p, ok := s.params(w, r)
	if !ok {
		return
	}

	points := s.deps.Engine.GeneratePayoffData(strategy, p)
	s.deps.Metrics.RecordCurve(strategy.ID)
	logger := logging.WithStrategy(logging.FromContext(r.Context()), strategy.ID)
	logger.Debug().
		Int("points", len(points)).
		Msg("Payoff curve generated")

	writeJSON(w, http.StatusOK, payoffResponse{
		Strategy: strategy,
		Params:   p,
		Points:   points,
		Summary:  options.Summarize(points, strategy, p),
	})
}

func (s *Server) greeks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	s.deps.Metrics.RecordGreeks()
	writeJSON(w, http.StatusOK, greeksResponse{Params: p, Greeks: options.EstimateGreeks(p)})
}

func (s *Server) explainGreek(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	g, err := options.ParseGreek(ps.ByName("greek"))
	if err != nil {
		writeError(w, err)
		return
	}
	explanation, err := options.ExplainGreek(g)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := store.ScenarioFilter{NameContains: strings.TrimSpace(r.URL.Query().Get("q"))}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer"})
			return
		}
		filter.Limit = n
	}

	scenarios, err := s.deps.Store.ListScenarios(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *Server) saveScenario(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := readBody(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req scenarioRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	scenario := &models.Scenario{ID: req.ID, Name: req.Name, Notes: req.Notes, Params: s.deps.Defaults}
	if req.Params != nil {
		scenario.Params = *req.Params
	}

	status := http.StatusCreated
	if req.ID != "" {
		if err := security.NewInputValidator(false).ValidateScenarioID(req.ID); err != nil {
			writeError(w, err)
			return
		}
		if existing, err := s.deps.Store.GetScenario(r.Context(), req.ID); err == nil {
			scenario.CreatedAt = existing.CreatedAt
			status = http.StatusOK
		}
	}

	if err := s.deps.Store.SaveScenario(r.Context(), scenario); err != nil {
		writeError(w, err)
		return
	}
	logging.LogScenario(logging.FromContext(r.Context()), "save", scenario.ID, scenario.Name)
	writeJSON(w, status, scenario)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	scenario, err := s.deps.Store.GetScenario(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

func (s *Server) deleteScenario(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := s.deps.Store.DeleteScenario(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logging.LogScenario(logging.FromContext(r.Context()), "delete", id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	report := s.deps.Health.Check(r.Context())

	resp := healthResponse{Uptime: report.Uptime, Components: report.Components}
	status := http.StatusOK
	switch report.Status {
	case resilience.HealthStatusHealthy:
		resp.Status = "ok"
	case resilience.HealthStatusDegraded:
		resp.Status = "degraded"
	default:
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
