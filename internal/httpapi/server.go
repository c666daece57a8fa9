// Package httpapi exposes the governance pipeline over HTTP for callers that
// feed evidence remotely (schedulers, notebooks). The pipeline stays pure;
// this layer only decodes snapshots and encodes decisions.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/unifiedrisk/governor/internal/action"
	"github.com/unifiedrisk/governor/internal/gate"
	"github.com/unifiedrisk/governor/internal/metrics"
	"github.com/unifiedrisk/governor/internal/overlay"
	"github.com/unifiedrisk/governor/internal/pipeline"
)

// EvaluateRequest is the POST /v1/evaluate body. Rules are optional; when
// omitted the server's configured rules apply.
type EvaluateRequest struct {
	Input pipeline.Input `json:"input"`
}

// GuardRequest is the POST /v1/guard body: one intended exposure change
// checked against a gate level.
type GuardRequest struct {
	Gate   gate.Level    `json:"gate"`
	Intent action.Intent `json:"intent"`
}

// Server routes governance evaluation requests.
type Server struct {
	router  *mux.Router
	pipe    *pipeline.Pipeline
	guard   *action.Guard
	rules   *overlay.RuleFile
	metrics *metrics.Registry
	logger  zerolog.Logger
}

// New builds the HTTP server around a pipeline. defaultRules and m may be nil.
func New(pipe *pipeline.Pipeline, defaultRules *overlay.RuleFile, registry *prometheus.Registry, m *metrics.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		pipe:    pipe,
		guard:   action.NewGuard(),
		rules:   defaultRules,
		metrics: m,
		logger:  logger,
	}

	s.router.HandleFunc("/v1/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/guard", s.handleGuard).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return s
}

// Handler returns the root handler for ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Input.Snapshot.TradeDate == "" {
		s.writeError(w, http.StatusBadRequest, "snapshot.trade_date is required")
		return
	}
	if req.Input.Rules == nil {
		req.Input.Rules = s.rules
	}

	result := s.pipe.Evaluate(req.Input)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode evaluation response")
	}
}

func (s *Server) handleGuard(w http.ResponseWriter, r *http.Request) {
	var req GuardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Gate == "" || req.Intent == "" {
		s.writeError(w, http.StatusBadRequest, "gate and intent are required")
		return
	}

	res := s.guard.Check(req.Gate, req.Intent)
	if s.metrics != nil {
		s.metrics.GuardChecks.WithLabelValues(res.Severity).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode guard response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
