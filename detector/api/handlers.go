package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/llmbench/regression-detector/detector/analysis"
	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/schema"
	"github.com/llmbench/regression-detector/detector/storage"
	"github.com/llmbench/regression-detector/detector/types"
)

// detectRequest is the body of POST /api/v1/regressions/detect. The run
// arrays stay raw until schema validation has passed. The optional config
// overrides the server's defaults for this request only.
type detectRequest struct {
	BaselineRuns  json.RawMessage         `json:"baseline_runs"`
	CandidateRuns json.RawMessage         `json:"candidate_runs"`
	Config        *config.DetectionConfig `json:"config,omitempty"`
	Persist       bool                    `json:"persist,omitempty"`
}

// detectResponse wraps the engine output with the persisted decision id
type detectResponse struct {
	Result     *types.DetectionResult `json:"result"`
	DecisionID string                 `json:"decision_id,omitempty"`
}

// handleDetect runs a full regression detection for the posted run records
func (s *server) handleDetect(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("Handling detect request")

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "detect", http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.BaselineRuns) == 0 || len(req.CandidateRuns) == 0 {
		s.writeErrorResponse(w, "detect", http.StatusBadRequest, "baseline_runs and candidate_runs are required")
		return
	}

	baselineRuns, err := schema.ParseRunRecords(req.BaselineRuns)
	if err != nil {
		s.writeErrorResponse(w, "detect", http.StatusBadRequest, "baseline runs: "+err.Error())
		return
	}
	candidateRuns, err := schema.ParseRunRecords(req.CandidateRuns)
	if err != nil {
		s.writeErrorResponse(w, "detect", http.StatusBadRequest, "candidate runs: "+err.Error())
		return
	}

	cfg := s.cfg
	if req.Config != nil {
		cfg = req.Config.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			s.writeErrorResponse(w, "detect", http.StatusBadRequest, "invalid config: "+err.Error())
			return
		}
	}

	detector := analysis.NewDetector(cfg, nil, s.log)

	started := time.Now()
	result, err := detector.Detect(baselineRuns, candidateRuns)
	if err != nil {
		s.writeErrorResponse(w, "detect", http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.detectionDuration.Observe(time.Since(started).Seconds())
	s.metrics.detectionsTotal.WithLabelValues(string(result.Summary.WorstSeverity)).Inc()

	response := detectResponse{Result: result}

	if req.Persist && s.store != nil {
		record := storage.NewDecisionRecord(result, storage.HashInputs(baselineRuns, candidateRuns))
		if err := s.store.SaveDecision(r.Context(), record); err != nil {
			s.log.WithError(err).Warn("Failed to persist decision record")
		} else {
			response.DecisionID = record.ID
		}
	}

	s.writeJSONResponse(w, "detect", http.StatusOK, response)
}

// handleListDecisions returns the most recent persisted decision records
func (s *server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeErrorResponse(w, "decisions", http.StatusNotFound, "decision store is not enabled")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	records, err := s.store.ListDecisions(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("Failed to list decisions")
		s.writeErrorResponse(w, "decisions", http.StatusInternalServerError, "failed to list decisions")
		return
	}

	s.writeJSONResponse(w, "decisions", http.StatusOK, map[string]interface{}{
		"decisions": records,
		"count":     len(records),
	})
}

// handleGetDecision returns one persisted decision record by id
func (s *server) handleGetDecision(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeErrorResponse(w, "decision", http.StatusNotFound, "decision store is not enabled")
		return
	}

	id := mux.Vars(r)["id"]
	record, err := s.store.GetDecision(r.Context(), id)
	if err != nil {
		s.writeErrorResponse(w, "decision", http.StatusNotFound, err.Error())
		return
	}

	s.writeJSONResponse(w, "decision", http.StatusOK, record)
}

// handleHealth provides a health check endpoint
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, "healthz", http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// writeJSONResponse writes a JSON response with the given status code
func (s *server) writeJSONResponse(w http.ResponseWriter, route string, statusCode int, data interface{}) {
	s.metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response with the given status code
func (s *server) writeErrorResponse(w http.ResponseWriter, route string, statusCode int, message string) {
	s.writeJSONResponse(w, route, statusCode, map[string]interface{}{
		"error":  message,
		"status": statusCode,
	})
}
