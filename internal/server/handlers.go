package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/pipeline/steps"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Limits for GET /runs
const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// TailorRequest is the request body for /tailor, /tailor/stream and /prepare
type TailorRequest struct {
	Profile    string `json:"profile"`
	Company    string `json:"company,omitempty"`
	Job        string `json:"job,omitempty"`
	JobURL     string `json:"job_url,omitempty"`
	Variant    string `json:"variant,omitempty"`
	AIResponse string `json:"ai_response,omitempty"`
}

// TailorResponse is the result of a tailoring request
type TailorResponse struct {
	RunID          string                 `json:"run_id"`
	Variant        string                 `json:"variant"`
	TechProfile    types.TechProfile      `json:"tech_profile"`
	Degraded       bool                   `json:"degraded,omitempty"`
	Strategy       string                 `json:"strategy"`
	RetriedConcise bool                   `json:"retried_concise,omitempty"`
	Resume         types.ReconciledResume `json:"resume"`
	Warnings       []string               `json:"warnings,omitempty"`
}

// PrepareResponse is the result of /prepare
type PrepareResponse struct {
	Variant     string            `json:"variant"`
	TechProfile types.TechProfile `json:"tech_profile"`
	Degraded    bool              `json:"degraded,omitempty"`
	Prompt      string            `json:"prompt"`
}

// ArtifactResponse represents the response for /runs/{id}/artifacts/{step}
type ArtifactResponse struct {
	RunID       string          `json:"run_id"`
	Step        string          `json:"step"`
	Category    string          `json:"category"`
	Content     json.RawMessage `json:"content,omitempty"`
	TextContent string          `json:"text_content,omitempty"`
}

// decodeTailorRequest validates the body and resolves it into a pipeline request
func (s *Server) decodeTailorRequest(r *http.Request) (pipeline.Request, error) {
	var body TailorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return pipeline.Request{}, &ErrValidation{Field: "body", Message: err.Error()}
	}

	if strings.TrimSpace(body.Profile) == "" {
		return pipeline.Request{}, &ErrValidation{Field: "profile", Message: "profile is required"}
	}
	if body.Job == "" && body.JobURL == "" {
		return pipeline.Request{}, &ErrValidation{Field: "job", Message: "either job or job_url is required"}
	}
	if body.Job != "" && body.JobURL != "" {
		return pipeline.Request{}, &ErrValidation{Field: "job", Message: "job and job_url are mutually exclusive"}
	}

	req := pipeline.Request{
		Profile:    strings.TrimSpace(body.Profile),
		Company:    body.Company,
		JobText:    body.Job,
		AIResponse: body.AIResponse,
	}

	if s.registry != nil {
		profile, err := s.registry.Lookup(body.Profile)
		if err != nil {
			return pipeline.Request{}, &ErrNotFound{Resource: "profile", Message: err.Error()}
		}
		req.Profile = profile.Resume
	}

	if body.Variant != "" {
		variant, ok := types.ParseVariant(body.Variant)
		if !ok {
			return pipeline.Request{}, &ErrValidation{Field: "variant", Message: "unknown variant " + strconv.Quote(body.Variant)}
		}
		req.Variant = variant
	}

	if body.JobURL != "" {
		text, err := s.fetchJob(r.Context(), body.JobURL)
		if err != nil {
			return pipeline.Request{}, err
		}
		req.JobText = text
	}

	return req, nil
}

func newTailorResponse(result *pipeline.Result) *TailorResponse {
	resp := &TailorResponse{
		RunID:          result.RunID.String(),
		Variant:        string(result.Variant),
		TechProfile:    result.TechProfile,
		RetriedConcise: result.RetriedConcise,
		Resume:         result.Resume,
		Warnings:       result.Warnings,
	}
	if result.Classification != nil {
		resp.Degraded = result.Classification.Degraded
	}
	if result.Extraction != nil {
		resp.Strategy = string(result.Extraction.Strategy)
	}
	return resp
}

// handleTailor runs one tailoring request and returns the reconciled resume
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTailorRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.pipeline.Run(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, newTailorResponse(result))
}

// handleTailorStream runs one tailoring request, streaming progress as SSE events
func (s *Server) handleTailorStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTailorRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Progress is emitted on this goroutine, so events are written in order
	req.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			s.log.Debug().Err(err).Msg("failed to write progress event")
		}
	}

	result, err := s.pipeline.Run(r.Context(), req)
	if err != nil {
		sse.WriteError(HTTPStatus(err), err.Error())
		return
	}
	sse.WriteComplete(newTailorResponse(result))
}

// handlePrepare classifies the job and returns the tailoring prompt without generating
func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTailorRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	prepared, err := s.pipeline.PreparePrompt(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := PrepareResponse{
		Variant:     string(prepared.Variant),
		TechProfile: prepared.TechProfile,
		Prompt:      prepared.Prompt,
	}
	if prepared.Classification != nil {
		resp.Degraded = prepared.Classification.Degraded
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// requireRuns answers 503 when no run store is configured
func (s *Server) requireRuns(w http.ResponseWriter) bool {
	if s.runs == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Run history requires a database")
		return false
	}
	return true
}

// parseRunID reads the {id} path value, answering 400 when it is malformed
func (s *Server) parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return uuid.Nil, false
	}
	return runID, true
}

// handleListRuns returns recent runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireRuns(w) {
		return
	}

	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list runs")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns one run record
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireRuns(w) {
		return
	}
	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	run, err := s.runs.GetRun(r.Context(), runID)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to get run")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetArtifact returns one stored artifact, JSON or text
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if !s.requireRuns(w) {
		return
	}
	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	step := r.PathValue("step")
	category := steps.Category(step)
	if category == "" {
		s.errorResponse(w, http.StatusBadRequest, "Unknown step: "+step)
		return
	}

	resp := ArtifactResponse{RunID: runID.String(), Step: step, Category: category}

	content, err := s.runs.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID.String()).Str("step", step).Msg("failed to get artifact")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get artifact")
		return
	}
	if content != nil {
		resp.Content = content
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	text, err := s.runs.GetTextArtifact(r.Context(), runID, step)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID.String()).Str("step", step).Msg("failed to get artifact")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get artifact")
		return
	}
	if text == "" {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}
	resp.TextContent = text
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleReplay re-extracts and reconciles a recorded run without calling a model
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if !s.requireRuns(w) {
		return
	}
	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	run, err := s.runs.GetRun(r.Context(), runID)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to get run")
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	result, err := pipeline.Replay(r.Context(), s.runs, runID, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, newTailorResponse(result))
}
