package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/types"
)

// handleAnalyzeResume accepts a resume analysis job. The record is persisted
// as PROCESSING and handed to the worker pool; the response is an immediate
// 202 with the id to poll.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	id, err := uuid.Parse(req.ResumeID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resumeId must be a valid UUID")
		return
	}

	if err := s.store.CreateAnalysis(r.Context(), id, req.FileURL, req.JobDescription); err != nil {
		log.Printf("[server] failed to create analysis %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create analysis")
		return
	}

	s.queue.Submit(id, req.FileURL, req.JobDescription)

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"id":     id.String(),
		"status": db.StatusProcessing,
	})
}

// handleGetAnalysis returns the current state of an analysis, including the
// scored result once the worker has completed it.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		log.Printf("[server] failed to get analysis %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get analysis")
		return
	}
	if analysis == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleListAnalyses returns recent analyses, optionally filtered by status.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	analyses, err := s.store.ListAnalyses(r.Context(), status, limit)
	if err != nil {
		log.Printf("[server] failed to list analyses: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if analyses == nil {
		analyses = []db.Analysis{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": analyses})
}
