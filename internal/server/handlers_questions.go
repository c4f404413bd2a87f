package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/interview-agent/internal/ingestion"
	"github.com/jonathan/interview-agent/internal/types"
)

// handleGenerateQuestions builds a fresh question catalog for an interview.
// A resume may arrive as inline text or as a URL to fetch; exactly one of the
// two must be provided.
func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	if req.ResumeText == "" && req.ResumeURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "one of resume_text or resume_url is required")
		return
	}
	if req.ResumeText != "" && req.ResumeURL != "" {
		s.errorResponse(w, http.StatusBadRequest, "provide either resume_text or resume_url, not both")
		return
	}

	if req.ResumeText == "" {
		text, err := s.resolveResume(r.Context(), req.ResumeURL)
		if err != nil {
			log.Printf("[server] resume fetch failed for %s: %v", req.ResumeURL, err)
			s.errorResponse(w, http.StatusUnprocessableEntity, "failed to retrieve resume from resume_url")
			return
		}
		req.ResumeText = text
	}

	catalog, err := s.generator.Generate(r.Context(), &req)
	if err != nil {
		log.Printf("[server] question generation failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "question generation failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, catalog)
}

// resolveResumeURL fetches and cleans resume text from a URL.
func resolveResumeURL(ctx context.Context, url string) (string, error) {
	text, _, err := ingestion.IngestFromURL(ctx, url)
	return text, err
}
