package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/interview-agent/internal/types"
)

// handleFeedbackReport generates the post-interview feedback report. The
// generator degrades internally rather than failing, so the failure mode is
// carried in the response body; an unsuccessful generation maps to 502.
func (s *Server) handleFeedbackReport(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	result := s.feedbacker.Generate(r.Context(), &req)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	s.jsonResponse(w, status, result)
}
