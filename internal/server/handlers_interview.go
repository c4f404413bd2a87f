package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/interview-agent/internal/types"
)

// handleInterviewNext produces the next interviewer turn for a session.
// The caller resends the full catalog and transcript each call; no session
// state lives on the server.
func (s *Server) handleInterviewNext(w http.ResponseWriter, r *http.Request) {
	var req types.InterviewTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	resp, err := s.interviewer.NextTurn(r.Context(), &req)
	if err != nil {
		log.Printf("[server] interview turn failed: %v", err)
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
