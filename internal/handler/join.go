package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// SubmitJoinRequest handles POST /groups/{groupId}/join-requests.
// The applicant is the caller; the body only carries an optional note.
func (s *Server) SubmitJoinRequest(w http.ResponseWriter, r *http.Request) {
	var body joinRequestBody
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}

	req, err := s.joins.Submit(r.Context(), chi.URLParam(r, "groupId"), actor(r), body.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// ListJoinRequests handles GET /groups/{groupId}/join-requests.
func (s *Server) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.joins.ListRequests(r.Context(), actor(r).ID, chi.URLParam(r, "groupId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.JoinRequest{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

// DecideJoinRequest handles POST /join-requests/{requestId}/decision with
// {"decision": "approved" | "rejected"}.
func (s *Server) DecideJoinRequest(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	if !decodeJSON(w, r, &body) {
		return
	}
	decision, err := domain.ParseDecision(body.Decision)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.joins.DecideAs(r.Context(), actor(r).ID, chi.URLParam(r, "requestId"), decision)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
