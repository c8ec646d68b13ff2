package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// ListMessages handles GET /groups/{groupId}/messages in send order.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.List(r.Context(), chi.URLParam(r, "groupId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// SendMessage handles POST /groups/{groupId}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body sendMessageBody
	if !decodeJSON(w, r, &body) {
		return
	}

	m, err := s.messages.Send(r.Context(), chi.URLParam(r, "groupId"), actor(r), body.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
