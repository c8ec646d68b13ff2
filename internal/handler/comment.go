package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// ListComments handles GET /groups/{groupId}/comments, most recent first.
func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.List(r.Context(), chi.URLParam(r, "groupId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// PostComment handles POST /groups/{groupId}/comments.
func (s *Server) PostComment(w http.ResponseWriter, r *http.Request) {
	var body postCommentBody
	if !decodeJSON(w, r, &body) {
		return
	}

	c, err := s.comments.Post(r.Context(), chi.URLParam(r, "groupId"), actor(r), body.AvatarColor, body.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteComment handles DELETE /groups/{groupId}/comments/{commentId}.
// Only the author may delete; anyone else gets 403.
func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := s.comments.Delete(r.Context(), chi.URLParam(r, "groupId"), chi.URLParam(r, "commentId"), actor(r).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeComment handles POST /groups/{groupId}/comments/{commentId}/likes.
// {"like": false} removes a like; the count never goes below zero.
func (s *Server) LikeComment(w http.ResponseWriter, r *http.Request) {
	var body likeBody
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}
	isLike := body.Like == nil || *body.Like

	c, err := s.comments.Like(r.Context(), chi.URLParam(r, "groupId"), chi.URLParam(r, "commentId"), isLike)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
