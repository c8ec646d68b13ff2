package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/backpackers/internal/directory"
	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/middleware"
)

// CreateGroup handles POST /groups.
func (s *Server) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var body createGroupRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	caller := actor(r)
	created, err := s.groups.Create(r.Context(), caller, body.toDraft(caller))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/groups/"+created.ID)
	writeJSON(w, http.StatusCreated, groupToResponse(created))
}

// ListGroups handles GET /groups.
// Query: q, tripType, budget, month, source (all/community/hosted), page, limit.
func (s *Server) ListGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	source, err := directory.ParsePartition(q.Get("source"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, ok := optionalInt(w, q.Get("page"), "page")
	if !ok {
		return
	}
	limit, ok := optionalInt(w, q.Get("limit"), "limit")
	if !ok {
		return
	}

	filters := directory.Filters{
		SearchTerm: q.Get("q"),
		TripType:   q.Get("tripType"),
		Budget:     q.Get("budget"),
		Month:      q.Get("month"),
		Source:     source,
	}
	result, err := s.directory.Browse(r.Context(), filters, domain.NewPaginationParams(page, limit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := make([]groupResponse, len(result.Groups))
	for i, g := range result.Groups {
		data[i] = groupToResponse(g)
	}
	writeJSON(w, http.StatusOK, groupListResponse{
		Data:       data,
		Pagination: Pagination{Page: result.Page, Limit: result.Limit, Total: result.Total},
	})
}

// GetGroup handles GET /groups/{groupId}. Join requests are only included
// when the caller is the host or a co-host.
func (s *Server) GetGroup(w http.ResponseWriter, r *http.Request) {
	var viewerID string
	if a, ok := middleware.ActorFrom(r.Context()); ok {
		viewerID = a.ID
	}

	g, err := s.groups.GetForViewer(r.Context(), viewerID, chi.URLParam(r, "groupId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToResponse(g))
}

// GetMemberRole handles GET /groups/{groupId}/members/{userId}/role.
func (s *Server) GetMemberRole(w http.ResponseWriter, r *http.Request) {
	groupID, userID := chi.URLParam(r, "groupId"), chi.URLParam(r, "userId")
	role, err := s.groups.RoleOf(r.Context(), groupID, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roleResponse{GroupID: groupID, UserID: userID, Role: role})
}

// VerifyGroup handles POST /admin/groups/{groupId}/verify.
func (s *Server) VerifyGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.groups.Verify(r.Context(), actor(r), chi.URLParam(r, "groupId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToResponse(g))
}

// optionalInt parses an optional integer query parameter. It writes a 422
// and returns false when the value is present but not a number.
func optionalInt(w http.ResponseWriter, raw, name string) (*int, bool) {
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		requestError(w, name+" must be an integer", name)
		return nil, false
	}
	return &n, true
}
