// Package handler: roster.go implements GET /groups/{groupId}/roster.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// rosterHeaders are the column names written as the first row of a CSV roster.
var rosterHeaders = []string{
	"member_id", "name", "role", "expertise", "avatar_color", "join_request_id",
}

type rosterResponse struct {
	GroupID string          `json:"groupId"`
	Members []domain.Member `json:"members"`
}

// GetRoster handles GET /groups/{groupId}/roster for the host and co-hosts.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetRoster(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")
	members, err := s.groups.Roster(r.Context(), actor(r).ID, groupID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, rosterResponse{GroupID: groupID, Members: members})
	case "csv":
		buf := buildRosterCSV(members)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+groupID+`-roster.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	default:
		requestError(w, "format must be csv or json", "format")
	}
}

// buildRosterCSV encodes members as CSV, one member per line.
func buildRosterCSV(members []domain.Member) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(rosterHeaders)
	for _, m := range members {
		//nolint:errcheck
		w.Write([]string{m.ID, m.Name, string(m.Role), m.Expertise, m.AvatarColor, m.JoinRequestID})
	}
	w.Flush()
	return &buf
}
