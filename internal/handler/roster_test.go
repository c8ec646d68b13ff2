package handler_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/handler"
)

func rosterServicer() *mockGroupServicer {
	return &mockGroupServicer{
		roster: func(_ context.Context, actorID, _ string) ([]domain.Member, error) {
			if actorID != "host-priya" {
				return nil, domain.ErrForbidden
			}
			return []domain.Member{
				{ID: "host-priya", Name: "Priya Sharma", Role: domain.RoleHost, Expertise: domain.HostExpertise, AvatarColor: domain.HostAvatarColor},
				{ID: "explorer-arjun", Name: "Arjun, Jr.", Role: domain.RoleMember, Expertise: domain.MemberExpertise, AvatarColor: domain.MemberAvatarColor, JoinRequestID: "req_1"},
			}, nil
		},
	}
}

func TestGetRoster_JSON(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{Groups: rosterServicer()}), http.MethodGet, "/groups/g1/roster", "host-priya", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), `"groupId":"g1"`)
}

func TestGetRoster_CSV(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{Groups: rosterServicer()}), http.MethodGet, "/groups/g1/roster?format=csv", "host-priya", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per member")
	assert.Equal(t, []string{"member_id", "name", "role", "expertise", "avatar_color", "join_request_id"}, records[0])
	// Commas in names are quoted, not split.
	assert.Equal(t, "Arjun, Jr.", records[2][1])
	assert.Equal(t, "req_1", records[2][5])
}

func TestGetRoster_Forbidden(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{Groups: rosterServicer()}), http.MethodGet, "/groups/g1/roster", "explorer-arjun", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetRoster_UnknownFormat(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{Groups: rosterServicer()}), http.MethodGet, "/groups/g1/roster?format=xml", "host-priya", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
