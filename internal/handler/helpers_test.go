package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/backpackers/internal/directory"
	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/handler"
	"github.com/pkordes/backpackers/internal/middleware"
	"github.com/pkordes/backpackers/internal/service"
)

// ---- mocks -----------------------------------------------------------------
// Set only the method fields your test needs.

type mockGroupServicer struct {
	create       func(ctx context.Context, actor domain.Actor, draft domain.GroupDraft) (domain.Group, error)
	getForViewer func(ctx context.Context, viewerID, groupID string) (domain.Group, error)
	roleOf       func(ctx context.Context, groupID, userID string) (domain.Role, error)
	roster       func(ctx context.Context, actorID, groupID string) ([]domain.Member, error)
	verify       func(ctx context.Context, actor domain.Actor, groupID string) (domain.Group, error)
}

func (m *mockGroupServicer) Create(ctx context.Context, a domain.Actor, d domain.GroupDraft) (domain.Group, error) {
	return m.create(ctx, a, d)
}
func (m *mockGroupServicer) GetForViewer(ctx context.Context, viewerID, groupID string) (domain.Group, error) {
	return m.getForViewer(ctx, viewerID, groupID)
}
func (m *mockGroupServicer) RoleOf(ctx context.Context, groupID, userID string) (domain.Role, error) {
	return m.roleOf(ctx, groupID, userID)
}
func (m *mockGroupServicer) Roster(ctx context.Context, actorID, groupID string) ([]domain.Member, error) {
	return m.roster(ctx, actorID, groupID)
}
func (m *mockGroupServicer) Verify(ctx context.Context, a domain.Actor, groupID string) (domain.Group, error) {
	return m.verify(ctx, a, groupID)
}

type mockDirectoryServicer struct {
	browse func(ctx context.Context, f directory.Filters, p domain.PaginationParams) (service.DirectoryPage, error)
}

func (m *mockDirectoryServicer) Browse(ctx context.Context, f directory.Filters, p domain.PaginationParams) (service.DirectoryPage, error) {
	return m.browse(ctx, f, p)
}

type mockJoinServicer struct {
	submit       func(ctx context.Context, groupID string, applicant domain.Actor, note string) (domain.JoinRequest, error)
	decideAs     func(ctx context.Context, actorID, requestID string, decision domain.JoinRequestStatus) (domain.JoinRequest, error)
	listRequests func(ctx context.Context, actorID, groupID string) ([]domain.JoinRequest, error)
}

func (m *mockJoinServicer) Submit(ctx context.Context, groupID string, a domain.Actor, note string) (domain.JoinRequest, error) {
	return m.submit(ctx, groupID, a, note)
}
func (m *mockJoinServicer) DecideAs(ctx context.Context, actorID, requestID string, d domain.JoinRequestStatus) (domain.JoinRequest, error) {
	return m.decideAs(ctx, actorID, requestID, d)
}
func (m *mockJoinServicer) ListRequests(ctx context.Context, actorID, groupID string) ([]domain.JoinRequest, error) {
	return m.listRequests(ctx, actorID, groupID)
}

type mockCommentServicer struct {
	post   func(ctx context.Context, groupID string, author domain.Actor, avatarColor, text string) (domain.Comment, error)
	list   func(ctx context.Context, groupID string) ([]domain.Comment, error)
	delete func(ctx context.Context, groupID, commentID, requesterID string) error
	like   func(ctx context.Context, groupID, commentID string, isLike bool) (domain.Comment, error)
}

func (m *mockCommentServicer) Post(ctx context.Context, groupID string, a domain.Actor, color, text string) (domain.Comment, error) {
	return m.post(ctx, groupID, a, color, text)
}
func (m *mockCommentServicer) List(ctx context.Context, groupID string) ([]domain.Comment, error) {
	return m.list(ctx, groupID)
}
func (m *mockCommentServicer) Delete(ctx context.Context, groupID, commentID, requesterID string) error {
	return m.delete(ctx, groupID, commentID, requesterID)
}
func (m *mockCommentServicer) Like(ctx context.Context, groupID, commentID string, isLike bool) (domain.Comment, error) {
	return m.like(ctx, groupID, commentID, isLike)
}

type mockMessageServicer struct {
	send func(ctx context.Context, groupID string, sender domain.Actor, text string) (domain.Message, error)
	list func(ctx context.Context, groupID string) ([]domain.Message, error)
}

func (m *mockMessageServicer) Send(ctx context.Context, groupID string, a domain.Actor, text string) (domain.Message, error) {
	return m.send(ctx, groupID, a, text)
}
func (m *mockMessageServicer) List(ctx context.Context, groupID string) ([]domain.Message, error) {
	return m.list(ctx, groupID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.GroupServicer     = (*mockGroupServicer)(nil)
	_ handler.DirectoryServicer = (*mockDirectoryServicer)(nil)
	_ handler.JoinServicer      = (*mockJoinServicer)(nil)
	_ handler.CommentServicer   = (*mockCommentServicer)(nil)
	_ handler.MessageServicer   = (*mockMessageServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const adminID = "ops-admin"

// newHTTPHandler wires a Server with the given mocks behind the identity
// middleware in header mode, the way main.go wires it in development.
func newHTTPHandler(s handler.Services) http.Handler {
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := middleware.NewIdentity(middleware.IdentityConfig{AdminIDs: []string{adminID}})
	return id.Handler(handler.NewServer(s).Routes())
}

// do sends a request as userID ("" for anonymous) and returns the recorder.
func do(t *testing.T, h http.Handler, method, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func groupFixture() domain.Group {
	start := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	return domain.Group{
		ID:             "desert-campfire-collective-m1x2y3z4",
		GroupName:      "Desert Campfire Collective",
		Destination:    "Jaisalmer",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 5),
		Duration:       5,
		MaxMembers:     6,
		CurrentMembers: 1,
		AvgBudget:      34000,
		TripType:       domain.TripTypeCultural,
		TripSource:     domain.SourceCommunity,
		CreatorID:      "host-priya",
		Members: []domain.Member{
			{ID: "host-priya", Name: "Priya Sharma", Role: domain.RoleHost, AvatarColor: domain.HostAvatarColor},
		},
		Requests: []domain.JoinRequest{},
	}
}
