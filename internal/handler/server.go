// Package handler implements the HTTP handlers for the backpackers API.
// All handlers are methods on Server and are registered on a chi router by
// Routes. Methods are split into resource files (group.go, join.go, etc.)
// but share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/backpackers/internal/directory"
	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/middleware"
	"github.com/pkordes/backpackers/internal/service"
)

// GroupServicer defines the group operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type GroupServicer interface {
	Create(ctx context.Context, actor domain.Actor, draft domain.GroupDraft) (domain.Group, error)
	GetForViewer(ctx context.Context, viewerID, groupID string) (domain.Group, error)
	RoleOf(ctx context.Context, groupID, userID string) (domain.Role, error)
	Roster(ctx context.Context, actorID, groupID string) ([]domain.Member, error)
	Verify(ctx context.Context, actor domain.Actor, groupID string) (domain.Group, error)
}

// DirectoryServicer serves the filtered group listing.
type DirectoryServicer interface {
	Browse(ctx context.Context, f directory.Filters, p domain.PaginationParams) (service.DirectoryPage, error)
}

// JoinServicer defines the join-request operations.
type JoinServicer interface {
	Submit(ctx context.Context, groupID string, applicant domain.Actor, note string) (domain.JoinRequest, error)
	DecideAs(ctx context.Context, actorID, requestID string, decision domain.JoinRequestStatus) (domain.JoinRequest, error)
	ListRequests(ctx context.Context, actorID, groupID string) ([]domain.JoinRequest, error)
}

// CommentServicer defines the discussion-thread operations.
type CommentServicer interface {
	Post(ctx context.Context, groupID string, author domain.Actor, avatarColor, text string) (domain.Comment, error)
	List(ctx context.Context, groupID string) ([]domain.Comment, error)
	Delete(ctx context.Context, groupID, commentID, requesterID string) error
	Like(ctx context.Context, groupID, commentID string, isLike bool) (domain.Comment, error)
}

// MessageServicer defines the group message-log operations.
type MessageServicer interface {
	Send(ctx context.Context, groupID string, sender domain.Actor, text string) (domain.Message, error)
	List(ctx context.Context, groupID string) ([]domain.Message, error)
}

// Server holds the services every handler needs.
type Server struct {
	groups    GroupServicer
	directory DirectoryServicer
	joins     JoinServicer
	comments  CommentServicer
	messages  MessageServicer
	metrics   http.Handler
	logger    *slog.Logger
}

// Services bundles the dependencies of NewServer. A nil logger falls back to
// slog.Default.
type Services struct {
	Groups    GroupServicer
	Directory DirectoryServicer
	Joins     JoinServicer
	Comments  CommentServicer
	Messages  MessageServicer
	// Metrics serves /metrics when set.
	Metrics   http.Handler
	Logger    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(s Services) *Server {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		groups:    s.Groups,
		directory: s.Directory,
		joins:     s.Joins,
		comments:  s.Comments,
		messages:  s.Messages,
		metrics:   s.Metrics,
		logger:    logger,
	}
}

// Routes returns the API router. Reads are public; every mutating route
// requires a caller resolved by middleware.Identity, which must run before
// the returned handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.ListGroups)
		r.With(middleware.RequireIdentity).Post("/", s.CreateGroup)

		r.Route("/{groupId}", func(r chi.Router) {
			r.Get("/", s.GetGroup)
			r.Get("/members/{userId}/role", s.GetMemberRole)
			r.Get("/comments", s.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireIdentity)
				r.Get("/roster", s.GetRoster)
				r.Post("/join-requests", s.SubmitJoinRequest)
				r.Get("/join-requests", s.ListJoinRequests)
				r.Post("/comments", s.PostComment)
				r.Delete("/comments/{commentId}", s.DeleteComment)
				r.Post("/comments/{commentId}/likes", s.LikeComment)
				r.Get("/messages", s.ListMessages)
				r.Post("/messages", s.SendMessage)
			})
		})
	})

	r.With(middleware.RequireIdentity).Post("/join-requests/{requestId}/decision", s.DecideJoinRequest)
	r.With(middleware.RequireIdentity).Post("/admin/groups/{groupId}/verify", s.VerifyGroup)

	return r
}

// actor returns the caller. Only valid behind RequireIdentity.
func actor(r *http.Request) domain.Actor {
	a, _ := middleware.ActorFrom(r.Context())
	return a
}
