// Package repo contains all persistence logic for the backpackers API.
// Each collection has an interface plus a Postgres and an in-memory
// implementation; messages and directory snapshots can live in Redis.
// No business logic lives here, only storage and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/backpackers/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting it instead of *pgxpool.Pool lets integration tests pass a
// transaction that is rolled back after each test. Begin on a pgx.Tx opens
// a savepoint, so AtomicUpdate works the same way in both cases.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// GroupMutator edits a private copy of a group. Returning an error aborts
// the update and nothing is written.
type GroupMutator func(g *domain.Group) error

// CommentMutator edits a private copy of a comment.
type CommentMutator func(c *domain.Comment) error

// GroupRepo persists group documents. Members, the host profile and join
// requests are part of the document, so a single AtomicUpdate covers a
// request transition and the member it adds.
type GroupRepo interface {
	// Insert stores a new group. Returns domain.ErrConflict if the id is taken.
	Insert(ctx context.Context, g domain.Group) (domain.Group, error)

	// GetByID returns domain.ErrNotFound if no group has that id.
	GetByID(ctx context.Context, id string) (domain.Group, error)

	// List returns every group, newest first with id as tiebreak.
	List(ctx context.Context) ([]domain.Group, error)

	// FindByRequestID returns the group holding the given join request.
	FindByRequestID(ctx context.Context, requestID string) (domain.Group, error)

	// AtomicUpdate applies fn to the group under a per-group write lock and
	// stores the result only if fn succeeds.
	AtomicUpdate(ctx context.Context, id string, fn GroupMutator) (domain.Group, error)
}

// CommentRepo persists discussion-thread comments.
type CommentRepo interface {
	Insert(ctx context.Context, c domain.Comment) (domain.Comment, error)

	// GetByID returns domain.ErrNotFound when the comment does not exist
	// under groupID.
	GetByID(ctx context.Context, groupID, commentID string) (domain.Comment, error)

	// ListByGroup returns the thread most recent first.
	ListByGroup(ctx context.Context, groupID string) ([]domain.Comment, error)

	Delete(ctx context.Context, groupID, commentID string) error

	AtomicUpdate(ctx context.Context, groupID, commentID string, fn CommentMutator) (domain.Comment, error)
}

// MessageLog is the append-only per-group message log.
type MessageLog interface {
	Append(ctx context.Context, m domain.Message) error

	// List returns messages in insertion order.
	List(ctx context.Context, groupID string) ([]domain.Message, error)
}
