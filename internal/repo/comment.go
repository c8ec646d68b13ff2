package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// pgCommentRepo is the Postgres implementation of CommentRepo.
type pgCommentRepo struct {
	db db
}

// NewCommentRepo constructs a CommentRepo backed by the provided db connection.
func NewCommentRepo(db db) CommentRepo {
	return &pgCommentRepo{db: db}
}

const commentColumns = `id, group_id, author_id, author_name, avatar_color, role_label, text, likes, created_at`

// Insert stores a new comment. seq is assigned by the database and breaks
// ties between comments created in the same instant.
func (r *pgCommentRepo) Insert(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	const q = `
		INSERT INTO comments (id, group_id, author_id, author_name, avatar_color, role_label, text, likes, created_at)
		VALUES (@id, @group_id, @author_id, @author_name, @avatar_color, @role_label, @text, @likes, @created_at)
		RETURNING ` + commentColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":           c.ID,
		"group_id":     c.GroupID,
		"author_id":    c.AuthorID,
		"author_name":  c.AuthorName,
		"avatar_color": c.AvatarColor,
		"role_label":   c.RoleLabel,
		"text":         c.Text,
		"likes":        c.Likes,
		"created_at":   c.CreatedAt,
	})
	got, err := scanComment(row)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.Insert: %w", err)
	}
	return got, nil
}

// GetByID only finds the comment under its own group.
func (r *pgCommentRepo) GetByID(ctx context.Context, groupID, commentID string) (domain.Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE group_id = @group_id AND id = @id`

	got, err := scanComment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"group_id": groupID, "id": commentID}))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.GetByID: %w", err)
	}
	return got, nil
}

// ListByGroup returns the thread most recent first.
func (r *pgCommentRepo) ListByGroup(ctx context.Context, groupID string) ([]domain.Comment, error) {
	const q = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE group_id = @group_id
		ORDER BY created_at DESC, seq DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"group_id": groupID})
	if err != nil {
		return nil, fmt.Errorf("repo.CommentRepo.ListByGroup: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CommentRepo.ListByGroup: scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CommentRepo.ListByGroup: rows: %w", err)
	}
	return comments, nil
}

// Delete removes a comment. Returns domain.ErrNotFound if it does not exist.
func (r *pgCommentRepo) Delete(ctx context.Context, groupID, commentID string) error {
	const q = `DELETE FROM comments WHERE group_id = @group_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"group_id": groupID, "id": commentID})
	if err != nil {
		return fmt.Errorf("repo.CommentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CommentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// AtomicUpdate locks the comment row, applies fn and writes back the
// mutable columns.
func (r *pgCommentRepo) AtomicUpdate(ctx context.Context, groupID, commentID string, fn CommentMutator) (domain.Comment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.AtomicUpdate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `SELECT ` + commentColumns + ` FROM comments WHERE group_id = @group_id AND id = @id FOR UPDATE`
	c, err := scanComment(tx.QueryRow(ctx, sel, pgx.NamedArgs{"group_id": groupID, "id": commentID}))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.AtomicUpdate: %w", err)
	}

	if err := fn(&c); err != nil {
		return domain.Comment{}, err
	}

	const upd = `
		UPDATE comments
		SET text  = @text,
		    likes = @likes
		WHERE group_id = @group_id AND id = @id
		RETURNING ` + commentColumns

	got, err := scanComment(tx.QueryRow(ctx, upd, pgx.NamedArgs{
		"group_id": groupID,
		"id":       commentID,
		"text":     c.Text,
		"likes":    c.Likes,
	}))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.AtomicUpdate: update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.AtomicUpdate: commit: %w", err)
	}
	return got, nil
}

func scanComment(s scanner) (domain.Comment, error) {
	var c domain.Comment
	err := s.Scan(&c.ID, &c.GroupID, &c.AuthorID, &c.AuthorName, &c.AvatarColor, &c.RoleLabel, &c.Text, &c.Likes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Comment{}, domain.ErrNotFound
		}
		return domain.Comment{}, err
	}
	return c, nil
}
