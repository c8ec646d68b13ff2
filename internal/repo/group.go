package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// pgGroupRepo stores each group as one JSONB document.
type pgGroupRepo struct {
	db db
}

// NewGroupRepo constructs a GroupRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewGroupRepo(db db) GroupRepo {
	return &pgGroupRepo{db: db}
}

// Insert writes the document if no group with the same id exists.
func (r *pgGroupRepo) Insert(ctx context.Context, g domain.Group) (domain.Group, error) {
	const q = `
		INSERT INTO groups (id, doc, created_at, updated_at)
		VALUES (@id, @doc, @created_at, @updated_at)
		ON CONFLICT (id) DO NOTHING`

	doc, err := json.Marshal(g)
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.Insert: marshal: %w", err)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":         g.ID,
		"doc":        doc,
		"created_at": g.CreatedAt,
		"updated_at": g.UpdatedAt,
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.Insert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.Insert: %w", domain.ErrConflict)
	}
	return g, nil
}

// GetByID loads one group document.
func (r *pgGroupRepo) GetByID(ctx context.Context, id string) (domain.Group, error) {
	const q = `SELECT doc FROM groups WHERE id = @id`

	g, err := scanGroup(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", err)
	}
	return g, nil
}

// List returns all groups, newest first.
func (r *pgGroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	const q = `SELECT doc FROM groups ORDER BY created_at DESC, id ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.GroupRepo.List: %w", err)
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.GroupRepo.List: scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GroupRepo.List: rows: %w", err)
	}
	return groups, nil
}

// FindByRequestID uses the GIN index on doc->'requests'.
func (r *pgGroupRepo) FindByRequestID(ctx context.Context, requestID string) (domain.Group, error) {
	const q = `
		SELECT doc FROM groups
		WHERE doc->'requests' @> jsonb_build_array(jsonb_build_object('id', @request_id::text))`

	g, err := scanGroup(r.db.QueryRow(ctx, q, pgx.NamedArgs{"request_id": requestID}))
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.FindByRequestID: %w", err)
	}
	return g, nil
}

// AtomicUpdate locks the row with SELECT ... FOR UPDATE, so concurrent
// updates of the same group are serialised by Postgres.
func (r *pgGroupRepo) AtomicUpdate(ctx context.Context, id string, fn GroupMutator) (domain.Group, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.AtomicUpdate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `SELECT doc FROM groups WHERE id = @id FOR UPDATE`
	g, err := scanGroup(tx.QueryRow(ctx, sel, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.AtomicUpdate: %w", err)
	}

	if err := fn(&g); err != nil {
		return domain.Group{}, err
	}
	g.ID = id
	g.UpdatedAt = time.Now().UTC()

	doc, err := json.Marshal(g)
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.AtomicUpdate: marshal: %w", err)
	}

	const upd = `UPDATE groups SET doc = @doc, updated_at = @updated_at WHERE id = @id`
	if _, err := tx.Exec(ctx, upd, pgx.NamedArgs{"id": id, "doc": doc, "updated_at": g.UpdatedAt}); err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.AtomicUpdate: update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.AtomicUpdate: commit: %w", err)
	}
	return g, nil
}

// scanGroup decodes a single doc column into a domain.Group.
func scanGroup(s scanner) (domain.Group, error) {
	var raw []byte
	if err := s.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Group{}, domain.ErrNotFound
		}
		return domain.Group{}, err
	}

	var g domain.Group
	if err := json.Unmarshal(raw, &g); err != nil {
		return domain.Group{}, fmt.Errorf("decode group document: %w", err)
	}
	return g, nil
}
