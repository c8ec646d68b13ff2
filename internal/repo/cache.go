package repo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/backpackers/internal/domain"
)

// DirectorySnapshotKey holds the JSON snapshot of GroupRepo.List.
const DirectorySnapshotKey = "backpackers:directory:snapshot"

// CachedGroupRepo serves List from a Redis snapshot that expires after ttl
// and is dropped on every write. Every other call goes straight to the
// wrapped repo. Redis failures are logged and fall through to the wrapped
// repo, so the cache can never make a read fail.
type CachedGroupRepo struct {
	next   GroupRepo
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGroupRepo wraps next with a directory snapshot cache.
func NewCachedGroupRepo(next GroupRepo, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedGroupRepo {
	return &CachedGroupRepo{next: next, client: client, ttl: ttl, logger: logger}
}

var _ GroupRepo = (*CachedGroupRepo)(nil)

func (c *CachedGroupRepo) Insert(ctx context.Context, g domain.Group) (domain.Group, error) {
	got, err := c.next.Insert(ctx, g)
	if err != nil {
		return got, err
	}
	c.invalidate(ctx)
	return got, nil
}

func (c *CachedGroupRepo) GetByID(ctx context.Context, id string) (domain.Group, error) {
	return c.next.GetByID(ctx, id)
}

func (c *CachedGroupRepo) FindByRequestID(ctx context.Context, requestID string) (domain.Group, error) {
	return c.next.FindByRequestID(ctx, requestID)
}

func (c *CachedGroupRepo) AtomicUpdate(ctx context.Context, id string, fn GroupMutator) (domain.Group, error) {
	got, err := c.next.AtomicUpdate(ctx, id, fn)
	if err != nil {
		return got, err
	}
	c.invalidate(ctx)
	return got, nil
}

// List returns the cached snapshot when present.
func (c *CachedGroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	raw, err := c.client.Get(ctx, DirectorySnapshotKey).Bytes()
	switch {
	case err == nil:
		var groups []domain.Group
		if jerr := json.Unmarshal(raw, &groups); jerr == nil {
			return groups, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable directory snapshot")
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "directory cache read failed", "error", err)
	}

	groups, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(groups); err == nil {
		if err := c.client.Set(ctx, DirectorySnapshotKey, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "directory cache write failed", "error", err)
		}
	}
	return groups, nil
}

func (c *CachedGroupRepo) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, DirectorySnapshotKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "directory cache invalidation failed", "error", err)
	}
}
