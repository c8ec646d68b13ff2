package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/backpackers/internal/domain"
)

// redisMessageLog keeps one Redis list per group and appends JSON entries
// with RPUSH, so LRANGE returns them in insertion order.
type redisMessageLog struct {
	client *redis.Client
}

// NewRedisMessageLog returns a MessageLog backed by Redis lists.
func NewRedisMessageLog(client *redis.Client) MessageLog {
	return &redisMessageLog{client: client}
}

func messageKey(groupID string) string {
	return "backpackers:group:" + groupID + ":messages"
}

func (l *redisMessageLog) Append(ctx context.Context, m domain.Message) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("repo.MessageLog.Append: marshal: %w", err)
	}
	if err := l.client.RPush(ctx, messageKey(m.GroupID), raw).Err(); err != nil {
		return fmt.Errorf("repo.MessageLog.Append: rpush: %w", err)
	}
	return nil
}

func (l *redisMessageLog) List(ctx context.Context, groupID string) ([]domain.Message, error) {
	entries, err := l.client.LRange(ctx, messageKey(groupID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("repo.MessageLog.List: lrange: %w", err)
	}

	out := make([]domain.Message, 0, len(entries))
	for _, e := range entries {
		var m domain.Message
		if err := json.Unmarshal([]byte(e), &m); err != nil {
			return nil, fmt.Errorf("repo.MessageLog.List: decode: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// memoryMessageLog is used when no REDIS_URL is configured.
type memoryMessageLog struct {
	mu   sync.Mutex
	logs map[string][]domain.Message
}

// NewMemoryMessageLog returns an in-process MessageLog.
func NewMemoryMessageLog() MessageLog {
	return &memoryMessageLog{logs: make(map[string][]domain.Message)}
}

func (l *memoryMessageLog) Append(_ context.Context, m domain.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs[m.GroupID] = append(l.logs[m.GroupID], m)
	return nil
}

func (l *memoryMessageLog) List(_ context.Context, groupID string) ([]domain.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Message{}, l.logs[groupID]...), nil
}
