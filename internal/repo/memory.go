package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkordes/backpackers/internal/domain"
)

// MemoryStore keeps groups and comments in process memory behind a single
// mutex. Values are deep-copied on the way in and out so callers never
// share state with the store. It backs STORE_DRIVER=memory and the workflow
// tests.
type MemoryStore struct {
	mu       sync.Mutex
	groups   map[string]domain.Group
	comments map[string][]memComment
	seq      int64
}

type memComment struct {
	seq     int64
	comment domain.Comment
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		groups:   make(map[string]domain.Group),
		comments: make(map[string][]memComment),
	}
}

// Groups returns a GroupRepo view of the store.
func (s *MemoryStore) Groups() GroupRepo { return memGroups{s} }

// Comments returns a CommentRepo view of the store.
func (s *MemoryStore) Comments() CommentRepo { return memComments{s} }

type memGroups struct{ s *MemoryStore }

func (m memGroups) Insert(_ context.Context, g domain.Group) (domain.Group, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.groups[g.ID]; ok {
		return domain.Group{}, fmt.Errorf("repo.MemoryStore.Insert: %w", domain.ErrConflict)
	}
	m.s.groups[g.ID] = g.Clone()
	return g.Clone(), nil
}

func (m memGroups) GetByID(_ context.Context, id string) (domain.Group, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	g, ok := m.s.groups[id]
	if !ok {
		return domain.Group{}, fmt.Errorf("repo.MemoryStore.GetByID: %w", domain.ErrNotFound)
	}
	return g.Clone(), nil
}

func (m memGroups) List(_ context.Context) ([]domain.Group, error) {
	m.s.mu.Lock()
	out := make([]domain.Group, 0, len(m.s.groups))
	for _, g := range m.s.groups {
		out = append(out, g.Clone())
	}
	m.s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m memGroups) FindByRequestID(_ context.Context, requestID string) (domain.Group, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, g := range m.s.groups {
		if _, err := g.Request(requestID); err == nil {
			return g.Clone(), nil
		}
	}
	return domain.Group{}, fmt.Errorf("repo.MemoryStore.FindByRequestID: %w", domain.ErrNotFound)
}

func (m memGroups) AtomicUpdate(_ context.Context, id string, fn GroupMutator) (domain.Group, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	current, ok := m.s.groups[id]
	if !ok {
		return domain.Group{}, fmt.Errorf("repo.MemoryStore.AtomicUpdate: %w", domain.ErrNotFound)
	}

	staged := current.Clone()
	if err := fn(&staged); err != nil {
		return domain.Group{}, err
	}
	staged.ID = id
	staged.UpdatedAt = time.Now().UTC()
	m.s.groups[id] = staged
	return staged.Clone(), nil
}

type memComments struct{ s *MemoryStore }

func (m memComments) Insert(_ context.Context, c domain.Comment) (domain.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.comments[c.GroupID] {
		if existing.comment.ID == c.ID {
			return domain.Comment{}, fmt.Errorf("repo.MemoryStore.Insert: %w", domain.ErrConflict)
		}
	}
	m.s.seq++
	m.s.comments[c.GroupID] = append(m.s.comments[c.GroupID], memComment{seq: m.s.seq, comment: c})
	return c, nil
}

func (m memComments) GetByID(_ context.Context, groupID, commentID string) (domain.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if i := m.s.commentIndex(groupID, commentID); i >= 0 {
		return m.s.comments[groupID][i].comment, nil
	}
	return domain.Comment{}, fmt.Errorf("repo.MemoryStore.GetByID: %w", domain.ErrNotFound)
}

func (m memComments) ListByGroup(_ context.Context, groupID string) ([]domain.Comment, error) {
	m.s.mu.Lock()
	rows := append([]memComment(nil), m.s.comments[groupID]...)
	m.s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.comment.CreatedAt.Equal(b.comment.CreatedAt) {
			return a.comment.CreatedAt.After(b.comment.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]domain.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.comment)
	}
	return out, nil
}

func (m memComments) Delete(_ context.Context, groupID, commentID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	i := m.s.commentIndex(groupID, commentID)
	if i < 0 {
		return fmt.Errorf("repo.MemoryStore.Delete: %w", domain.ErrNotFound)
	}
	rows := m.s.comments[groupID]
	m.s.comments[groupID] = append(rows[:i:i], rows[i+1:]...)
	return nil
}

func (m memComments) AtomicUpdate(_ context.Context, groupID, commentID string, fn CommentMutator) (domain.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	i := m.s.commentIndex(groupID, commentID)
	if i < 0 {
		return domain.Comment{}, fmt.Errorf("repo.MemoryStore.AtomicUpdate: %w", domain.ErrNotFound)
	}
	staged := m.s.comments[groupID][i].comment
	if err := fn(&staged); err != nil {
		return domain.Comment{}, err
	}
	m.s.comments[groupID][i].comment = staged
	return staged, nil
}

// commentIndex must be called with mu held.
func (s *MemoryStore) commentIndex(groupID, commentID string) int {
	for i, r := range s.comments[groupID] {
		if r.comment.ID == commentID {
			return i
		}
	}
	return -1
}
