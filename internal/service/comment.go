package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/metrics"
	"github.com/pkordes/backpackers/internal/repo"
)

// CommentService implements the discussion thread.
type CommentService struct {
	groups   repo.GroupRepo
	comments repo.CommentRepo
	ids      *idgen.Generator
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewCommentService constructs a CommentService. metrics may be nil.
func NewCommentService(groups repo.GroupRepo, comments repo.CommentRepo, ids *idgen.Generator, m *metrics.Metrics, logger *slog.Logger) *CommentService {
	return &CommentService{groups: groups, comments: comments, ids: ids, metrics: m, logger: orDefault(logger)}
}

// Post adds a comment to the group's thread. text is trimmed and must not
// be empty. The author is labelled Host when they created the group.
func (s *CommentService) Post(ctx context.Context, groupID string, author domain.Actor, avatarColor, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, &domain.ValidationError{Reason: "comment text is required", Fields: []string{"text"}}
	}

	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.CommentService.Post: %w", err)
	}

	label := domain.RoleLabelExplorer
	if author.ID == g.CreatorID {
		label = domain.RoleLabelHost
	}
	if avatarColor == "" {
		avatarColor = domain.MemberAvatarColor
	}

	c, err := s.comments.Insert(ctx, domain.Comment{
		ID:          s.ids.NewID(idgen.PrefixComment),
		GroupID:     groupID,
		AuthorID:    author.ID,
		AuthorName:  author.DisplayName(),
		AvatarColor: avatarColor,
		RoleLabel:   label,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.CommentService.Post: %w", err)
	}
	s.metrics.CommentPosted()
	return c, nil
}

// List returns the thread most recent first. Returns domain.ErrNotFound for
// an unknown group.
func (s *CommentService) List(ctx context.Context, groupID string) ([]domain.Comment, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, fmt.Errorf("service.CommentService.List: %w", err)
	}
	comments, err := s.comments.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("service.CommentService.List: %w", err)
	}
	return comments, nil
}

// Delete removes a comment. Only its author may delete it; anyone else gets
// domain.ErrUnauthorized and the comment stays.
func (s *CommentService) Delete(ctx context.Context, groupID, commentID, requesterID string) error {
	c, err := s.comments.GetByID(ctx, groupID, commentID)
	if err != nil {
		return fmt.Errorf("service.CommentService.Delete: %w", err)
	}
	if c.AuthorID != requesterID {
		return fmt.Errorf("service.CommentService.Delete: %w", domain.ErrUnauthorized)
	}
	if err := s.comments.Delete(ctx, groupID, commentID); err != nil {
		return fmt.Errorf("service.CommentService.Delete: %w", err)
	}
	s.logger.InfoContext(ctx, "comment deleted", "group_id", groupID, "comment_id", commentID)
	return nil
}

// Like adds or removes one like. The counter never drops below zero.
func (s *CommentService) Like(ctx context.Context, groupID, commentID string, isLike bool) (domain.Comment, error) {
	c, err := s.comments.AtomicUpdate(ctx, groupID, commentID, func(c *domain.Comment) error {
		c.Like(isLike)
		return nil
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.CommentService.Like: %w", err)
	}
	return c, nil
}
