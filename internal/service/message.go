package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/metrics"
	"github.com/pkordes/backpackers/internal/repo"
)

// MessageService appends to and reads a group's message log.
type MessageService struct {
	groups  repo.GroupRepo
	log     repo.MessageLog
	ids     *idgen.Generator
	metrics *metrics.Metrics
}

// NewMessageService constructs a MessageService. metrics may be nil.
func NewMessageService(groups repo.GroupRepo, log repo.MessageLog, ids *idgen.Generator, m *metrics.Metrics) *MessageService {
	return &MessageService{groups: groups, log: log, ids: ids, metrics: m}
}

// Send appends a message from sender to the group's log.
func (s *MessageService) Send(ctx context.Context, groupID string, sender domain.Actor, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, &domain.ValidationError{Reason: "message text is required", Fields: []string{"text"}}
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return domain.Message{}, fmt.Errorf("service.MessageService.Send: %w", err)
	}

	m := domain.Message{
		ID:         s.ids.NewID(idgen.PrefixMessage),
		GroupID:    groupID,
		SenderID:   sender.ID,
		SenderName: sender.DisplayName(),
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.log.Append(ctx, m); err != nil {
		return domain.Message{}, fmt.Errorf("service.MessageService.Send: %w", err)
	}
	s.metrics.MessageSent()
	return m, nil
}

// List returns the group's messages in the order they were sent.
func (s *MessageService) List(ctx context.Context, groupID string) ([]domain.Message, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, fmt.Errorf("service.MessageService.List: %w", err)
	}
	msgs, err := s.log.List(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("service.MessageService.List: %w", err)
	}
	return msgs, nil
}
