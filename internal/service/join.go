package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/metrics"
	"github.com/pkordes/backpackers/internal/repo"
)

// JoinService implements the join-request workflow. Requests live inside
// their group document, so every transition goes through a single
// GroupRepo.AtomicUpdate together with the member it adds.
type JoinService struct {
	groups  repo.GroupRepo
	ids     *idgen.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewJoinService constructs a JoinService. metrics may be nil.
func NewJoinService(groups repo.GroupRepo, ids *idgen.Generator, m *metrics.Metrics, logger *slog.Logger) *JoinService {
	return &JoinService{groups: groups, ids: ids, metrics: m, logger: orDefault(logger)}
}

// Submit creates a pending request from applicant for the group.
//
// Fails with domain.ErrDuplicatePending when the applicant already has a
// pending request there, domain.ErrAlreadyMember when they are on the member
// list and domain.ErrCapacityExceeded when the group is full.
func (s *JoinService) Submit(ctx context.Context, groupID string, applicant domain.Actor, note string) (domain.JoinRequest, error) {
	if strings.TrimSpace(applicant.ID) == "" {
		return domain.JoinRequest{}, &domain.ValidationError{Reason: "user id is required", Fields: []string{"userId"}}
	}

	req := domain.JoinRequest{
		ID:        s.ids.NewID(idgen.PrefixJoinRequest),
		UserID:    applicant.ID,
		UserName:  applicant.DisplayName(),
		Note:      strings.TrimSpace(note),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.groups.AtomicUpdate(ctx, groupID, func(g *domain.Group) error {
		if err := g.SubmitRequest(req); err != nil {
			return err
		}
		req, _ = g.Request(req.ID)
		return nil
	})
	if err != nil {
		return domain.JoinRequest{}, fmt.Errorf("service.JoinService.Submit: %w", err)
	}

	s.metrics.JoinRequestSubmitted()
	s.logger.InfoContext(ctx, "join request submitted",
		"group_id", groupID,
		"request_id", req.ID,
		"user_id", req.UserID,
	)
	return req, nil
}

// Decide moves a pending request to approved or rejected. Approval adds the
// applicant to the member list in the same atomic update; if the group is
// full the decision fails with domain.ErrCapacityExceeded and the request
// stays pending.
func (s *JoinService) Decide(ctx context.Context, requestID string, decision domain.JoinRequestStatus) (domain.JoinRequest, error) {
	req, err := s.decide(ctx, requestID, decision, nil)
	if err != nil {
		return domain.JoinRequest{}, fmt.Errorf("service.JoinService.Decide: %w", err)
	}
	return req, nil
}

// DecideAs is Decide restricted to the host and co-hosts of the request's
// group. The role check runs inside the same atomic update as the decision.
func (s *JoinService) DecideAs(ctx context.Context, actorID, requestID string, decision domain.JoinRequestStatus) (domain.JoinRequest, error) {
	req, err := s.decide(ctx, requestID, decision, func(g domain.Group) error {
		return requireModerator(g, actorID)
	})
	if err != nil {
		return domain.JoinRequest{}, fmt.Errorf("service.JoinService.DecideAs: %w", err)
	}
	return req, nil
}

func (s *JoinService) decide(ctx context.Context, requestID string, decision domain.JoinRequestStatus, authorize func(domain.Group) error) (domain.JoinRequest, error) {
	if _, err := domain.ParseDecision(string(decision)); err != nil {
		return domain.JoinRequest{}, err
	}

	owner, err := s.groups.FindByRequestID(ctx, requestID)
	if err != nil {
		return domain.JoinRequest{}, err
	}

	var decided domain.JoinRequest
	_, err = s.groups.AtomicUpdate(ctx, owner.ID, func(g *domain.Group) error {
		if authorize != nil {
			if err := authorize(*g); err != nil {
				return err
			}
		}
		pending, err := g.Request(requestID)
		if err != nil {
			return err
		}
		decided, err = g.DecideRequest(requestID, decision, domain.NewMemberFromRequest(pending), time.Now().UTC())
		return err
	})

	s.metrics.JoinDecision(string(decision), outcome(err))
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			s.logger.WarnContext(ctx, "approval blocked by capacity",
				"group_id", owner.ID,
				"request_id", requestID,
			)
		}
		return domain.JoinRequest{}, err
	}

	s.logger.InfoContext(ctx, "join request decided",
		"group_id", owner.ID,
		"request_id", requestID,
		"status", decided.Status,
	)
	return decided, nil
}

// ListRequests returns every request of the group in submission order.
// Only the host and co-hosts may list them.
func (s *JoinService) ListRequests(ctx context.Context, actorID, groupID string) ([]domain.JoinRequest, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("service.JoinService.ListRequests: %w", err)
	}
	if err := requireModerator(g, actorID); err != nil {
		return nil, fmt.Errorf("service.JoinService.ListRequests: %w", err)
	}
	if g.Requests == nil {
		return []domain.JoinRequest{}, nil
	}
	return g.Requests, nil
}

// outcome is the metrics label for a decision result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
