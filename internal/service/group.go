// Package service contains the business logic for the backpackers API.
// Services validate inputs, enforce membership rules and orchestrate repo
// calls. No storage code lives here; services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/metrics"
	"github.com/pkordes/backpackers/internal/repo"
)

// maxSlugAttempts bounds how often Create retries with a random suffix
// after an id collision.
const maxSlugAttempts = 3

// GroupService implements the creation workflow and group-level reads.
type GroupService struct {
	groups  repo.GroupRepo
	slugs   *idgen.SlugIssuer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewGroupService constructs a GroupService. metrics may be nil.
func NewGroupService(groups repo.GroupRepo, slugs *idgen.SlugIssuer, m *metrics.Metrics, logger *slog.Logger) *GroupService {
	return &GroupService{groups: groups, slugs: slugs, metrics: m, logger: orDefault(logger)}
}

// Create validates draft, fills defaults, derives duration and avgBudget,
// attaches the host member, host profile and badges, then stores the whole
// group in one insert.
//
// The creator defaults to actor. Only admins may create hosted trips.
func (s *GroupService) Create(ctx context.Context, actor domain.Actor, draft domain.GroupDraft) (domain.Group, error) {
	if draft.CreatorID == "" {
		draft.CreatorID = actor.ID
	}
	if draft.CreatorName == "" && draft.CreatorID == actor.ID {
		draft.CreatorName = actor.Name
	}
	if draft.TripSource != nil && *draft.TripSource == domain.SourceHosted && !actor.Admin {
		return domain.Group{}, fmt.Errorf("service.GroupService.Create: hosted trips need an admin: %w", domain.ErrForbidden)
	}

	settings, err := draft.Resolve()
	if err != nil {
		return domain.Group{}, err
	}

	id, at := s.slugs.Issue(settings.GroupName)
	g := domain.NewGroup(id, settings, at.UTC())

	for attempt := 1; ; attempt++ {
		created, err := s.groups.Insert(ctx, g)
		if err == nil {
			s.metrics.GroupCreated(string(created.TripSource))
			s.logger.InfoContext(ctx, "group created",
				"group_id", created.ID,
				"creator_id", created.CreatorID,
				"trip_source", created.TripSource,
			)
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxSlugAttempts {
			return domain.Group{}, fmt.Errorf("service.GroupService.Create: %w", err)
		}
		g.ID = idgen.RandomSlug(settings.GroupName)
	}
}

// Get returns a group with every field, including join requests.
func (s *GroupService) Get(ctx context.Context, groupID string) (domain.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("service.GroupService.Get: %w", err)
	}
	return g, nil
}

// GetForViewer returns the group as viewerID may see it: join requests are
// only included for the host and co-hosts.
func (s *GroupService) GetForViewer(ctx context.Context, viewerID, groupID string) (domain.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("service.GroupService.GetForViewer: %w", err)
	}
	if requireModerator(g, viewerID) != nil {
		g.Requests = []domain.JoinRequest{}
	}
	return g, nil
}

// RoleOf returns the role of userID in the group, or domain.ErrNotFound.
func (s *GroupService) RoleOf(ctx context.Context, groupID, userID string) (domain.Role, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return "", fmt.Errorf("service.GroupService.RoleOf: %w", err)
	}
	role, err := g.RoleOf(userID)
	if err != nil {
		return "", fmt.Errorf("service.GroupService.RoleOf: member %q: %w", userID, err)
	}
	return role, nil
}

// Roster returns the member list for the host or a co-host.
func (s *GroupService) Roster(ctx context.Context, actorID, groupID string) ([]domain.Member, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("service.GroupService.Roster: %w", err)
	}
	if err := requireModerator(g, actorID); err != nil {
		return nil, fmt.Errorf("service.GroupService.Roster: %w", err)
	}
	return g.Members, nil
}

// Verify marks a group as verified. Admin only.
func (s *GroupService) Verify(ctx context.Context, actor domain.Actor, groupID string) (domain.Group, error) {
	if !actor.Admin {
		return domain.Group{}, fmt.Errorf("service.GroupService.Verify: %w", domain.ErrForbidden)
	}
	g, err := s.groups.AtomicUpdate(ctx, groupID, func(g *domain.Group) error {
		g.Verified = true
		return nil
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("service.GroupService.Verify: %w", err)
	}
	s.logger.InfoContext(ctx, "group verified", "group_id", groupID, "admin_id", actor.ID)
	return g, nil
}

// MigrateTripSources tags every group that has no trip source yet using the
// legacy classification, and returns how many groups it tagged. Running it
// again is a no-op.
func (s *GroupService) MigrateTripSources(ctx context.Context) (int, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.GroupService.MigrateTripSources: %w", err)
	}

	tagged := 0
	for _, g := range groups {
		if g.TripSource.Valid() {
			continue
		}
		changed := false
		_, err := s.groups.AtomicUpdate(ctx, g.ID, func(g *domain.Group) error {
			if g.TripSource.Valid() {
				return nil
			}
			g.TripSource = domain.LegacySource(*g)
			changed = true
			return nil
		})
		if err != nil {
			return tagged, fmt.Errorf("service.GroupService.MigrateTripSources: group %s: %w", g.ID, err)
		}
		if changed {
			tagged++
			s.logger.InfoContext(ctx, "trip source backfilled", "group_id", g.ID)
		}
	}
	return tagged, nil
}

// requireModerator returns domain.ErrForbidden unless actorID is the host
// or a co-host of g.
func requireModerator(g domain.Group, actorID string) error {
	role, err := g.RoleOf(actorID)
	if err != nil || !role.CanModerate() {
		return domain.ErrForbidden
	}
	return nil
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
