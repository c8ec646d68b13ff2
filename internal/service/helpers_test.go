package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/backpackers/internal/directory"
	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/idgen"
	"github.com/pkordes/backpackers/internal/metrics"
	"github.com/pkordes/backpackers/internal/repo"
	"github.com/pkordes/backpackers/internal/service"
)

// mockGroupRepo is a hand-written test double for repo.GroupRepo.
// Each method is a function field; set only the ones your test needs.
type mockGroupRepo struct {
	insert          func(ctx context.Context, g domain.Group) (domain.Group, error)
	getByID         func(ctx context.Context, id string) (domain.Group, error)
	list            func(ctx context.Context) ([]domain.Group, error)
	findByRequestID func(ctx context.Context, requestID string) (domain.Group, error)
	atomicUpdate    func(ctx context.Context, id string, fn repo.GroupMutator) (domain.Group, error)
}

func (m *mockGroupRepo) Insert(ctx context.Context, g domain.Group) (domain.Group, error) {
	return m.insert(ctx, g)
}
func (m *mockGroupRepo) GetByID(ctx context.Context, id string) (domain.Group, error) {
	return m.getByID(ctx, id)
}
func (m *mockGroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	return m.list(ctx)
}
func (m *mockGroupRepo) FindByRequestID(ctx context.Context, requestID string) (domain.Group, error) {
	return m.findByRequestID(ctx, requestID)
}
func (m *mockGroupRepo) AtomicUpdate(ctx context.Context, id string, fn repo.GroupMutator) (domain.Group, error) {
	return m.atomicUpdate(ctx, id, fn)
}

// compile-time check: mockGroupRepo must satisfy repo.GroupRepo.
var _ repo.GroupRepo = (*mockGroupRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// services wires every service over one in-memory store.
type services struct {
	store    *repo.MemoryStore
	metrics  *metrics.Metrics
	groups   *service.GroupService
	join     *service.JoinService
	comments *service.CommentService
	messages *service.MessageService
	dir      *service.DirectoryService
}

func newServices(t *testing.T) services {
	t.Helper()
	store := repo.NewMemoryStore()
	ids, err := idgen.NewGenerator(1)
	require.NoError(t, err)
	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return services{
		store:    store,
		metrics:  m,
		groups:   service.NewGroupService(store.Groups(), idgen.NewSlugIssuer(nil), m, logger),
		join:     service.NewJoinService(store.Groups(), ids, m, logger),
		comments: service.NewCommentService(store.Groups(), store.Comments(), ids, m, logger),
		messages: service.NewMessageService(store.Groups(), repo.NewMemoryMessageLog(), ids, m),
		dir:      service.NewDirectoryService(store.Groups(), directory.NewEngine(directory.DefaultBrackets)),
	}
}

func ptr[T any](v T) *T { return &v }

var host = domain.Actor{ID: "host-priya", Name: "Priya Sharma"}

func draft(name string) domain.GroupDraft {
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	return domain.GroupDraft{
		GroupName:   name,
		Destination: "Jaisalmer",
		StartDate:   ptr(start),
		EndDate:     ptr(start.AddDate(0, 0, 4)),
	}
}

// createGroup creates a group hosted by host with the given capacity.
func createGroup(t *testing.T, s services, maxMembers int) domain.Group {
	t.Helper()
	d := draft("Desert Campfire Collective!!")
	d.MaxMembers = ptr(maxMembers)
	g, err := s.groups.Create(context.Background(), host, d)
	require.NoError(t, err)
	return g
}

// metricValue sums every series of the named counter family.
func metricValue(t *testing.T, s services, name string) float64 {
	t.Helper()
	families, err := s.metrics.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
