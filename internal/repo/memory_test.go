package repo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/backpackers/internal/domain"
	"github.com/pkordes/backpackers/internal/repo"
)

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryStore().Groups()
	_, err := r.Insert(ctx, groupFixture("g1", time.Now().UTC()))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	got.Members[0].Name = "mutated outside the store"
	got.Plan.EstimatedCosts["stay"] = 0

	again, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Host", again.Members[0].Name)
	assert.Equal(t, 20000.0, again.Plan.EstimatedCosts["stay"])
}

// Two goroutines race for the last seat of a two-person group. The store
// serialises AtomicUpdate, so exactly one of them gets in.
func TestMemoryStore_AtomicUpdateLastSeat(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryStore().Groups()
	_, err := r.Insert(ctx, groupFixture("g1", time.Now().UTC()))
	require.NoError(t, err)

	const contenders = 16
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.AtomicUpdate(ctx, "g1", func(g *domain.Group) error {
				return g.AddMember(domain.Member{ID: string(rune('a' + i)), Role: domain.RoleMember})
			})
		}(i)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrCapacityExceeded):
			full++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, contenders-1, full)

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentMembers)
	assert.NoError(t, got.CheckInvariants())
}
