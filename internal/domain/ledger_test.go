package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/backpackers/internal/domain"
)

func pendingRequest(id, user string) domain.JoinRequest {
	return domain.JoinRequest{ID: id, UserID: user, UserName: user, CreatedAt: day(2025, 10, 2)}
}

func TestAddMember(t *testing.T) {
	g := newGroup(t, 3)

	require.NoError(t, g.AddMember(domain.Member{ID: "u2", Role: domain.RoleMember}))
	assert.Equal(t, 2, g.CurrentMembers)
	assert.Len(t, g.Members, 2)

	role, err := g.RoleOf("u2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, role)
}

func TestAddMember_CapacityExceeded(t *testing.T) {
	g := newGroup(t, 2)
	require.NoError(t, g.AddMember(domain.Member{ID: "u2", Role: domain.RoleCoHost}))

	err := g.AddMember(domain.Member{ID: "u3", Role: domain.RoleMember})

	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, 2, g.CurrentMembers)
	assert.Len(t, g.Members, 2)
}

func TestAddMember_RejectsDuplicateAndSecondHost(t *testing.T) {
	g := newGroup(t, 5)

	assert.ErrorIs(t, g.AddMember(domain.Member{ID: "user-priya", Role: domain.RoleMember}), domain.ErrAlreadyMember)
	assert.ErrorIs(t, g.AddMember(domain.Member{ID: "u9", Role: domain.RoleHost}), domain.ErrValidation)
	assert.ErrorIs(t, g.AddMember(domain.Member{ID: "u9", Role: "captain"}), domain.ErrValidation)
	assert.Equal(t, 1, g.CurrentMembers)
}

func TestRoleOf_NotFound(t *testing.T) {
	g := newGroup(t, 5)
	_, err := g.RoleOf("nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRole_CanModerate(t *testing.T) {
	assert.True(t, domain.RoleHost.CanModerate())
	assert.True(t, domain.RoleCoHost.CanModerate())
	assert.False(t, domain.RoleMember.CanModerate())
}

// ---- join requests ---------------------------------------------------------

func TestTransition(t *testing.T) {
	at := day(2025, 10, 5)
	cases := []struct {
		from, to domain.JoinRequestStatus
		ok       bool
	}{
		{domain.StatusPending, domain.StatusApproved, true},
		{domain.StatusPending, domain.StatusRejected, true},
		{domain.StatusPending, domain.StatusPending, false},
		{domain.StatusApproved, domain.StatusRejected, false},
		{domain.StatusRejected, domain.StatusApproved, false},
		{domain.StatusApproved, domain.StatusApproved, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			r := domain.JoinRequest{Status: tc.from}
			err := r.Transition(tc.to, at)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, r.Status)
				require.NotNil(t, r.DecidedAt)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Equal(t, tc.from, r.Status)
		})
	}
}

func TestParseDecision(t *testing.T) {
	d, err := domain.ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, d)

	_, err = domain.ParseDecision("pending")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmitRequest_DuplicatePending(t *testing.T) {
	g := newGroup(t, 4)
	require.NoError(t, g.SubmitRequest(pendingRequest("r1", "u2")))

	err := g.SubmitRequest(pendingRequest("r2", "u2"))

	require.ErrorIs(t, err, domain.ErrDuplicatePending)
	assert.Len(t, g.Requests, 1)
}

func TestSubmitRequest_Guards(t *testing.T) {
	g := newGroup(t, 2)
	assert.ErrorIs(t, g.SubmitRequest(pendingRequest("r0", "user-priya")), domain.ErrAlreadyMember)

	require.NoError(t, g.AddMember(domain.Member{ID: "u2", Role: domain.RoleMember}))
	assert.ErrorIs(t, g.SubmitRequest(pendingRequest("r1", "u3")), domain.ErrCapacityExceeded)
	assert.Empty(t, g.Requests)
}

func TestSubmitRequest_AfterRejectionIsAllowed(t *testing.T) {
	g := newGroup(t, 4)
	require.NoError(t, g.SubmitRequest(pendingRequest("r1", "u2")))
	_, err := g.DecideRequest("r1", domain.StatusRejected, domain.Member{}, time.Now())
	require.NoError(t, err)

	assert.NoError(t, g.SubmitRequest(pendingRequest("r2", "u2")))
}

func TestDecideRequest_LastSeatScenario(t *testing.T) {
	g := newGroup(t, 2)
	require.NoError(t, g.SubmitRequest(pendingRequest("r1", "u2")))
	require.NoError(t, g.SubmitRequest(pendingRequest("r2", "u3")))

	first, err := g.DecideRequest("r1", domain.StatusApproved, domain.NewMemberFromRequest(requestOf(g, "r1")), day(2025, 10, 6))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, first.Status)
	assert.Equal(t, 2, g.CurrentMembers)

	_, err = g.DecideRequest("r2", domain.StatusApproved, domain.NewMemberFromRequest(requestOf(g, "r2")), day(2025, 10, 6))
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	second, err := g.Request("r2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, second.Status)
	assert.Nil(t, second.DecidedAt)
	assert.Equal(t, 2, g.CurrentMembers)
	assert.False(t, g.HasMember("u3"))
	assert.NoError(t, g.CheckInvariants())
}

func TestDecideRequest_RejectDoesNotAddMember(t *testing.T) {
	g := newGroup(t, 4)
	require.NoError(t, g.SubmitRequest(pendingRequest("r1", "u2")))

	got, err := g.DecideRequest("r1", domain.StatusRejected, domain.Member{}, day(2025, 10, 6))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Equal(t, 1, g.CurrentMembers)
}

func TestDecideRequest_Errors(t *testing.T) {
	g := newGroup(t, 4)
	require.NoError(t, g.SubmitRequest(pendingRequest("r1", "u2")))

	_, err := g.DecideRequest("nope", domain.StatusApproved, domain.Member{}, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = g.DecideRequest("r1", domain.StatusRejected, domain.Member{}, time.Now())
	require.NoError(t, err)
	_, err = g.DecideRequest("r1", domain.StatusApproved, domain.Member{}, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func requestOf(g domain.Group, requestID string) domain.JoinRequest {
	r, _ := g.Request(requestID)
	return r
}

// ---- comments and errors ---------------------------------------------------

func TestComment_LikeNeverNegative(t *testing.T) {
	c := domain.Comment{}
	for i := 0; i < 5; i++ {
		c.Like(false)
	}
	assert.Equal(t, 0, c.Likes)

	c.Like(true)
	c.Like(true)
	c.Like(false)
	c.Like(false)
	c.Like(false)
	assert.Equal(t, 0, c.Likes)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, domain.CategoryRetry, domain.CategoryOf(&domain.ValidationError{Reason: "x"}))
	assert.Equal(t, domain.CategoryRetry, domain.CategoryOf(domain.ErrDuplicatePending))
	assert.Equal(t, domain.CategoryFinal, domain.CategoryOf(domain.ErrCapacityExceeded))
	assert.Equal(t, domain.CategoryFinal, domain.CategoryOf(domain.ErrInvalidTransition))
	assert.Equal(t, domain.CategoryFinal, domain.CategoryOf(domain.ErrUnauthorized))
}
