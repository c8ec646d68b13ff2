package domain

import "fmt"

// Role is a member's position in a group.
type Role string

const (
	RoleHost   Role = "host"
	RoleCoHost Role = "co-host"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleHost, RoleCoHost, RoleMember:
		return true
	}
	return false
}

// CanModerate reports whether the role may decide join requests and view
// the roster.
func (r Role) CanModerate() bool {
	return r == RoleHost || r == RoleCoHost
}

// Member is one entry of a group's member list. Members only exist inside
// their group.
type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarColor string `json:"avatarColor"`
	Role        Role   `json:"role"`
	Expertise   string `json:"expertise"`
	// JoinRequestID links a member to the request that admitted them.
	// Empty for the host.
	JoinRequestID string `json:"joinRequestId,omitempty"`
}

// AddMember appends m to the member list and increments CurrentMembers.
// It is the only mutator of CurrentMembers.
//
// Fails with ErrCapacityExceeded when the group is full and with
// ErrAlreadyMember when m.ID is already listed. On failure g is unchanged.
func (g *Group) AddMember(m Member) error {
	if err := g.CheckInvariants(); err != nil {
		return err
	}
	if g.CurrentMembers >= g.MaxMembers {
		return ErrCapacityExceeded
	}
	if g.HasMember(m.ID) {
		return ErrAlreadyMember
	}
	if !m.Role.Valid() {
		return &ValidationError{Reason: "unknown role", Fields: []string{"role"}}
	}
	if m.Role == RoleHost {
		// The host is set once, at creation.
		return &ValidationError{Reason: "a group has exactly one host", Fields: []string{"role"}}
	}

	g.Members = append(g.Members, m)
	g.CurrentMembers++
	return g.CheckInvariants()
}

// RoleOf returns the role of userID within g, or ErrNotFound.
func (g Group) RoleOf(userID string) (Role, error) {
	for _, m := range g.Members {
		if m.ID == userID {
			return m.Role, nil
		}
	}
	return "", ErrNotFound
}

// HasMember reports whether userID is on the member list.
func (g Group) HasMember(userID string) bool {
	_, err := g.RoleOf(userID)
	return err == nil
}

// IsFull reports whether no seat is left.
func (g Group) IsFull() bool {
	return g.CurrentMembers >= g.MaxMembers
}

// CheckInvariants verifies 1 <= CurrentMembers <= MaxMembers and
// len(Members) == CurrentMembers.
func (g Group) CheckInvariants() error {
	if g.CurrentMembers < 1 || g.CurrentMembers > g.MaxMembers {
		return fmt.Errorf("group %s: current members %d outside [1, %d]", g.ID, g.CurrentMembers, g.MaxMembers)
	}
	if len(g.Members) != g.CurrentMembers {
		return fmt.Errorf("group %s: %d members listed but current members is %d", g.ID, len(g.Members), g.CurrentMembers)
	}
	return nil
}
