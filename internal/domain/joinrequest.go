package domain

import (
	"fmt"
	"time"
)

// JoinRequestStatus is the state of a join request.
// pending -> approved and pending -> rejected are the only transitions;
// approved and rejected are terminal.
type JoinRequestStatus string

const (
	StatusPending  JoinRequestStatus = "pending"
	StatusApproved JoinRequestStatus = "approved"
	StatusRejected JoinRequestStatus = "rejected"
)

// Terminal reports whether no transition leaves s.
func (s JoinRequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseDecision validates a decision supplied by a caller.
func ParseDecision(s string) (JoinRequestStatus, error) {
	switch JoinRequestStatus(s) {
	case StatusApproved, StatusRejected:
		return JoinRequestStatus(s), nil
	}
	return "", &ValidationError{Reason: fmt.Sprintf("decision must be %q or %q", StatusApproved, StatusRejected), Fields: []string{"decision"}}
}

// JoinRequest is an application to join a group.
type JoinRequest struct {
	ID        string            `json:"id"`
	GroupID   string            `json:"groupId"`
	UserID    string            `json:"userId"`
	UserName  string            `json:"userName,omitempty"`
	Status    JoinRequestStatus `json:"status"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	DecidedAt *time.Time        `json:"decidedAt,omitempty"`
}

func (r JoinRequest) clone() JoinRequest {
	c := r
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		c.DecidedAt = &at
	}
	return c
}

// Transition moves r from pending to the given terminal status.
// Any other move fails with ErrInvalidTransition.
func (r *JoinRequest) Transition(to JoinRequestStatus, at time.Time) error {
	if r.Status != StatusPending || !to.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	r.DecidedAt = &at
	return nil
}

// Request returns the join request with the given id.
func (g Group) Request(id string) (JoinRequest, error) {
	for _, r := range g.Requests {
		if r.ID == id {
			return r, nil
		}
	}
	return JoinRequest{}, ErrNotFound
}

// PendingRequestFor returns the pending request userID has for g, if any.
func (g Group) PendingRequestFor(userID string) (JoinRequest, bool) {
	for _, r := range g.Requests {
		if r.UserID == userID && r.Status == StatusPending {
			return r, true
		}
	}
	return JoinRequest{}, false
}

// SubmitRequest records a new pending request.
//
// Fails with ErrDuplicatePending if the same user already has one pending,
// ErrAlreadyMember if the user is on the member list and
// ErrCapacityExceeded if no seat is left. On failure g is unchanged.
func (g *Group) SubmitRequest(req JoinRequest) error {
	if g.HasMember(req.UserID) {
		return ErrAlreadyMember
	}
	if _, ok := g.PendingRequestFor(req.UserID); ok {
		return ErrDuplicatePending
	}
	if g.IsFull() {
		return ErrCapacityExceeded
	}
	req.GroupID = g.ID
	req.Status = StatusPending
	g.Requests = append(g.Requests, req)
	return nil
}

// DecideRequest applies decision to the request with the given id.
// Approving adds newMember through AddMember; if that fails the request
// stays pending and g is left exactly as it was.
func (g *Group) DecideRequest(requestID string, decision JoinRequestStatus, newMember Member, at time.Time) (JoinRequest, error) {
	idx := -1
	for i, r := range g.Requests {
		if r.ID == requestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return JoinRequest{}, ErrNotFound
	}

	req := g.Requests[idx].clone()
	if err := req.Transition(decision, at); err != nil {
		return JoinRequest{}, err
	}

	if decision == StatusApproved {
		staged := g.Clone()
		newMember.ID = req.UserID
		newMember.JoinRequestID = req.ID
		if err := staged.AddMember(newMember); err != nil {
			return JoinRequest{}, err
		}
		staged.Requests[idx] = req
		*g = staged
		return req, nil
	}

	g.Requests[idx] = req
	return req, nil
}
