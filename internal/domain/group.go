// Package domain contains the core data types and invariants for the
// backpacker-group lifecycle: the group entity, its membership ledger, the
// join-request state machine and the discussion thread.
// It has no dependency on storage or transport and is imported by every
// other internal package.
package domain

import (
	"math"
	"sort"
	"time"
)

// TripSource classifies who organised a group.
type TripSource string

const (
	// SourceCommunity marks a peer-created group.
	SourceCommunity TripSource = "community"
	// SourceHosted marks an operator/admin-created group.
	SourceHosted TripSource = "hosted"
)

// Valid reports whether s is one of the defined sources.
func (s TripSource) Valid() bool {
	return s == SourceCommunity || s == SourceHosted
}

// Well-known trip types. The set is open: any other non-empty string is
// accepted as a free-text trip type.
const (
	TripTypeTrek     = "trek"
	TripTypeBike     = "bike"
	TripTypeCultural = "cultural"
	TripTypeWellness = "wellness"
	TripTypeOpen     = "open"
)

// ApprovalCriteria is what a host expects from people asking to join.
type ApprovalCriteria struct {
	MinAge             int      `json:"minAge"`
	GenderPreference   string   `json:"genderPreference"`
	TrekkingExperience string   `json:"trekkingExperience"`
	MandatoryRules     []string `json:"mandatoryRules"`
}

// Plan is the trip plan. EstimatedCosts is the itemized cost mapping that
// Group.AvgBudget is derived from.
type Plan struct {
	Overview       string             `json:"overview"`
	Itinerary      []string           `json:"itinerary"`
	Activities     []string           `json:"activities"`
	EstimatedCosts map[string]float64 `json:"estimatedCosts"`
}

// DocumentsRequired lists the paperwork members must bring.
type DocumentsRequired struct {
	Aadhaar          bool `json:"aadhaar"`
	Passport         bool `json:"passport"`
	EmergencyContact bool `json:"emergencyContact"`
}

// BikerRequirements applies to bike trips only.
type BikerRequirements struct {
	LicenseRequired    bool   `json:"licenseRequired"`
	RidingGearRequired bool   `json:"ridingGearRequired"`
	SpeedRules         string `json:"speedRules"`
}

// Badge is a discovery label shown on group cards.
type Badge struct {
	Label string `json:"label"`
	Theme string `json:"theme"`
}

// HostProfile is the richer public profile of the member who created the
// group. Trust signals start at placeholder values and are only changed by
// the profile-edit surface, which lives outside this service.
type HostProfile struct {
	ID                string   `json:"id"`
	Name              string   `json:"name,omitempty"`
	Handle            string   `json:"handle"`
	VerificationLevel string   `json:"verificationLevel"`
	PastTripsHosted   int      `json:"pastTripsHosted"`
	Testimonials      []string `json:"testimonials"`
	Bio               string   `json:"bio"`
	AvatarColor       string   `json:"avatarColor"`
}

// Group is a travel cohort with a capacity, a date window and a plan.
//
// Invariants: 1 <= CurrentMembers <= MaxMembers and
// len(Members) == CurrentMembers. Duration and AvgBudget are derived at
// creation and never edited independently. Members and Requests are only
// mutated through the ledger and join-request methods in this package.
type Group struct {
	ID                string             `json:"id"`
	GroupName         string             `json:"groupName"`
	Destination       string             `json:"destination"`
	StartDate         time.Time          `json:"startDate"`
	EndDate           time.Time          `json:"endDate"`
	Duration          int                `json:"duration"`
	MaxMembers        int                `json:"maxMembers"`
	CurrentMembers    int                `json:"currentMembers"`
	AvgBudget         float64            `json:"avgBudget"`
	BudgetRange       string             `json:"budgetRange"`
	PickupLocation    string             `json:"pickupLocation"`
	AccommodationType string             `json:"accommodationType"`
	ApprovalCriteria  ApprovalCriteria   `json:"approvalCriteria"`
	Plan              Plan               `json:"plan"`
	TripType          string             `json:"tripType"`
	TripSource        TripSource         `json:"tripSource,omitempty"`
	BikerRequirements *BikerRequirements `json:"bikerRequirements,omitempty"`
	DocumentsRequired DocumentsRequired  `json:"documentsRequired"`
	CreatorID         string             `json:"creatorId"`
	CoverImage        string             `json:"coverImage"`
	Verified          bool               `json:"verified"`
	Members           []Member           `json:"members"`
	HostProfile       HostProfile        `json:"hostProfile"`
	Badges            []Badge            `json:"badges"`
	Requests          []JoinRequest      `json:"requests"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// DeriveDuration returns max(1, ceil((end - start) / 1 day)).
// A same-day or inverted range yields 1; this is a floor, not an error.
func DeriveDuration(start, end time.Time) int {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return int(days)
}

// DeriveAvgBudget returns the sum of all itemized costs. An empty mapping
// yields 0. Keys are summed in sorted order so the result does not depend
// on map iteration order.
func DeriveAvgBudget(estimatedCosts map[string]float64) float64 {
	keys := make([]string, 0, len(estimatedCosts))
	for k := range estimatedCosts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var total float64
	for _, k := range keys {
		total += estimatedCosts[k]
	}
	return total
}

// Clone returns a deep copy of g so that a mutator can work on it without
// touching the caller's value.
func (g Group) Clone() Group {
	c := g
	c.ApprovalCriteria.MandatoryRules = cloneStrings(g.ApprovalCriteria.MandatoryRules)
	c.Plan.Itinerary = cloneStrings(g.Plan.Itinerary)
	c.Plan.Activities = cloneStrings(g.Plan.Activities)
	if g.Plan.EstimatedCosts != nil {
		c.Plan.EstimatedCosts = make(map[string]float64, len(g.Plan.EstimatedCosts))
		for k, v := range g.Plan.EstimatedCosts {
			c.Plan.EstimatedCosts[k] = v
		}
	}
	if g.BikerRequirements != nil {
		br := *g.BikerRequirements
		c.BikerRequirements = &br
	}
	c.HostProfile.Testimonials = cloneStrings(g.HostProfile.Testimonials)
	if g.Members != nil {
		c.Members = append([]Member(nil), g.Members...)
	}
	if g.Badges != nil {
		c.Badges = append([]Badge(nil), g.Badges...)
	}
	if g.Requests != nil {
		c.Requests = make([]JoinRequest, len(g.Requests))
		for i, r := range g.Requests {
			c.Requests[i] = r.clone()
		}
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
