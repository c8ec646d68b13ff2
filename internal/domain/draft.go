package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Defaults applied by GroupDraft.Resolve when an optional field is unset.
const (
	DefaultMaxMembers         = 10
	DefaultBudgetRange        = "₹20k - ₹40k"
	DefaultPickupLocation     = "To be decided"
	DefaultAccommodationType  = "Hostels"
	DefaultMinAge             = 18
	DefaultGenderPreference   = "any"
	DefaultTrekkingExperience = "beginner"
	DefaultPlanOverview       = "Host will update the plan soon"
	DefaultTripType           = TripTypeOpen

	MaxGroupNameLength = 100
	MinCapacity        = 2
	MaxCapacity        = 50
	MinAllowedAge      = 18
	MaxAllowedAge      = 80
)

// GroupDraft is the caller-supplied input of the creation workflow.
// Pointer and nil fields are optional; Resolve fills them with defaults.
type GroupDraft struct {
	GroupName   string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatorID   string
	CreatorName string

	MaxMembers         *int
	BudgetRange        *string
	PickupLocation     *string
	AccommodationType  *string
	MinAge             *int
	GenderPreference   *string
	TrekkingExperience *string
	MandatoryRules     []string
	PlanOverview       *string
	Itinerary          []string
	Activities         []string
	EstimatedCosts     map[string]float64
	TripType           *string
	TripSource         *TripSource
	CoverImage         *string
	BikerRequirements  *BikerRequirements
	DocumentsRequired  *DocumentsRequired
}

// GroupSettings is a GroupDraft after defaulting and validation: every
// field is set.
type GroupSettings struct {
	GroupName         string
	Destination       string
	StartDate         time.Time
	EndDate           time.Time
	CreatorID         string
	CreatorName       string
	MaxMembers        int
	BudgetRange       string
	PickupLocation    string
	AccommodationType string
	ApprovalCriteria  ApprovalCriteria
	Plan              Plan
	TripType          string
	TripSource        TripSource
	CoverImage        string
	BikerRequirements *BikerRequirements
	DocumentsRequired DocumentsRequired
}

// Resolve checks required fields, applies defaults to every optional field
// and validates structural limits. Missing required fields are reported
// together in a single *ValidationError.
func (d GroupDraft) Resolve() (GroupSettings, error) {
	var missing []string
	if strings.TrimSpace(d.GroupName) == "" {
		missing = append(missing, "groupName")
	}
	if strings.TrimSpace(d.Destination) == "" {
		missing = append(missing, "destination")
	}
	if d.StartDate == nil || d.StartDate.IsZero() {
		missing = append(missing, "startDate")
	}
	if d.EndDate == nil || d.EndDate.IsZero() {
		missing = append(missing, "endDate")
	}
	if strings.TrimSpace(d.CreatorID) == "" {
		missing = append(missing, "creatorId")
	}
	if len(missing) > 0 {
		return GroupSettings{}, &ValidationError{Reason: "missing required fields", Fields: missing}
	}

	s := GroupSettings{
		GroupName:         strings.TrimSpace(d.GroupName),
		Destination:       strings.TrimSpace(d.Destination),
		StartDate:         *d.StartDate,
		EndDate:           *d.EndDate,
		CreatorID:         strings.TrimSpace(d.CreatorID),
		CreatorName:       strings.TrimSpace(d.CreatorName),
		MaxMembers:        intOr(d.MaxMembers, DefaultMaxMembers),
		BudgetRange:       stringOr(d.BudgetRange, DefaultBudgetRange),
		PickupLocation:    stringOr(d.PickupLocation, DefaultPickupLocation),
		AccommodationType: stringOr(d.AccommodationType, DefaultAccommodationType),
		ApprovalCriteria: ApprovalCriteria{
			MinAge:             intOr(d.MinAge, DefaultMinAge),
			GenderPreference:   strings.ToLower(stringOr(d.GenderPreference, DefaultGenderPreference)),
			TrekkingExperience: strings.ToLower(stringOr(d.TrekkingExperience, DefaultTrekkingExperience)),
			MandatoryRules:     listOr(d.MandatoryRules, "Travel responsibly"),
		},
		Plan: Plan{
			Overview:       stringOr(d.PlanOverview, DefaultPlanOverview),
			Itinerary:      listOr(d.Itinerary, "Day 1: Welcome and orientation"),
			Activities:     listOr(d.Activities, "Icebreaker session"),
			EstimatedCosts: maps.Clone(d.EstimatedCosts),
		},
		TripType:          strings.ToLower(stringOr(d.TripType, DefaultTripType)),
		TripSource:        SourceCommunity,
		CoverImage:        stringOr(d.CoverImage, ""),
		BikerRequirements: d.BikerRequirements,
		DocumentsRequired: DocumentsRequired{Aadhaar: true, EmergencyContact: true},
	}
	if s.CreatorName == "" {
		s.CreatorName = s.CreatorID
	}
	if len(s.Plan.EstimatedCosts) == 0 && d.EstimatedCosts == nil {
		s.Plan.EstimatedCosts = map[string]float64{"stay": 10000}
	}
	if d.TripSource != nil {
		s.TripSource = *d.TripSource
	}
	if d.DocumentsRequired != nil {
		s.DocumentsRequired = *d.DocumentsRequired
	}

	if err := s.validate(); err != nil {
		return GroupSettings{}, err
	}
	return s, nil
}

func (s GroupSettings) validate() error {
	var fields, reasons []string
	add := func(field, reason string) {
		fields = append(fields, field)
		reasons = append(reasons, reason)
	}

	if len([]rune(s.GroupName)) > MaxGroupNameLength {
		add("groupName", fmt.Sprintf("groupName cannot exceed %d characters", MaxGroupNameLength))
	}
	if s.MaxMembers < MinCapacity || s.MaxMembers > MaxCapacity {
		add("maxMembers", fmt.Sprintf("maxMembers must be between %d and %d", MinCapacity, MaxCapacity))
	}
	if s.ApprovalCriteria.MinAge < MinAllowedAge || s.ApprovalCriteria.MinAge > MaxAllowedAge {
		add("minAge", fmt.Sprintf("minAge must be between %d and %d", MinAllowedAge, MaxAllowedAge))
	}
	switch s.ApprovalCriteria.GenderPreference {
	case "any", "male", "female":
	default:
		add("genderPreference", "genderPreference must be any, male or female")
	}
	switch s.ApprovalCriteria.TrekkingExperience {
	case "beginner", "intermediate", "advanced":
	default:
		add("trekkingExperience", "trekkingExperience must be beginner, intermediate or advanced")
	}
	if strings.TrimSpace(s.TripType) == "" {
		add("tripType", "tripType cannot be blank")
	}
	if !s.TripSource.Valid() {
		add("tripSource", "tripSource must be community or hosted")
	}
	for _, item := range slices.Sorted(maps.Keys(s.Plan.EstimatedCosts)) {
		if s.Plan.EstimatedCosts[item] < 0 {
			add("estimatedCosts."+item, "estimated costs cannot be negative")
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Reason: strings.Join(reasons, "; "), Fields: fields}
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return strings.TrimSpace(*v)
}

func listOr(v []string, fallback ...string) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
