package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/backpackers/internal/domain"
)

// createGroupRequest is the body of POST /groups. currentMembers,
// avgBudget, duration and id are derived and have no field here. The
// creator is the authenticated caller.
type createGroupRequest struct {
	GroupName          string                    `json:"groupName"`
	Destination        string                    `json:"destination"`
	StartDate          *openapi_types.Date       `json:"startDate"`
	EndDate            *openapi_types.Date       `json:"endDate"`
	CreatorName        string                    `json:"creatorName,omitempty"`
	MaxMembers         *int                      `json:"maxMembers,omitempty"`
	BudgetRange        *string                   `json:"budgetRange,omitempty"`
	PickupLocation     *string                   `json:"pickupLocation,omitempty"`
	AccommodationType  *string                   `json:"accommodationType,omitempty"`
	MinAge             *int                      `json:"minAge,omitempty"`
	GenderPreference   *string                   `json:"genderPreference,omitempty"`
	TrekkingExperience *string                   `json:"trekkingExperience,omitempty"`
	MandatoryRules     []string                  `json:"mandatoryRules,omitempty"`
	PlanOverview       *string                   `json:"planOverview,omitempty"`
	Itinerary          []string                  `json:"itinerary,omitempty"`
	Activities         []string                  `json:"activities,omitempty"`
	EstimatedCosts     map[string]float64        `json:"estimatedCosts,omitempty"`
	TripType           *string                   `json:"tripType,omitempty"`
	TripSource         *domain.TripSource        `json:"tripSource,omitempty"`
	CoverImage         *string                   `json:"coverImage,omitempty"`
	BikerRequirements  *domain.BikerRequirements `json:"bikerRequirements,omitempty"`
	DocumentsRequired  *domain.DocumentsRequired `json:"documentsRequired,omitempty"`
}

func (req createGroupRequest) toDraft(caller domain.Actor) domain.GroupDraft {
	return domain.GroupDraft{
		GroupName:          req.GroupName,
		Destination:        req.Destination,
		StartDate:          dateToTime(req.StartDate),
		EndDate:            dateToTime(req.EndDate),
		CreatorID:          caller.ID,
		CreatorName:        firstNonEmpty(req.CreatorName, caller.Name),
		MaxMembers:         req.MaxMembers,
		BudgetRange:        req.BudgetRange,
		PickupLocation:     req.PickupLocation,
		AccommodationType:  req.AccommodationType,
		MinAge:             req.MinAge,
		GenderPreference:   req.GenderPreference,
		TrekkingExperience: req.TrekkingExperience,
		MandatoryRules:     req.MandatoryRules,
		PlanOverview:       req.PlanOverview,
		Itinerary:          req.Itinerary,
		Activities:         req.Activities,
		EstimatedCosts:     req.EstimatedCosts,
		TripType:           req.TripType,
		TripSource:         req.TripSource,
		CoverImage:         req.CoverImage,
		BikerRequirements:  req.BikerRequirements,
		DocumentsRequired:  req.DocumentsRequired,
	}
}

// groupResponse renders a group with calendar dates and its effective
// source. The shadowing fields replace the embedded ones in the JSON.
type groupResponse struct {
	domain.Group
	StartDate openapi_types.Date   `json:"startDate"`
	EndDate   openapi_types.Date   `json:"endDate"`
	Source    domain.TripSource    `json:"source"`
	Requests  []domain.JoinRequest `json:"requests,omitempty"`
}

func groupToResponse(g domain.Group) groupResponse {
	return groupResponse{
		Group:     g,
		StartDate: openapi_types.Date{Time: g.StartDate},
		EndDate:   openapi_types.Date{Time: g.EndDate},
		Source:    domain.SourceOf(g),
		Requests:  g.Requests,
	}
}

// Pagination is the metadata block of a paged listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type groupListResponse struct {
	Data       []groupResponse `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

type joinRequestBody struct {
	Note string `json:"note"`
}

type decisionBody struct {
	Decision string `json:"decision"`
}

type roleResponse struct {
	GroupID string      `json:"groupId"`
	UserID  string      `json:"userId"`
	Role    domain.Role `json:"role"`
}

type postCommentBody struct {
	Text        string `json:"text"`
	AvatarColor string `json:"avatarColor,omitempty"`
}

type likeBody struct {
	// Like defaults to true when omitted.
	Like *bool `json:"like"`
}

type sendMessageBody struct {
	Text string `json:"text"`
}

func dateToTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
