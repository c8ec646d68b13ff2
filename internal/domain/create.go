package domain

import (
	"hash/fnv"
	"strings"
	"time"
)

// Placeholder values for new members, host profiles and badges.
const (
	HostAvatarColor     = "#34d399"
	HostExpertise       = "Trip curator"
	MemberAvatarColor   = "#c084fc"
	MemberExpertise     = "Explorer"
	PendingVerification = "Pending verification"
	DefaultHostBio      = "Host will update their bio soon."
	CommunityBetaBadge  = "Community beta"
	communityBadgeTheme = "emerald"
	tripTypeBadgeTheme  = "sky"
	tripTypeBadgeSuffix = " crew"
)

// coverPool holds the stock covers used when a host uploads none.
var coverPool = []string{
	"/Destinations/Des1.jpeg",
	"/Destinations/Des2.jpg",
	"/Destinations/Des3.webp",
	"/Destinations/Des4.jpeg",
	"/Destinations/Des5.jpeg",
	"/Destinations/Des6.webp",
	"/Destinations/Des7.jpeg",
}

// StockCover picks a stock cover for a group id. The same id always gets
// the same cover.
func StockCover(groupID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(groupID))
	return coverPool[h.Sum32()%uint32(len(coverPool))]
}

// NewGroup assembles a complete Group from resolved settings: derived
// fields, the initiating host member, the host profile and the default
// discovery badges. The result satisfies every ledger invariant and is ready
// to be persisted in a single write.
func NewGroup(id string, s GroupSettings, now time.Time) Group {
	host := Member{
		ID:          s.CreatorID,
		Name:        s.CreatorName,
		AvatarColor: HostAvatarColor,
		Role:        RoleHost,
		Expertise:   HostExpertise,
	}

	cover := s.CoverImage
	if cover == "" {
		cover = StockCover(id)
	}

	return Group{
		ID:                id,
		GroupName:         s.GroupName,
		Destination:       s.Destination,
		StartDate:         s.StartDate,
		EndDate:           s.EndDate,
		Duration:          DeriveDuration(s.StartDate, s.EndDate),
		MaxMembers:        s.MaxMembers,
		CurrentMembers:    1,
		AvgBudget:         DeriveAvgBudget(s.Plan.EstimatedCosts),
		BudgetRange:       s.BudgetRange,
		PickupLocation:    s.PickupLocation,
		AccommodationType: s.AccommodationType,
		ApprovalCriteria:  s.ApprovalCriteria,
		Plan:              s.Plan,
		TripType:          s.TripType,
		TripSource:        s.TripSource,
		BikerRequirements: s.BikerRequirements,
		DocumentsRequired: s.DocumentsRequired,
		CreatorID:         s.CreatorID,
		CoverImage:        cover,
		Members:           []Member{host},
		HostProfile:       NewHostProfile(s.CreatorID, s.CreatorName, s.TripSource),
		Badges:            DefaultBadges(s.TripType),
		Requests:          []JoinRequest{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewHostProfile projects the creator into a profile with zeroed trust
// signals.
func NewHostProfile(creatorID, creatorName string, source TripSource) HostProfile {
	level := PendingVerification
	if source == SourceHosted {
		level = OfficialHostLevel
	}
	name := creatorName
	if name == "" {
		name = creatorID
	}
	return HostProfile{
		ID:                creatorID,
		Name:              name,
		Handle:            HandleFrom(name),
		VerificationLevel: level,
		PastTripsHosted:   0,
		Testimonials:      []string{},
		Bio:               DefaultHostBio,
		AvatarColor:       HostAvatarColor,
	}
}

// DefaultBadges returns the static community badge followed by one badge
// derived from the trip type.
func DefaultBadges(tripType string) []Badge {
	label := strings.TrimSpace(tripType)
	if label == "" {
		label = TripTypeOpen
	}
	return []Badge{
		{Label: CommunityBetaBadge, Theme: communityBadgeTheme},
		{Label: label + tripTypeBadgeSuffix, Theme: tripTypeBadgeTheme},
	}
}

// NewMemberFromRequest builds the member record an approved request turns
// into.
func NewMemberFromRequest(r JoinRequest) Member {
	name := r.UserName
	if name == "" {
		name = r.UserID
	}
	return Member{
		ID:            r.UserID,
		Name:          name,
		AvatarColor:   MemberAvatarColor,
		Role:          RoleMember,
		Expertise:     MemberExpertise,
		JoinRequestID: r.ID,
	}
}
