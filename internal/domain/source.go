package domain

import "strings"

// OfficialHostLevel is the verification level given to operator hosts.
const OfficialHostLevel = "Official Host"

// SourceOf classifies g as hosted or community. An explicit TripSource tag
// wins; untagged records fall back to LegacySource.
func SourceOf(g Group) TripSource {
	if g.TripSource.Valid() {
		return g.TripSource
	}
	return LegacySource(g)
}

// LegacySource reproduces the classification used before groups carried an
// explicit tag: a group is hosted when its creator id contains "admin"
// (case-insensitive) or its host profile is an Official Host.
//
// The substring rule can misclassify a community host whose id happens to
// contain "admin". It is kept only so records created before the tag
// existed keep their classification.
func LegacySource(g Group) TripSource {
	if strings.Contains(strings.ToLower(g.CreatorID), "admin") ||
		g.HostProfile.VerificationLevel == OfficialHostLevel {
		return SourceHosted
	}
	return SourceCommunity
}
