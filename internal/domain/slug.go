package domain

import (
	"strconv"
	"strings"
	"time"
)

// SlugBase lower-cases name, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
// "Desert Campfire Collective!!" becomes "desert-campfire-collective".
func SlugBase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// InstantSuffix is the base-36 encoding of t in milliseconds since the epoch.
func InstantSuffix(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}

// BuildSlugID joins the slug base of groupName with a suffix derived from
// the creation instant. Two calls with instants at least one millisecond
// apart always yield different ids.
func BuildSlugID(groupName string, creationInstant time.Time) string {
	return JoinSlug(groupName, InstantSuffix(creationInstant))
}

// JoinSlug appends suffix to the slug base of groupName. A name with no
// alphanumeric characters falls back to the base "group".
func JoinSlug(groupName, suffix string) string {
	base := SlugBase(groupName)
	if base == "" {
		base = "group"
	}
	return base + "-" + suffix
}

// HandleFrom builds a public handle such as "@priyasharma" from a display
// name by lower-casing it and dropping everything outside [a-z0-9].
func HandleFrom(displayName string) string {
	var b strings.Builder
	b.WriteByte('@')
	for _, r := range strings.ToLower(displayName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
