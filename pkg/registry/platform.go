package registry

import (
	"sort"
	"strings"
)

// Platform is one (os, architecture, variant) build target published for an
// image tag.
type Platform struct {
	OS           string
	Architecture string
	Variant      string
}

// String returns the slash-joined platform identifier, e.g. "linux/amd64" or
// "linux/arm/v7". Per-arch identification only keeps the variant for arm/v7;
// every other architecture is identified by os/arch alone.
func (p Platform) String() string {
	if p.Architecture == "arm" && p.Variant == "v7" {
		return strings.Join([]string{p.OS, p.Architecture, p.Variant}, "/")
	}
	return p.OS + "/" + p.Architecture
}

// PlatformSet is a set of normalized platform identifier strings. Membership
// is what matters; ordering never does.
type PlatformSet map[string]bool

func NewPlatformSet(platforms ...string) PlatformSet {
	s := PlatformSet{}
	for _, p := range platforms {
		s[p] = true
	}
	return s
}

func (s PlatformSet) Contains(platform string) bool {
	return s[platform]
}

// Covers reports whether every platform in required is in s.
func (s PlatformSet) Covers(required PlatformSet) bool {
	for p := range required {
		if !s[p] {
			return false
		}
	}
	return true
}

// Difference returns the platforms in s that are not in other, sorted.
func (s PlatformSet) Difference(other PlatformSet) []string {
	var missing []string
	for p := range s {
		if !other[p] {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}

// Strings returns the members of the set, sorted.
func (s PlatformSet) Strings() []string {
	members := make([]string, 0, len(s))
	for p := range s {
		members = append(members, p)
	}
	sort.Strings(members)
	return members
}

// ExtractPlatforms maps raw platform descriptors to the subset of the
// required set they cover. Only linux entries are considered, and anything
// outside the required set is discarded, so the result is the intersection
// of the published platforms with the required ones.
func ExtractPlatforms(entries []Platform, required PlatformSet) PlatformSet {
	found := PlatformSet{}
	for _, entry := range entries {
		if entry.OS != "linux" || entry.Architecture == "" {
			continue
		}
		if p := entry.String(); required.Contains(p) {
			found[p] = true
		}
	}
	return found
}
