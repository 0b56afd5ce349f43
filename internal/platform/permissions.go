// Package platform provides the narrowed, cached GitHub client used by
// the reconciler and webhook engine: credential acquisition (§4.1 item
// 2), per-org memoization with explicit invalidation (§4.1 item 3),
// and the AccessLevel <-> platform-permission-bitmap mapping (§3).
package platform

import "github.com/electron/sheriff/internal/config"

// PermissionBitmap is the GitHub "permissions" object returned inline
// on repos/collaborators: independent booleans that are not mutually
// exclusive on the wire, even though exactly one AccessLevel is
// "true" in well-formed responses.
type PermissionBitmap struct {
	Admin    bool
	Maintain bool
	Push     bool
	Triage   bool
	Pull     bool
}

// githubLevelFor maps each AccessLevel to its platform-native string,
// total on both ends per §3.
var githubLevelFor = map[config.AccessLevel]string{
	config.AccessRead:     "pull",
	config.AccessTriage:   "triage",
	config.AccessWrite:    "push",
	config.AccessMaintain: "maintain",
	config.AccessAdmin:    "admin",
}

var sheriffLevelFor = map[string]config.AccessLevel{
	"pull":     config.AccessRead,
	"triage":   config.AccessTriage,
	"push":     config.AccessWrite,
	"maintain": config.AccessMaintain,
	"admin":    config.AccessAdmin,
}

// SheriffLevelToGitHubLevel maps an AccessLevel to the platform-native
// permission string GitHub's APIs expect on the wire.
func SheriffLevelToGitHubLevel(level config.AccessLevel) (string, bool) {
	v, ok := githubLevelFor[level]
	return v, ok
}

// GitHubLevelToSheriffLevel is the left-inverse of
// SheriffLevelToGitHubLevel for any of the five known platform-native
// strings (§8, "sheriffLevelToGitHubLevel(gitHubPermissionsToSheriffLevel(bitmap))
// is a left-inverse").
func GitHubLevelToSheriffLevel(native string) (config.AccessLevel, bool) {
	v, ok := sheriffLevelFor[native]
	return v, ok
}

// DecodeBitmap returns the highest-true flag in the bitmap, checked in
// the fixed precedence order admin, maintain, push, triage, pull (§3).
// Returns ok=false if no flag is set, which should not occur for a
// well-formed platform response but is surfaced rather than panicking.
func DecodeBitmap(b PermissionBitmap) (config.AccessLevel, bool) {
	switch {
	case b.Admin:
		return config.AccessAdmin, true
	case b.Maintain:
		return config.AccessMaintain, true
	case b.Push:
		return config.AccessWrite, true
	case b.Triage:
		return config.AccessTriage, true
	case b.Pull:
		return config.AccessRead, true
	default:
		return "", false
	}
}
