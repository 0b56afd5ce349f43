package webhook

import (
	"regexp"

	"github.com/electron/sheriff/internal/alert"
)

// releaseLineBranch matches a branch name convention for release
// branches, e.g. "1-2-x" or "1-x-y" (§4.7 table, "delete branch
// matching release-line regex").
var releaseLineBranch = regexp.MustCompile(`(^[0-9]+-[0-9]+-x$)|(^[0-9]+-x-y$)`)

// suppressSelfEvents is the set of event types that don't alert when
// fired by the bot's own account (§4.7, "self-events ... suppress
// alerting").
var suppressSelfEvents = map[string]bool{
	"repository.deleted":  true,
	"repository.archived": true,
	"public":              true,
}

func (s *Server) suppressed(eventKey, sender string) bool {
	return s.SelfLogin != "" && sender == s.SelfLogin && suppressSelfEvents[eventKey]
}

// organizationSeverity maps an organization event action to its
// severity (§4.7 table row "organization.member_invited/added/removed/renamed").
func organizationSeverity(action string) (alert.Severity, bool) {
	switch action {
	case "member_invited", "member_added", "member_removed":
		return alert.SeverityNormal, true
	case "renamed":
		return alert.SeverityCritical, true
	default:
		return "", false
	}
}

// patRequestSeverity maps a personal_access_token_request action to
// its severity (§4.7 table).
func patRequestSeverity(action string) (alert.Severity, bool) {
	switch action {
	case "created":
		return alert.SeverityNormal, true
	case "approved":
		return alert.SeverityWarning, true
	default:
		return "", false
	}
}
