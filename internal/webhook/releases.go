package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/alert"
)

// ReleaserPolicy is one entry of SHERIFF_TRUSTED_RELEASER_POLICIES
// (§4.7.2, §6).
type ReleaserPolicy struct {
	Repository    string   `json:"repository"`
	Releaser      string   `json:"releaser"`
	MustMatchRepo string   `json:"mustMatchRepo"`
	Actions       []string `json:"actions"`
}

// ParseReleaserPolicies decodes SHERIFF_TRUSTED_RELEASER_POLICIES.
func ParseReleaserPolicies(raw string) ([]ReleaserPolicy, error) {
	if raw == "" {
		return nil, nil
	}
	var policies []ReleaserPolicy
	if err := json.Unmarshal([]byte(raw), &policies); err != nil {
		return nil, fmt.Errorf("decoding SHERIFF_TRUSTED_RELEASER_POLICIES: %w", err)
	}
	return policies, nil
}

func (p ReleaserPolicy) matches(repo, releaser, action string) bool {
	return p.Repository == repo && p.Releaser == releaser && containsString(p.Actions, action)
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

// defaultReleaseSeverity maps a release action to severity when no
// trusted-releaser policy applies (§4.7.2, "otherwise map action to
// severity").
func defaultReleaseSeverity(action string) (alert.Severity, bool) {
	switch action {
	case "deleted":
		return alert.SeverityCritical, true
	case "unpublished", "edited":
		return alert.SeverityWarning, true
	case "created", "published", "prereleased":
		return alert.SeverityNormal, true
	default:
		return "", false
	}
}

// handleRelease implements §4.7.2 in full: trusted-sender drop, then
// policy-matched cross-repo tag verification, then the default action
// severity map.
func (s *Server) handleRelease(ctx context.Context, ev *github.ReleaseEvent, raw map[string]interface{}) {
	sender := ev.GetSender().GetLogin()
	if s.TrustedReleasers[sender] {
		return
	}

	action := ev.GetAction()
	repo := ev.GetRepo().GetName()
	tag := ev.GetRelease().GetTagName()

	severity, ok := defaultReleaseSeverity(action)
	if !ok {
		return
	}

	for _, policy := range s.ReleaserPolicies {
		if !policy.matches(repo, sender, action) {
			continue
		}
		org := ev.GetRepo().GetOwner().GetLogin()
		client, err := s.Clients.Get(ctx, org, true)
		if err != nil {
			s.Log.WithError(err).Error("acquiring client for release policy check failed")
			continue
		}
		release, err := client.GetReleaseByTag(ctx, org, policy.MustMatchRepo, tag)
		if err != nil {
			s.Log.WithError(err).Warn("checking mustMatchRepo release failed")
			continue
		}
		if release != nil {
			return // matching upstream release found, trust this one
		}
		severity = alert.SeverityCritical // no matching release: rogue automated release
		break
	}

	b := alert.NewBuilder().
		Text(severity, fmt.Sprintf("Release `%s` %s on `%s` by `%s`", tag, action, repo, sender)).
		EventMetadata("release", raw)
	_ = s.Alerts.Flush(ctx, b)
}
