// Package ruleset converts a declared ruleset into the upstream wire
// shape and computes a structural/textual diff against the observed
// ruleset (§4.6).
package ruleset

import (
	"sort"
	"strconv"

	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/config"
)

// ruleTypeFor maps a declared rule token to the upstream rule type
// name (§4.6 normalization table).
var ruleTypeFor = map[config.RuleToken]string{
	config.RuleRequireLinearHist:   "required_linear_history",
	config.RuleRequireSignedCommit: "required_signatures",
	config.RuleRestrictCreation:    "creation",
	config.RuleRestrictDeletion:    "deletion",
	config.RuleRestrictUpdate:      "update",
	config.RuleRestrictForcePush:   "non_fast_forward",
}

// Normalize projects a declared Ruleset into the shape the platform's
// ruleset API expects: a sorted rules struct, sorted bypass actors
// with resolved team IDs, and default-backfilled sub-objects (§4.6).
func Normalize(rs *config.Ruleset, teamIDsBySlug map[string]int64) *github.RepositoryRuleset {
	target := string(rs.Target)
	enforcement := string(rs.Enforcement)
	if enforcement == "" {
		enforcement = string(config.EnforcementActive)
	}

	out := &github.RepositoryRuleset{
		Name:        rs.Name,
		Target:      &target,
		Enforcement: enforcement,
		Conditions: &github.RulesetConditions{
			RefName: &github.RulesetRefConditionParameters{
				Include: append([]string(nil), rs.RefName.Include...),
				Exclude: append([]string(nil), rs.RefName.Exclude...),
			},
		},
		Rules: normalizeRules(rs),
	}
	if out.Conditions.RefName.Exclude == nil {
		out.Conditions.RefName.Exclude = []string{}
	}

	if rs.Bypass != nil {
		out.BypassActors = normalizeBypass(rs.Bypass, teamIDsBySlug)
	}

	return out
}

func normalizeRules(rs *config.Ruleset) *github.RepositoryRulesetRules {
	rules := &github.RepositoryRulesetRules{}

	tokens := append([]config.RuleToken(nil), rs.Rules...)
	sort.Slice(tokens, func(i, j int) bool { return ruleTypeFor[tokens[i]] < ruleTypeFor[tokens[j]] })

	for _, token := range tokens {
		switch ruleTypeFor[token] {
		case "required_linear_history":
			rules.RequiredLinearHistory = &github.EmptyRuleParameters{}
		case "required_signatures":
			rules.RequiredSignatures = &github.EmptyRuleParameters{}
		case "creation":
			rules.Creation = &github.EmptyRuleParameters{}
		case "deletion":
			rules.Deletion = &github.EmptyRuleParameters{}
		case "update":
			rules.Update = &github.UpdateRuleParameters{}
		case "non_fast_forward":
			rules.NonFastForward = &github.EmptyRuleParameters{}
		}
	}

	if rs.RequirePullRequest != nil {
		rules.PullRequest = normalizePullRequest(rs.RequirePullRequest)
	}

	if len(rs.RequireStatusChecks) > 0 {
		rules.RequiredStatusChecks = normalizeStatusChecks(rs.RequireStatusChecks)
	}

	return rules
}

func normalizePullRequest(pr *config.RequirePullRequest) *github.PullRequestRuleParameters {
	out := &github.PullRequestRuleParameters{
		DismissStaleReviewsOnPush:      boolOr(pr.DismissStaleReviewsOnPush, false),
		RequireCodeOwnerReview:         boolOr(pr.RequireCodeOwnerReview, false),
		RequireLastPushApproval:        boolOr(pr.RequireLastPushApproval, false),
		RequiredApprovingReviewCount:   intOr(pr.RequiredApprovingReviewCount, 0),
		RequiredReviewThreadResolution: boolOr(pr.RequiredReviewThreadResolution, false),
		AllowedMergeMethods:            pr.AllowedMergeMethods,
	}
	if len(out.AllowedMergeMethods) == 0 {
		out.AllowedMergeMethods = []string{"squash"}
	}
	return out
}

func normalizeStatusChecks(checks []config.RequiredStatusCheck) *github.RequiredStatusChecksRuleParameters {
	out := &github.RequiredStatusChecksRuleParameters{
		StrictRequiredStatusChecksPolicy: false,
	}
	for _, c := range checks {
		entry := github.RuleRequiredStatusChecks{Context: c.Context}
		if c.AppID != nil {
			entry.IntegrationID = c.AppID
		}
		out.RequiredStatusChecks = append(out.RequiredStatusChecks, entry)
	}
	return out
}

func normalizeBypass(bypass *config.RulesetBypass, teamIDsBySlug map[string]int64) []*github.BypassActor {
	var actors []*github.BypassActor
	mode := "always"

	for _, appID := range bypass.Apps {
		// Apps are declared by numeric integration ID directly: resolving
		// an app slug to its ID is an extra live lookup this normalizer
		// has no client to make, so config declares the ID up front.
		id, err := strconv.ParseInt(appID, 10, 64)
		if err != nil {
			continue
		}
		actorType := "Integration"
		actors = append(actors, &github.BypassActor{
			ActorID:    id,
			ActorType:  &actorType,
			BypassMode: &mode,
		})
	}
	for _, slug := range bypass.Teams {
		id, ok := teamIDsBySlug[slug]
		if !ok {
			continue // unresolved team is reported as a validation failure upstream, not here
		}
		actorType := "Team"
		actors = append(actors, &github.BypassActor{
			ActorID:    id,
			ActorType:  &actorType,
			BypassMode: &mode,
		})
	}

	sort.Slice(actors, func(i, j int) bool {
		ti, tj := *actors[i].ActorType, *actors[j].ActorType
		if ti != tj {
			return ti < tj
		}
		return actors[i].ActorID < actors[j].ActorID
	})

	return actors
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
