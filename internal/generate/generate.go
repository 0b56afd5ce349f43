// Package generate implements the config generator (§6): it reads an
// org's live platform state and produces an OrganizationConfig the
// reconciler would, if applied, leave unchanged.
package generate

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// Generate builds the declared-shape document for org from live
// platform reads. Team membership is immediate (non-inherited), the
// same scope the reconciler itself reasons about (§4.3).
func Generate(ctx context.Context, client platform.Client, org string) (*config.OrganizationConfig, error) {
	out := &config.OrganizationConfig{Organization: org}

	teams, err := client.ListTeams(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	teamSlugByID := make(map[int64]string, len(teams))
	for _, t := range teams {
		teamSlugByID[t.GetID()] = t.GetSlug()
	}
	for _, t := range teams {
		tc, err := generateTeam(ctx, client, org, t)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", t.GetSlug(), err)
		}
		out.Teams = append(out.Teams, tc)
	}
	sort.Slice(out.Teams, func(i, j int) bool { return out.Teams[i].Name < out.Teams[j].Name })

	repos, err := client.ListRepos(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("listing repos: %w", err)
	}
	for _, rp := range repos {
		if rp.GetArchived() {
			continue // archived repos are skipped by reconcile too (§4.2 step 8)
		}
		rc, err := generateRepo(ctx, client, org, rp, teamSlugByID)
		if err != nil {
			return nil, fmt.Errorf("repo %s: %w", rp.GetName(), err)
		}
		out.Repositories = append(out.Repositories, rc)
	}
	sort.Slice(out.Repositories, func(i, j int) bool { return out.Repositories[i].Name < out.Repositories[j].Name })

	props, err := client.ListCustomProperties(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("listing custom properties: %w", err)
	}
	for _, p := range props {
		out.CustomProperties = append(out.CustomProperties, generateProperty(p))
	}
	sort.Slice(out.CustomProperties, func(i, j int) bool {
		return out.CustomProperties[i].PropertyName < out.CustomProperties[j].PropertyName
	})

	return out, nil
}

func generateTeam(ctx context.Context, client platform.Client, org string, t *github.Team) (*config.TeamConfig, error) {
	slug := t.GetSlug()

	members, err := client.TeamMembersByRole(ctx, org, slug, "MEMBER")
	if err != nil {
		return nil, err
	}
	maintainers, err := client.TeamMembersByRole(ctx, org, slug, "MAINTAINER")
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	sort.Strings(maintainers)

	tc := &config.TeamConfig{
		Name:        t.GetName(),
		Members:     members,
		Maintainers: maintainers,
		Secret:      t.GetPrivacy() == "secret",
	}
	if parent := t.GetParent(); parent != nil {
		name := parent.GetName()
		tc.Parent = &name
	}
	return tc, nil
}

func generateRepo(ctx context.Context, client platform.Client, org string, rp *github.Repository, teamSlugByID map[int64]string) (*config.RepositoryConfig, error) {
	name := rp.GetName()
	rc := &config.RepositoryConfig{Name: name}

	if rp.GetPrivate() {
		rc.Visibility = config.VisibilityPrivate
	} else {
		rc.Visibility = config.VisibilityPublic
	}
	rc.Settings = &config.RepositorySettings{HasWiki: github.Bool(rp.GetHasWiki())}

	teams, err := client.ListRepoTeams(ctx, org, name)
	if err != nil {
		return nil, fmt.Errorf("listing repo teams: %w", err)
	}
	rc.Teams = make(map[string]config.AccessLevel, len(teams))
	for _, t := range teams {
		level, ok := platform.GitHubLevelToSheriffLevel(t.GetPermission())
		if !ok {
			continue
		}
		rc.Teams[t.GetSlug()] = level
	}

	collaborators, err := client.ListRepoCollaborators(ctx, org, name)
	if err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}
	rc.ExternalCollaborators = make(map[string]config.AccessLevel)
	for _, u := range collaborators {
		perms := u.Permissions
		level, ok := platform.DecodeBitmap(platform.PermissionBitmap{
			Admin:    perms["admin"],
			Maintain: perms["maintain"],
			Push:     perms["push"],
			Triage:   perms["triage"],
			Pull:     perms["pull"],
		})
		if !ok {
			continue
		}
		rc.ExternalCollaborators[u.GetLogin()] = level
	}

	values, err := client.GetRepoCustomPropertyValues(ctx, org, name)
	if err != nil {
		return nil, fmt.Errorf("listing custom property values: %w", err)
	}
	if len(values) > 0 {
		rc.Properties = make(map[string]config.PropertyValue, len(values))
		for _, v := range values {
			rc.Properties[v.PropertyName] = propertyValueFromWire(v.Value)
		}
	}

	rulesets, err := client.ListRepoRulesets(ctx, org, name)
	if err != nil {
		return nil, fmt.Errorf("listing rulesets: %w", err)
	}
	for _, rs := range rulesets {
		ruleset, ok := generateRuleset(rs, teamSlugByID)
		if !ok {
			continue // rulesets without a ref_name condition have no declared equivalent and are skipped
		}
		rc.Rulesets = append(rc.Rulesets, config.RepoRuleset{Inline: ruleset})
	}

	return rc, nil
}

func generateProperty(p *github.CustomProperty) *config.CustomProperty {
	cp := &config.CustomProperty{
		PropertyName: p.GetPropertyName(),
		ValueType:    config.PropertyType(p.GetValueType()),
		Required:     p.GetRequired(),
		Description:  p.GetDescription(),
	}
	if len(p.AllowedValues) > 0 {
		cp.AllowedValues = append([]string(nil), p.AllowedValues...)
	}
	return cp
}

// ruleTypeToToken is the reverse of ruleset.ruleTypeFor for the
// boolean-shaped rules; PR-review and status-check rules round-trip
// through Normalize/Diff but are not reverse-generated here since they
// carry no single declared token to recover from the wire shape.
var ruleTypeToToken = map[string]config.RuleToken{
	"required_linear_history": config.RuleRequireLinearHist,
	"required_signatures":     config.RuleRequireSignedCommit,
	"creation":                config.RuleRestrictCreation,
	"deletion":                config.RuleRestrictDeletion,
	"update":                  config.RuleRestrictUpdate,
	"non_fast_forward":        config.RuleRestrictForcePush,
}

func generateRuleset(rs *github.RepositoryRuleset, teamSlugByID map[int64]string) (*config.Ruleset, bool) {
	if rs.Conditions == nil || rs.Conditions.RefName == nil {
		return nil, false
	}

	out := &config.Ruleset{
		Name:        rs.Name,
		Target:      config.RulesetTarget(rs.GetTarget()),
		Enforcement: config.Enforcement(rs.Enforcement),
		RefName: config.RefNamePattern{
			Include: append([]string(nil), rs.Conditions.RefName.Include...),
			Exclude: append([]string(nil), rs.Conditions.RefName.Exclude...),
		},
	}

	if rs.Rules != nil {
		for wireType, token := range ruleTypeToToken {
			if ruleIsSet(rs.Rules, wireType) {
				out.Rules = append(out.Rules, token)
			}
		}
		sort.Slice(out.Rules, func(i, j int) bool { return out.Rules[i] < out.Rules[j] })
	}

	if len(rs.BypassActors) > 0 {
		bypass := &config.RulesetBypass{}
		for _, a := range rs.BypassActors {
			if a.ActorType == nil || *a.ActorType != "Team" {
				continue
			}
			if slug, ok := teamSlugByID[a.ActorID]; ok {
				bypass.Teams = append(bypass.Teams, slug)
			}
		}
		if len(bypass.Teams) > 0 {
			sort.Strings(bypass.Teams)
			out.Bypass = bypass
		}
	}

	return out, true
}

func ruleIsSet(rules *github.RepositoryRulesetRules, wireType string) bool {
	switch wireType {
	case "required_linear_history":
		return rules.RequiredLinearHistory != nil
	case "required_signatures":
		return rules.RequiredSignatures != nil
	case "creation":
		return rules.Creation != nil
	case "deletion":
		return rules.Deletion != nil
	case "update":
		return rules.Update != nil
	case "non_fast_forward":
		return rules.NonFastForward != nil
	}
	return false
}

func propertyValueFromWire(v interface{}) config.PropertyValue {
	switch val := v.(type) {
	case string:
		return config.PropertyValue{Scalar: &val}
	case []string:
		return config.PropertyValue{Multi: val}
	case []interface{}:
		multi := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok {
				multi = append(multi, s)
			}
		}
		return config.PropertyValue{Multi: multi}
	default:
		return config.PropertyValue{}
	}
}
