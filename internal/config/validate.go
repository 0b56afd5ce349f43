package config

import "sort"

var validAccessLevels = map[AccessLevel]bool{
	AccessRead: true, AccessTriage: true, AccessWrite: true, AccessMaintain: true, AccessAdmin: true,
}

// Validate runs the schema checks and the cross-entity integrity
// checks from §4.1 against an already-normalized OrganizationConfig
// (formations/references expanded, ruleset refs resolved). It returns
// a single aggregate error naming every violation found, not just the
// first, so a config author sees the whole list in one run.
func Validate(org *OrganizationConfig) error {
	var errs Errors
	validateTeams(org, &errs)
	validateRepos(org, &errs)
	validateCustomProperties(org, &errs)
	return errs.Err()
}

func validateTeams(org *OrganizationConfig, errs *Errors) {
	seen := map[string]bool{}
	for _, t := range org.Teams {
		if t.Name == "" {
			errs.invalid("team", org.Organization, "", "team name must be non-empty")
			continue
		}
		if seen[t.Name] {
			errs.invalid("team", org.Organization, t.Name, "duplicate team name")
		}
		seen[t.Name] = true

		if len(t.Maintainers) == 0 {
			errs.invalid("team", org.Organization, t.Name, "must have at least one maintainer")
		}
		overlap := intersect(t.Members, t.Maintainers)
		if len(overlap) > 0 {
			errs.invalid("team", org.Organization, t.Name, "members and maintainers overlap: %v", overlap)
		}
		if t.Gsuite != nil {
			if t.Gsuite.Privacy != GsuitePrivacyInternal && t.Gsuite.Privacy != GsuitePrivacyExternal {
				errs.invalid("team", org.Organization, t.Name, "gsuite.privacy must be internal or external")
			}
			if t.DisplayName == nil {
				errs.invalid("team", org.Organization, t.Name, "gsuite requires displayName")
			}
		}
		if t.Secret && t.Parent != nil {
			errs.invalid("team", org.Organization, t.Name, "a secret team may not have a parent")
		}
	}

	// Parent existence, not-secret, and cycle detection. A team with
	// parent == itself is a length-1 cycle and is caught by the same
	// walk (§8, "Team with parent = self (cycle of length 1)").
	byName := map[string]*TeamConfig{}
	for _, t := range org.Teams {
		byName[t.Name] = t
	}
	for _, t := range org.Teams {
		if t.Parent == nil {
			continue
		}
		parent, ok := byName[*t.Parent]
		if !ok {
			errs.invalid("team", org.Organization, t.Name, "parent %q does not exist", *t.Parent)
			continue
		}
		if parent.Secret {
			errs.invalid("team", org.Organization, t.Name, "parent %q is secret and may not be a parent", *t.Parent)
		}
		if cycle := findParentCycle(t.Name, byName); cycle != nil {
			errs.invalid("team", org.Organization, t.Name, "parent chain forms a cycle: %v", cycle)
		}
	}
}

// findParentCycle walks the parent chain starting at name and returns
// the cycle (as a slice of team names) if one is found, else nil.
func findParentCycle(name string, byName map[string]*TeamConfig) []string {
	visited := map[string]bool{}
	path := []string{name}
	cur := name
	for {
		t, ok := byName[cur]
		if !ok || t.Parent == nil {
			return nil
		}
		if visited[cur] {
			return path
		}
		visited[cur] = true
		cur = *t.Parent
		path = append(path, cur)
		if cur == name {
			return path
		}
		if len(path) > len(byName)+1 {
			// Defensive bound; a well-formed forest can't need more
			// hops than there are teams.
			return path
		}
	}
}

func validateRepos(org *OrganizationConfig, errs *Errors) {
	seen := map[string]bool{}
	teamNames := map[string]bool{}
	for _, t := range org.Teams {
		teamNames[t.Name] = true
	}

	for _, r := range org.Repositories {
		if r.Name == "" {
			errs.invalid("repo", org.Organization, "", "repo name must be non-empty")
			continue
		}
		if seen[r.Name] {
			errs.invalid("repo", org.Organization, r.Name, "duplicate repo name")
		}
		seen[r.Name] = true

		for team, level := range r.Teams {
			if !teamNames[team] {
				errs.invalid("repo", org.Organization, r.Name, "team %q is not declared in this org", team)
			}
			if !validAccessLevels[level] {
				errs.invalid("repo", org.Organization, r.Name, "team %q has invalid access level %q", team, level)
			}
		}
		for login, level := range r.ExternalCollaborators {
			if !validAccessLevels[level] {
				errs.invalid("repo", org.Organization, r.Name, "external collaborator %q has invalid access level %q", login, level)
			}
		}

		rulesetNames := map[string]bool{}
		for _, rr := range r.Rulesets {
			if rr.Inline == nil {
				continue
			}
			rs := rr.Inline
			if rulesetNames[rs.Name] {
				errs.invalid("ruleset", org.Organization, r.Name+"/"+rs.Name, "duplicate ruleset name within repo")
			}
			rulesetNames[rs.Name] = true
			validateRuleset(rs, org.Organization, r.Name, teamNames, errs)
		}
	}
}

func validateRuleset(rs *Ruleset, orgName, repoName string, teamNames map[string]bool, errs *Errors) {
	entity := repoName + "/" + rs.Name
	if rs.Target != TargetBranch && rs.Target != TargetTag {
		errs.invalid("ruleset", orgName, entity, "target must be branch or tag")
	}
	if len(rs.RefName.Include) == 0 {
		errs.invalid("ruleset", orgName, entity, "ref_name.include must be non-empty")
	}
	if rs.Bypass != nil && len(rs.Bypass.Teams) == 0 && len(rs.Bypass.Apps) == 0 {
		errs.invalid("ruleset", orgName, entity, "bypass must name at least one team or app")
	}
	if rs.Bypass != nil {
		for _, team := range rs.Bypass.Teams {
			if !teamNames[team] {
				errs.invalid("ruleset", orgName, entity, "bypass team %q is not declared in this org", team)
			}
		}
	}
	seenRules := map[RuleToken]bool{}
	for _, token := range rs.Rules {
		if seenRules[token] {
			errs.invalid("ruleset", orgName, entity, "duplicate rule %q", token)
		}
		seenRules[token] = true
		if !validRuleToken[token] {
			errs.invalid("ruleset", orgName, entity, "unknown rule %q", token)
		}
	}
}

var validRuleToken = map[RuleToken]bool{
	RuleRestrictCreation: true, RuleRestrictUpdate: true, RuleRestrictDeletion: true,
	RuleRequireLinearHist: true, RuleRequireSignedCommit: true, RuleRestrictForcePush: true,
}

func validateCustomProperties(org *OrganizationConfig, errs *Errors) {
	defs := map[string]*CustomProperty{}
	for _, p := range org.CustomProperties {
		defs[p.PropertyName] = p

		hasAllowed := len(p.AllowedValues) > 0
		needsAllowed := p.ValueType == PropertySingleSelect || p.ValueType == PropertyMultiSelect
		if needsAllowed && !hasAllowed {
			errs.invalid("property", org.Organization, p.PropertyName, "allowed_values must be non-empty for type %q", p.ValueType)
		}
		if !needsAllowed && hasAllowed {
			errs.invalid("property", org.Organization, p.PropertyName, "allowed_values only valid for single_select/multi_select")
		}
		if p.DefaultValue != nil {
			wantMulti := p.ValueType == PropertyMultiSelect
			if p.DefaultValue.IsMulti() != wantMulti {
				errs.invalid("property", org.Organization, p.PropertyName, "default_value shape does not match value_type %q", p.ValueType)
			}
			if hasAllowed {
				for _, v := range valuesOf(*p.DefaultValue) {
					if !contains(p.AllowedValues, v) {
						errs.invalid("property", org.Organization, p.PropertyName, "default_value %q is not in allowed_values", v)
					}
				}
			}
		}
	}

	for _, r := range org.Repositories {
		for name, value := range r.Properties {
			def, ok := defs[name]
			if !ok {
				errs.invalid("property", org.Organization, r.Name+"."+name, "property is not declared at the org level")
				continue
			}
			wantMulti := def.ValueType == PropertyMultiSelect
			if value.IsMulti() != wantMulti {
				errs.invalid("property", org.Organization, r.Name+"."+name, "value shape does not match value_type %q", def.ValueType)
				continue
			}
			if len(def.AllowedValues) > 0 {
				for _, v := range valuesOf(value) {
					if !contains(def.AllowedValues, v) {
						errs.invalid("property", org.Organization, r.Name+"."+name, "value %q is not in allowed_values", v)
					}
				}
			}
		}
	}
}

func valuesOf(v PropertyValue) []string {
	if v.Multi != nil {
		return v.Multi
	}
	if v.Scalar != nil {
		return []string{*v.Scalar}
	}
	return nil
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

func intersect(a, b []string) []string {
	set := map[string]bool{}
	for _, x := range a {
		set[x] = true
	}
	var out []string
	for _, y := range b {
		if set[y] {
			out = append(out, y)
		}
	}
	sort.Strings(out)
	return out
}
