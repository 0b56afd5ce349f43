package config

import "fmt"

// normalizeTeams runs the two legacy-shape expansion passes (§4.1,
// "Normalization passes") in order: formation expansion first, then
// reference expansion. Both passes only ever consult already-declared
// raw teams in the same document, so a single two-pass sweep (rather
// than a fixpoint loop) is enough — formations cannot reference
// another formation or a reference, and references only resolve
// against concrete teams once those exist as OrganizationConfig
// entries elsewhere (cross-org references are resolved later, by the
// caller, via resolvedTeamsByOrg).
func normalizeTeams(raw []*rawTeam, resolvedTeamsByOrg func(org string) (map[string]*TeamConfig, bool)) ([]*TeamConfig, error) {
	byName := make(map[string]*rawTeam, len(raw))
	for _, t := range raw {
		byName[t.Name] = t
	}

	out := make([]*TeamConfig, 0, len(raw))
	for _, t := range raw {
		switch t.classify() {
		case teamKindFormation:
			expanded, err := expandFormation(t, byName)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded)
		case teamKindReference:
			expanded, err := expandReference(t, resolvedTeamsByOrg)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded)
		default:
			out = append(out, t.toConcrete())
		}
	}
	return out, nil
}

// expandFormation replaces a `formation: [t1, t2, ...]` team with a
// synthetic team whose maintainers are the union of the listed teams'
// maintainers, and whose members are the union of their members minus
// that maintainer set (§4.1 pass 1). DisplayName/Gsuite/Slack are
// preserved from the formation's own declaration, not borrowed from
// the constituents.
func expandFormation(t *rawTeam, byName map[string]*rawTeam) (*TeamConfig, error) {
	maintainers := map[string]bool{}
	members := map[string]bool{}
	for _, name := range t.Formation {
		src, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("team %q formation references unknown team %q", t.Name, name)
		}
		if src.classify() != teamKindConcrete {
			return nil, fmt.Errorf("team %q formation references non-concrete team %q", t.Name, name)
		}
		for _, m := range src.Maintainers {
			maintainers[m] = true
		}
		for _, m := range src.Members {
			members[m] = true
		}
	}
	delete(members, "") // defensive against empty entries; no-op otherwise

	concrete := &TeamConfig{
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Gsuite:      t.Gsuite,
		Slack:       t.Slack,
	}
	for m := range maintainers {
		concrete.Maintainers = append(concrete.Maintainers, m)
	}
	for m := range members {
		if !maintainers[m] {
			concrete.Members = append(concrete.Members, m)
		}
	}
	return concrete, nil
}

// expandReference mirrors maintainers/members/displayName/gsuite/slack
// from "<org>/<team>" (§4.1 pass 2). If the referenced org or team is
// not resolvable at this point, the team is left as a concrete team
// with no maintainers or members, so later validation reports
// ErrConfigInvalid naming the offender (it has no maintainer) rather
// than normalization itself failing.
func expandReference(t *rawTeam, resolvedTeamsByOrg func(org string) (map[string]*TeamConfig, bool)) (*TeamConfig, error) {
	org, team, ok := splitReference(*t.Reference)
	if !ok {
		return nil, fmt.Errorf("team %q has malformed reference %q, want \"org/team\"", t.Name, *t.Reference)
	}
	concrete := &TeamConfig{
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Gsuite:      t.Gsuite,
		Slack:       t.Slack,
	}
	teams, ok := resolvedTeamsByOrg(org)
	if !ok {
		return concrete, nil // unresolved org; validation reports it
	}
	src, ok := teams[team]
	if !ok {
		return concrete, nil // unresolved team; validation reports it
	}
	concrete.Members = append([]string(nil), src.Members...)
	concrete.Maintainers = append([]string(nil), src.Maintainers...)
	if concrete.DisplayName == nil {
		concrete.DisplayName = src.DisplayName
	}
	if concrete.Gsuite == nil {
		concrete.Gsuite = src.Gsuite
	}
	if concrete.Slack == nil {
		concrete.Slack = src.Slack
	}
	return concrete, nil
}

func splitReference(ref string) (org, team string, ok bool) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == '/' {
			return ref[:i], ref[i+1:], ref[:i] != "" && ref[i+1:] != ""
		}
	}
	return "", "", false
}

// resolveRulesets replaces every rawRulesetEntry on a repo with its
// concrete Ruleset, drawn from common_rulesets when the entry is a
// bare name. The loader's final OrganizationConfig never carries
// RulesetRef placeholders (§4.1, "Output"). A dangling reference is a
// cross-entity check, so it is reported as ErrConfigInvalid rather
// than a decode failure.
func resolveRulesets(org string, repo *rawRepo, common map[string]*Ruleset) ([]RepoRuleset, error) {
	out := make([]RepoRuleset, 0, len(repo.Rulesets))
	for _, entry := range repo.Rulesets {
		rs, ok := entry.resolve(common)
		if !ok {
			return nil, &ErrConfigInvalid{Kind: "ruleset", Org: org, Entity: repo.Name,
				Message: fmt.Sprintf("ruleset %q is not defined in common_rulesets", entry.Name)}
		}
		out = append(out, RepoRuleset{Inline: rs})
	}
	return out, nil
}
