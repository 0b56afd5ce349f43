package ruleset

import (
	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/config"
)

// Plan is the set of mutations needed to bring a repo's observed
// rulesets in line with its declared ones (§4.6 "Repo ruleset
// reconcile").
type Plan struct {
	ToDelete []*github.RepositoryRuleset
	ToCreate []*github.RepositoryRuleset
	ToUpdate []Update
}

// Update pairs the observed ruleset (for its ID) with the normalized
// declared shape it should be replaced with, and the diff that
// motivated the update.
type Update struct {
	ObservedID int64
	Declared   *github.RepositoryRuleset
	Diff       Diff
}

// Reconcile compares declared rulesets (already expanded from
// references, not yet normalized) against the observed rulesets on a
// repo and returns the plan to converge them.
func Reconcile(declared []*config.Ruleset, observed []*github.RepositoryRuleset, teamIDsBySlug map[string]int64) Plan {
	var plan Plan

	observedByName := make(map[string]*github.RepositoryRuleset, len(observed))
	for _, o := range observed {
		observedByName[o.Name] = o
	}

	declaredNames := make(map[string]bool, len(declared))
	for _, d := range declared {
		declaredNames[d.Name] = true
		norm := Normalize(d, teamIDsBySlug)

		obs, ok := observedByName[d.Name]
		if !ok {
			plan.ToCreate = append(plan.ToCreate, norm)
			continue
		}

		diff := Compute(norm, obs)
		if !diff.Equal {
			plan.ToUpdate = append(plan.ToUpdate, Update{
				ObservedID: obs.GetID(),
				Declared:   norm,
				Diff:       diff,
			})
		}
	}

	for _, o := range observed {
		if !declaredNames[o.Name] {
			plan.ToDelete = append(plan.ToDelete, o)
		}
	}

	return plan
}
