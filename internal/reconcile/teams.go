package reconcile

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// reconcileTeams runs the team state machine (§4.3) for every
// declared team and returns the resulting slug-keyed records, used by
// later steps (repo team attachment, ruleset bypass resolution,
// plugin fan-out).
func (r *Reconciler) reconcileTeams(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) (map[string]*teamRecord, error) {
	observed, err := client.AllTeams(ctx, org.Organization)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	observedBySlug := make(map[string]*github.Team, len(observed))
	for _, t := range observed {
		observedBySlug[t.GetSlug()] = t
	}

	records := make(map[string]*teamRecord, len(org.Teams))

	for _, declared := range org.Teams {
		slug := slugify(declared.Name)
		rec := &teamRecord{slug: slug, declared: declared}

		if existing, ok := observedBySlug[slug]; ok {
			rec.id = existing.GetID()
			if existing.GetPrivacy() != privacyFor(declared) {
				r.logMutation(log, "update_team_privacy", "updating privacy for team ", slug)
				if !r.DryRun {
					if err := client.UpdateTeamPrivacy(ctx, org.Organization, slug, declared.Secret); err != nil {
						log.WithField("team", slug).WithError(err).Error("update team privacy failed")
					}
				}
			}
		} else {
			r.logMutation(log, "create_team", "creating team ", slug)
			if r.DryRun {
				rec.id = -1
			} else {
				created, err := client.CreateTeam(ctx, org.Organization, declared.Name, declared.Secret)
				if err != nil {
					log.WithField("team", slug).WithError(err).Error("create team failed")
					continue
				}
				rec.id = created.GetID()
				r.Clients.InvalidateListings(org.Organization)
			}
		}

		records[slug] = rec
	}

	// Second pass: parents can name a sibling team declared later in
	// the document, so every team's id must already be known.
	for slug, rec := range records {
		if rec.declared.Parent == nil {
			continue
		}
		parentSlug := slugify(*rec.declared.Parent)
		parent, ok := records[parentSlug]
		if !ok || parent.id == 0 {
			continue
		}
		observedParent := int64(0)
		if existing, ok := observedBySlug[slug]; ok && existing.Parent != nil {
			observedParent = existing.Parent.GetID()
		}
		if observedParent == parent.id {
			continue
		}
		r.logMutation(log, "update_team_parent", "setting parent of team ", slug, " to ", parentSlug)
		if r.DryRun {
			continue
		}
		if err := client.UpdateTeamParent(ctx, org.Organization, slug, parent.id); err != nil {
			log.WithField("team", slug).WithError(err).Error("update team parent failed")
		}
	}

	if err := r.reconcileTeamMemberships(ctx, client, org, records, log); err != nil {
		return nil, err
	}

	return records, nil
}

func privacyFor(t *config.TeamConfig) string {
	if t.Secret {
		return "secret"
	}
	return "closed"
}

type membershipRole int

const (
	roleAbsent membershipRole = iota
	roleMember
	roleMaintainer
)

// reconcileTeamMemberships applies the desired/observed transition
// table in §4.3 for every declared team.
func (r *Reconciler) reconcileTeamMemberships(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, records map[string]*teamRecord, log *logrus.Entry) error {
	owners, err := client.AllOwners(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing org owners: %w", err)
	}
	ownerSet := make(map[string]bool, len(owners))
	for _, u := range owners {
		ownerSet[u.GetLogin()] = true
	}

	pending, err := client.ListPendingOrgInvitations(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing pending org invitations: %w", err)
	}
	pendingSet := make(map[string]bool, len(pending))
	for _, inv := range pending {
		pendingSet[inv.GetLogin()] = true
	}

	declaredOrgMembers := map[string]bool{}
	for _, t := range org.Teams {
		for _, m := range t.Members {
			declaredOrgMembers[m] = true
		}
		for _, m := range t.Maintainers {
			declaredOrgMembers[m] = true
		}
	}

	for slug, rec := range records {
		if r.DryRun && rec.id == -1 {
			continue // sentinel team: nothing upstream to read membership from
		}

		desired := make(map[string]membershipRole, len(rec.declared.Members)+len(rec.declared.Maintainers))
		for _, m := range rec.declared.Members {
			desired[m] = roleMember
		}
		for _, m := range rec.declared.Maintainers {
			desired[m] = roleMaintainer
		}

		observedMembers, err := client.TeamMembersByRole(ctx, org.Organization, slug, "MEMBER")
		if err != nil {
			return fmt.Errorf("listing members of team %s: %w", slug, err)
		}
		observedMaintainers, err := client.TeamMembersByRole(ctx, org.Organization, slug, "MAINTAINER")
		if err != nil {
			return fmt.Errorf("listing maintainers of team %s: %w", slug, err)
		}

		observed := make(map[string]membershipRole, len(observedMembers)+len(observedMaintainers))
		for _, login := range observedMembers {
			observed[login] = roleMember
		}
		for _, login := range observedMaintainers {
			observed[login] = roleMaintainer
		}

		logins := make(map[string]bool, len(desired)+len(observed))
		for login := range desired {
			logins[login] = true
		}
		for login := range observed {
			logins[login] = true
		}

		for login := range logins {
			r.applyMembershipTransition(ctx, client, org, slug, login, desired[login], observed[login], ownerSet, pendingSet, declaredOrgMembers, log)
		}
	}

	return nil
}

func (r *Reconciler) applyMembershipTransition(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, slug, login string, desired, observed membershipRole, owners, pending, declaredOrgMembers map[string]bool, log *logrus.Entry) {
	if pending[login] && observed == roleAbsent && desired != roleAbsent {
		return // adding/promoting is skipped while the invitation is pending
	}

	switch {
	case desired == roleMaintainer && observed == roleMaintainer:
		return
	case desired == roleMaintainer && observed == roleMember:
		r.logMutation(log, "promote_team_member", "promoting ", login, " to maintainer of ", slug)
		r.mutateMembership(ctx, client, org, slug, login, true, log)
	case desired == roleMaintainer && observed == roleAbsent:
		r.logMutation(log, "add_team_maintainer", "adding ", login, " as maintainer of ", slug)
		r.mutateMembership(ctx, client, org, slug, login, true, log)
	case desired == roleMember && observed == roleMaintainer:
		if owners[login] {
			return // org owners are never demoted
		}
		r.logMutation(log, "demote_team_member", "demoting ", login, " to member of ", slug)
		r.mutateMembership(ctx, client, org, slug, login, false, log)
	case desired == roleMember && observed == roleMember:
		return
	case desired == roleMember && observed == roleAbsent:
		r.logMutation(log, "add_team_member", "adding ", login, " as member of ", slug)
		r.mutateMembership(ctx, client, org, slug, login, false, log)
	case desired == roleAbsent && observed == roleMaintainer:
		if owners[login] && declaredOrgMembers[login] {
			return // org owner who is still a declared member elsewhere is left alone
		}
		r.evictTeamMember(ctx, client, org, slug, login, log)
	case desired == roleAbsent && observed == roleMember:
		r.evictTeamMember(ctx, client, org, slug, login, log)
	}
}

func (r *Reconciler) mutateMembership(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, slug, login string, maintainer bool, log *logrus.Entry) {
	if r.DryRun {
		return
	}
	if err := client.AddTeamMember(ctx, org.Organization, slug, login, maintainer); err != nil {
		log.WithField("team", slug).WithField("user", login).WithError(err).Error("team membership update failed")
	}
}

func (r *Reconciler) evictTeamMember(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, slug, login string, log *logrus.Entry) {
	r.logMutation(log, "remove_team_member", "removing ", login, " from ", slug)
	if r.DryRun {
		return
	}
	if err := client.RemoveTeamMember(ctx, org.Organization, slug, login); err != nil {
		log.WithField("team", slug).WithField("user", login).WithError(err).Error("remove team member failed")
	}
}
