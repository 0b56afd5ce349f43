package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
	"github.com/electron/sheriff/internal/ruleset"
)

const stargazerGuardThreshold = 100

// reconcileRepo drives one non-archived declared repo to its declared
// state using the metadata prefetched in step 7 (§4.4).
func (r *Reconciler) reconcileRepo(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, meta *repoMetadata, teamIDsBySlug map[string]int64, log *logrus.Entry) error {
	if meta == nil {
		return fmt.Errorf("no prefetched metadata for repo %s", repo.Name)
	}
	rlog := log.WithField("repo", repo.Name)

	r.reconcileRepoTeams(ctx, client, org, repo, meta, rlog)
	r.reconcileRepoInvitations(ctx, client, org, repo, meta, rlog)
	r.reconcileRepoCollaborators(ctx, client, org, repo, meta, rlog)
	r.reconcileRepoSettings(ctx, client, org, repo, rlog)
	r.reconcileForkPRApproval(ctx, client, org, repo, rlog)
	r.reconcileVisibility(ctx, client, org, repo, rlog)
	r.reconcileRepoProperties(ctx, client, org, repo, rlog)
	r.reconcileRepoRulesets(ctx, client, org, repo, meta, teamIDsBySlug, rlog)

	return nil
}

func (r *Reconciler) reconcileRepoTeams(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, meta *repoMetadata, log *logrus.Entry) {
	observed := make(map[string]config.AccessLevel, len(meta.teams))
	for _, t := range meta.teams {
		if level, ok := platform.GitHubLevelToSheriffLevel(t.GetPermission()); ok {
			observed[t.GetSlug()] = level
		}
	}

	declared := make(map[string]config.AccessLevel, len(repo.Teams))
	for name, level := range repo.Teams {
		declared[slugify(name)] = level
	}

	CompareEntities(declared, observed,
		func(l, r config.AccessLevel) bool { return l == r },
		func(slug string, level config.AccessLevel) {
			native, _ := platform.SheriffLevelToGitHubLevel(level)
			r.logMutation(log, "add_repo_team", "adding ", slug, " team to repo ", repo.Name, " at base access level ", string(level))
			if r.DryRun {
				return
			}
			if err := client.AddRepoTeam(ctx, org.Organization, repo.Name, slug, native); err != nil {
				log.WithField("team", slug).WithError(err).Error("add repo team failed")
			}
		},
		func(slug string, _ config.AccessLevel) {
			r.logMutation(log, "remove_repo_team", "removing team ", slug, " from repo ", repo.Name)
			if r.DryRun {
				return
			}
			if err := client.RemoveRepoTeam(ctx, org.Organization, repo.Name, slug); err != nil {
				log.WithField("team", slug).WithError(err).Error("remove repo team failed")
			}
		},
		func(slug string, level config.AccessLevel, _ config.AccessLevel) {
			native, _ := platform.SheriffLevelToGitHubLevel(level)
			r.logMutation(log, "update_repo_team", "updating team ", slug, " on repo ", repo.Name, " to ", string(level))
			if r.DryRun {
				return
			}
			if err := client.UpdateRepoTeam(ctx, org.Organization, repo.Name, slug, native); err != nil {
				log.WithField("team", slug).WithError(err).Error("update repo team failed")
			}
		},
	)
}

func (r *Reconciler) reconcileRepoInvitations(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, meta *repoMetadata, log *logrus.Entry) {
	observed := make(map[string]config.AccessLevel, len(meta.invitations))
	idByLogin := make(map[string]int64, len(meta.invitations))
	for _, inv := range meta.invitations {
		login := inv.GetInvitee().GetLogin()
		if level, ok := platform.GitHubLevelToSheriffLevel(inv.GetPermissions()); ok {
			observed[login] = level
			idByLogin[login] = inv.GetID()
		}
	}

	CompareEntities(filterCollaborators(repo, observed), observed,
		func(l, r config.AccessLevel) bool { return l == r },
		func(string, config.AccessLevel) {}, // handled by reconcileRepoCollaborators' add pass
		func(login string, _ config.AccessLevel) {
			r.logMutation(log, "remove_repo_invitation", "removing invitation for ", login, " on repo ", repo.Name)
			if r.DryRun {
				return
			}
			if err := client.RemoveRepoInvitation(ctx, org.Organization, repo.Name, idByLogin[login]); err != nil {
				log.WithField("user", login).WithError(err).Error("remove repo invitation failed")
			}
		},
		func(login string, level config.AccessLevel, _ config.AccessLevel) {
			native, _ := platform.SheriffLevelToGitHubLevel(level)
			r.logMutation(log, "update_repo_invitation", "updating invitation for ", login, " on repo ", repo.Name, " to ", string(level))
			if r.DryRun {
				return
			}
			if err := client.UpdateRepoInvitation(ctx, org.Organization, repo.Name, idByLogin[login], native); err != nil {
				log.WithField("user", login).WithError(err).Error("update repo invitation failed")
			}
		},
	)
}

func (r *Reconciler) reconcileRepoCollaborators(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, meta *repoMetadata, log *logrus.Entry) {
	observed := make(map[string]config.AccessLevel, len(meta.collaborators))
	for _, u := range meta.collaborators {
		if level, ok := decodeUserPermissions(u); ok {
			observed[u.GetLogin()] = level
		}
	}

	pendingLogins := make(map[string]bool, len(meta.invitations))
	for _, inv := range meta.invitations {
		pendingLogins[inv.GetInvitee().GetLogin()] = true
	}

	CompareEntities(repo.ExternalCollaborators, observed,
		func(l, r config.AccessLevel) bool { return l == r },
		func(login string, level config.AccessLevel) {
			if pendingLogins[login] {
				return // already invited, handled by reconcileRepoInvitations
			}
			native, _ := platform.SheriffLevelToGitHubLevel(level)
			r.logMutation(log, "add_repo_collaborator", "adding collaborator ", login, " to repo ", repo.Name, " at ", string(level))
			if r.DryRun {
				return
			}
			if err := client.AddRepoCollaborator(ctx, org.Organization, repo.Name, login, native); err != nil {
				log.WithField("user", login).WithError(err).Error("add repo collaborator failed")
			}
		},
		func(login string, _ config.AccessLevel) {
			r.logMutation(log, "remove_repo_collaborator", "removing collaborator ", login, " from repo ", repo.Name)
			if r.DryRun {
				return
			}
			if err := client.RemoveRepoCollaborator(ctx, org.Organization, repo.Name, login); err != nil {
				log.WithField("user", login).WithError(err).Error("remove repo collaborator failed")
			}
		},
		func(login string, level config.AccessLevel, _ config.AccessLevel) {
			native, _ := platform.SheriffLevelToGitHubLevel(level)
			r.logMutation(log, "update_repo_collaborator", "updating collaborator ", login, " on repo ", repo.Name, " to ", string(level))
			if r.DryRun {
				return
			}
			if err := client.AddRepoCollaborator(ctx, org.Organization, repo.Name, login, native); err != nil {
				log.WithField("user", login).WithError(err).Error("update repo collaborator failed")
			}
		},
	)
}

func decodeUserPermissions(u *github.User) (config.AccessLevel, bool) {
	perms := u.Permissions
	return platform.DecodeBitmap(platform.PermissionBitmap{
		Admin:    perms["admin"],
		Maintain: perms["maintain"],
		Push:     perms["push"],
		Triage:   perms["triage"],
		Pull:     perms["pull"],
	})
}

// filterCollaborators restricts a declared-or-observed external
// collaborator map down to the subset this repo's config declares (or
// observes), so the invitation-reconcile step only ever considers
// entries that are also pending.
func filterCollaborators(repo *config.RepositoryConfig, universe map[string]config.AccessLevel) map[string]config.AccessLevel {
	out := make(map[string]config.AccessLevel, len(universe))
	for login := range universe {
		if level, ok := repo.ExternalCollaborators[login]; ok {
			out[login] = level
		}
	}
	return out
}

func (r *Reconciler) reconcileRepoSettings(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, log *logrus.Entry) {
	hasWiki := org.RepositoryDefaults.HasWiki
	if repo.Settings != nil && repo.Settings.HasWiki != nil {
		hasWiki = *repo.Settings.HasWiki
	}

	observedRepo, err := client.GetRepo(ctx, org.Organization, repo.Name)
	if err != nil {
		log.WithError(err).Error("fetching repo settings failed")
		return
	}
	if observedRepo.GetHasWiki() != hasWiki {
		r.logMutation(log, "update_has_wiki", "updating has_wiki on repo ", repo.Name, " to ", fmt.Sprint(hasWiki))
		if r.DryRun {
			return
		}
		if err := client.UpdateRepoHasWiki(ctx, org.Organization, repo.Name, hasWiki); err != nil {
			log.WithError(err).Error("update has_wiki failed")
		}
	}
}

func (r *Reconciler) reconcileForkPRApproval(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, log *logrus.Entry) {
	needsApproval := org.RepositoryDefaults.ForksNeedActionsApproval != nil && *org.RepositoryDefaults.ForksNeedActionsApproval
	if repo.Settings != nil && repo.Settings.ForksNeedActionsApproval != nil {
		needsApproval = *repo.Settings.ForksNeedActionsApproval
	}
	if !needsApproval || repo.EffectiveVisibility() == config.VisibilityPrivate {
		return
	}

	policy, err := client.GetForkPRApprovalPolicy(ctx, org.Organization, repo.Name)
	if err != nil {
		log.WithError(err).Error("fetching fork PR approval policy failed")
		return
	}
	if policy == "all_external_contributors" {
		return
	}

	r.logMutation(log, "update_fork_pr_approval", "setting fork PR approval policy on repo ", repo.Name, " to all_external_contributors")
	if r.DryRun {
		return
	}
	if err := client.SetForkPRApprovalPolicy(ctx, org.Organization, repo.Name, "all_external_contributors"); err != nil {
		log.WithError(err).Error("set fork PR approval policy failed")
	}
}

func (r *Reconciler) reconcileVisibility(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, log *logrus.Entry) {
	if repo.EffectiveVisibility() == config.VisibilityCurrent {
		return
	}
	shouldBePrivate := repo.EffectiveVisibility() == config.VisibilityPrivate

	observedRepo, err := client.GetRepo(ctx, org.Organization, repo.Name)
	if err != nil {
		log.WithError(err).Error("fetching repo visibility failed")
		return
	}
	if observedRepo.GetPrivate() == shouldBePrivate {
		return
	}

	count, known := platform.StargazerCount(observedRepo)
	if !known || count >= stargazerGuardThreshold {
		msg := fmt.Sprintf("Aborting repository visibility update for `%s/%s` as repo has `%d` stargazers", org.Organization, repo.Name, count)
		if !known {
			msg = fmt.Sprintf("Aborting repository visibility update for `%s/%s` as its stargazer count is unknown", org.Organization, repo.Name)
		}
		log.Warn(msg)
		_ = r.Alerts.Flush(ctx, alert.NewBuilder().Text(alert.SeverityCritical, msg))
		return
	}

	r.logMutation(log, "update_visibility", "updating visibility of repo ", repo.Name, " to private=", fmt.Sprint(shouldBePrivate))
	if r.DryRun {
		return
	}
	if err := client.UpdateRepoVisibility(ctx, org.Organization, repo.Name, shouldBePrivate); err != nil {
		log.WithError(err).Error("update repo visibility failed")
	}
}

func (r *Reconciler) reconcileRepoProperties(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, log *logrus.Entry) {
	effective := effectivePropertyValues(org, repo)
	if len(effective) == 0 {
		return
	}

	names := make([]string, 0, len(effective))
	for name := range effective {
		names = append(names, name)
	}
	sort.Strings(names)

	observed, err := client.GetRepoCustomPropertyValues(ctx, org.Organization, repo.Name)
	if err != nil {
		log.WithError(err).Error("fetching repo property values failed")
		return
	}
	observedByName := make(map[string]string, len(observed))
	for _, v := range observed {
		observedByName[v.GetPropertyName()] = v.GetValue()
	}

	mismatched := false
	for _, name := range names {
		if observedByName[name] != propertyValueString(effective[name]) {
			mismatched = true
			break
		}
	}
	if !mismatched {
		return
	}

	r.logMutation(log, "update_repo_properties", "updating custom property values for repo ", repo.Name)
	if r.DryRun {
		return
	}

	var payload []*github.CustomPropertyValue
	for _, name := range names {
		payload = append(payload, &github.CustomPropertyValue{
			PropertyName: name,
			Value:        propertyValueString(effective[name]),
		})
	}
	if err := client.SetRepoCustomPropertyValues(ctx, org.Organization, repo.Name, payload); err != nil {
		log.WithError(err).Error("update repo property values failed")
	}
}

// effectivePropertyValues merges the repo's own declared property
// values over the org's custom-property defaults (§4.4, "Custom
// property values").
func effectivePropertyValues(org *config.OrganizationConfig, repo *config.RepositoryConfig) map[string]config.PropertyValue {
	out := make(map[string]config.PropertyValue)
	for _, p := range org.CustomProperties {
		if p.DefaultValue != nil {
			out[p.PropertyName] = *p.DefaultValue
		}
	}
	for name, v := range repo.Properties {
		out[name] = v
	}
	return out
}

func propertyValueString(v config.PropertyValue) string {
	if v.Scalar != nil {
		return *v.Scalar
	}
	return fmt.Sprint(v.Multi)
}

// reconcileRepoRulesets resolves the repo's declared rulesets
// (expanding common_rulesets references) and drives them to match
// the prefetched observed rulesets (§4.4 "Rulesets", §4.6).
func (r *Reconciler) reconcileRepoRulesets(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, repo *config.RepositoryConfig, meta *repoMetadata, teamIDsBySlug map[string]int64, log *logrus.Entry) {
	if len(repo.Rulesets) == 0 && len(meta.rulesets) == 0 {
		return
	}

	var declared []*config.Ruleset
	for _, rr := range repo.Rulesets {
		switch {
		case rr.Inline != nil:
			declared = append(declared, rr.Inline)
		case rr.Ref != nil:
			if rs, ok := org.CommonRulesets[rr.Ref.Name]; ok {
				declared = append(declared, rs)
			}
		}
	}

	plan := ruleset.Reconcile(declared, meta.rulesets, teamIDsBySlug)

	for _, rs := range plan.ToCreate {
		r.logMutation(log, "create_ruleset", "creating ruleset ", rs.Name, " on repo ", repo.Name)
		if r.DryRun {
			continue
		}
		if err := client.CreateRepoRuleset(ctx, org.Organization, repo.Name, rs); err != nil {
			log.WithField("ruleset", rs.Name).WithError(err).Error("create ruleset failed")
		}
	}

	for _, u := range plan.ToUpdate {
		r.logMutation(log, "update_ruleset", "updating ruleset ", u.Declared.Name, " on repo ", repo.Name)
		log.WithField("ruleset", u.Declared.Name).Debug(u.Diff.Text)
		_ = r.Alerts.Flush(ctx, alert.NewBuilder().Text(alert.SeverityNormal,
			fmt.Sprintf("Ruleset `%s` on `%s/%s` drifted:", u.Declared.Name, org.Organization, repo.Name)).
			ContextLines(u.Diff.Text))
		if r.DryRun {
			continue
		}
		if err := client.UpdateRepoRuleset(ctx, org.Organization, repo.Name, u.ObservedID, u.Declared); err != nil {
			log.WithField("ruleset", u.Declared.Name).WithError(err).Error("update ruleset failed")
		}
	}

	for _, rs := range plan.ToDelete {
		r.logMutation(log, "delete_ruleset", "deleting ruleset ", rs.Name, " from repo ", repo.Name)
		if r.DryRun {
			continue
		}
		if err := client.DeleteRepoRuleset(ctx, org.Organization, repo.Name, rs.GetID()); err != nil {
			log.WithField("ruleset", rs.Name).WithError(err).Error("delete ruleset failed")
		}
	}
}
