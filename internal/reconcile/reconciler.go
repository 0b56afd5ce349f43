package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
	"github.com/electron/sheriff/internal/plugins"
)

// Reconciler drives one organization's live state toward its declared
// state, per the ordering in §4.2: custom properties, invitations,
// missing-repo warnings, orphan team deletion, team reconcile, repo
// creation, metadata prefetch, repo reconcile, plugin fan-out.
type Reconciler struct {
	Clients *platform.ClientCache
	Alerts  alert.Sink
	DryRun  bool
	Plugins []plugins.Plugin
}

// teamRecord is what later steps (repo team attachment, ruleset
// bypass-actor resolution, plugin fan-out) need to know about a team
// once its own reconcile step has run.
type teamRecord struct {
	slug     string
	id       int64
	declared *config.TeamConfig
}

// Run reconciles a single org. A read error at any step aborts the
// org's loop immediately, leaving prior writes in place (§4.2 Failure
// semantics); write errors are logged and do not stop later steps.
func (r *Reconciler) Run(ctx context.Context, org *config.OrganizationConfig) error {
	log := logrus.WithFields(logrus.Fields{"org": org.Organization, "dryrun": r.DryRun})
	start := time.Now()
	defer func() { reconcileDuration.WithLabelValues(org.Organization).Observe(time.Since(start).Seconds()) }()

	cached, err := r.Clients.Get(ctx, org.Organization, r.DryRun)
	if err != nil {
		return fmt.Errorf("acquiring client for org %s: %w", org.Organization, err)
	}

	if err := r.syncCustomProperties(ctx, cached, org, log); err != nil {
		return err
	}

	if err := r.syncInvitations(ctx, cached, org, log); err != nil {
		// §4.2 step 2: unresolvable logins halt further mutations for
		// this org, but the step itself already posted the alert.
		return err
	}

	if err := r.warnMissingRepos(ctx, cached, org, log); err != nil {
		return err
	}

	if err := r.reconcileOrphanTeams(ctx, cached, org, log); err != nil {
		return err
	}

	teams, err := r.reconcileTeams(ctx, cached, org, log)
	if err != nil {
		return err
	}

	if err := r.createMissingRepos(ctx, cached, org, log); err != nil {
		return err
	}

	metadata, err := r.prefetchRepoMetadata(ctx, cached, org, log)
	if err != nil {
		return err
	}

	teamIDsBySlug := make(map[string]int64, len(teams))
	for slug, t := range teams {
		teamIDsBySlug[slug] = t.id
	}

	for _, repo := range org.Repositories {
		meta := metadata[repo.Name]
		if meta != nil && meta.archived {
			continue // archived repos skip permission reconcile (§4.2 step 8)
		}
		if err := r.reconcileRepo(ctx, cached, org, repo, meta, teamIDsBySlug, log); err != nil {
			log.WithField("repo", repo.Name).WithError(err).Error("repo reconcile read error")
			return err
		}
	}

	r.fanOutPlugins(ctx, org, teams, metadata, log)

	return nil
}

// repoMetadata is the result of the bounded-concurrency prefetch in
// §4.2 step 7.
type repoMetadata struct {
	archived     bool
	teams        []*github.Team
	invitations  []*github.RepositoryInvitation
	collaborators []*github.User
	rulesets     []*github.RepositoryRuleset
}

func (r *Reconciler) logMutation(log *logrus.Entry, action string, args ...interface{}) {
	entry := log.WithField("action", action)
	if r.DryRun {
		entry = entry.WithField("dryrun", true)
	}
	entry.Info(fmt.Sprint(args...))
}
