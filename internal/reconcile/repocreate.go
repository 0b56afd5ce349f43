package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// createMissingRepos creates every declared repo not yet observed,
// with has_wiki=false and the declared visibility (omitted when
// `current`). Dry-run skips creation entirely and the repo is
// excluded from prefetch/reconcile, since there is nothing upstream
// to read (§4.2 step 6).
func (r *Reconciler) createMissingRepos(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) error {
	observed, err := client.AllRepos(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing repos: %w", err)
	}
	observedNames := make(map[string]bool, len(observed))
	for _, repo := range observed {
		observedNames[repo.GetName()] = true
	}

	var kept []*config.RepositoryConfig
	for _, repo := range org.Repositories {
		if repo.Synthetic || observedNames[repo.Name] {
			kept = append(kept, repo)
			continue
		}

		r.logMutation(log, "create_repo", "creating repo ", repo.Name)
		if r.DryRun {
			continue // dry-run: no repo exists upstream, stop further per-repo work
		}

		private := repo.EffectiveVisibility() == config.VisibilityPrivate
		if err := client.CreateRepo(ctx, org.Organization, repo.Name, private); err != nil {
			log.WithField("repo", repo.Name).WithError(err).Error("create repo failed")
			continue
		}
		r.Clients.InvalidateListings(org.Organization)
		kept = append(kept, repo)
	}

	org.Repositories = kept
	return nil
}
