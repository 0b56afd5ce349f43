package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// prefetchRepoMetadata fetches, for every non-archived declared repo,
// its teams, pending invitations, direct collaborators, and (if it
// declares rulesets) its rulesets, across a pool bounded to 8
// concurrent tasks. All tasks complete before the caller proceeds to
// repo reconcile (§4.2 step 7).
func (r *Reconciler) prefetchRepoMetadata(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) (map[string]*repoMetadata, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	var mu sync.Mutex
	results := make(map[string]*repoMetadata, len(org.Repositories))

	for _, repo := range org.Repositories {
		repo := repo
		g.Go(func() error {
			observed, err := client.GetRepo(gctx, org.Organization, repo.Name)
			if err != nil {
				return fmt.Errorf("fetching repo %s: %w", repo.Name, err)
			}

			meta := &repoMetadata{archived: observed.GetArchived()}
			if meta.archived {
				mu.Lock()
				results[repo.Name] = meta
				mu.Unlock()
				return nil
			}

			meta.teams, err = client.ListRepoTeams(gctx, org.Organization, repo.Name)
			if err != nil {
				return fmt.Errorf("listing teams for repo %s: %w", repo.Name, err)
			}
			meta.invitations, err = client.ListPendingRepoInvitations(gctx, org.Organization, repo.Name)
			if err != nil {
				return fmt.Errorf("listing invitations for repo %s: %w", repo.Name, err)
			}
			meta.collaborators, err = client.ListRepoCollaborators(gctx, org.Organization, repo.Name)
			if err != nil {
				return fmt.Errorf("listing collaborators for repo %s: %w", repo.Name, err)
			}

			if len(repo.Rulesets) > 0 {
				summaries, err := client.ListRepoRulesets(gctx, org.Organization, repo.Name)
				if err != nil {
					return fmt.Errorf("listing rulesets for repo %s: %w", repo.Name, err)
				}
				for _, summary := range summaries {
					full, err := client.GetRepoRuleset(gctx, org.Organization, repo.Name, summary.GetID())
					if err != nil {
						return fmt.Errorf("fetching ruleset %d for repo %s: %w", summary.GetID(), repo.Name, err)
					}
					meta.rulesets = append(meta.rulesets, full)
				}
			}

			mu.Lock()
			results[repo.Name] = meta
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("repo metadata prefetch failed")
		return nil, err
	}

	return results, nil
}
