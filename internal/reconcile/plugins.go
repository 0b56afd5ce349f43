package reconcile

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/plugins"
)

// fanOutPlugins runs handleTeam for every declared team and handleRepo
// for every declared repo, including archived ones (§4.5). A plugin
// that doesn't implement the relevant capability interface is skipped
// for that callback. Plugins run sequentially and a failing callback
// is logged, not fatal to the org's reconcile.
func (r *Reconciler) fanOutPlugins(ctx context.Context, org *config.OrganizationConfig, teams map[string]*teamRecord, metadata map[string]*repoMetadata, log *logrus.Entry) {
	for _, p := range r.Plugins {
		handler, ok := p.(plugins.HasHandleTeam)
		if !ok {
			continue
		}
		for slug, rec := range teams {
			if err := handler.HandleTeam(ctx, slug, rec.declared, r.Alerts); err != nil {
				log.WithField("plugin", p.Name()).WithField("team", slug).WithError(err).Error("plugin handleTeam failed")
			}
		}
	}

	for _, p := range r.Plugins {
		handler, ok := p.(plugins.HasHandleRepo)
		if !ok {
			continue
		}
		for _, repo := range org.Repositories {
			// archived repos skip permission reconcile but still fan out.
			if err := handler.HandleRepo(ctx, org.Organization, repo, repo.Teams, r.Alerts); err != nil {
				log.WithField("plugin", p.Name()).WithField("repo", repo.Name).WithError(err).Error("plugin handleRepo failed")
			}
		}
	}
}
