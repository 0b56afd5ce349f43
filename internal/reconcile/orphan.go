package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// reconcileOrphanTeams deletes every observed team not named in
// teams[] (§4.2 step 4), unconditionally unless an org opts out via
// destructive_operations.prevent_team_deletion.
func (r *Reconciler) reconcileOrphanTeams(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) error {
	observed, err := client.AllTeams(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing teams: %w", err)
	}

	declaredSlugs := make(map[string]bool, len(org.Teams))
	for _, t := range org.Teams {
		declaredSlugs[slugify(t.Name)] = true
	}

	for _, team := range observed {
		if declaredSlugs[team.GetSlug()] {
			continue
		}

		if org.DestructiveOperations.PreventTeamDeletion {
			log.WithField("team", team.GetSlug()).Warn("orphan team would be deleted but destructive_operations.prevent_team_deletion is set")
			_ = r.Alerts.Flush(ctx, alert.NewBuilder().Text(alert.SeverityWarning,
				fmt.Sprintf("Orphan team `%s` not declared; deletion is suppressed by `destructive_operations.prevent_team_deletion`", team.GetSlug())))
			continue
		}

		r.logMutation(log, "delete_team", "deleting orphan team ", team.GetSlug())
		if r.DryRun {
			continue
		}
		if err := client.DeleteTeam(ctx, org.Organization, team.GetSlug()); err != nil {
			log.WithField("team", team.GetSlug()).WithError(err).Error("delete orphan team failed")
			continue
		}
		r.Clients.InvalidateListings(org.Organization)
	}

	return nil
}
