package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// warnMissingRepos synthesizes a visibility=current, empty-maps
// RepositoryConfig for every observed repo without a config entry and
// emits a warning, so later steps see every repo that exists (§4.2
// step 3).
func (r *Reconciler) warnMissingRepos(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) error {
	observed, err := client.AllRepos(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing repos: %w", err)
	}

	for _, repo := range observed {
		name := repo.GetName()
		if _, ok := org.RepoByName(name); ok {
			continue
		}

		synthetic := &config.RepositoryConfig{
			Name:       name,
			Teams:      map[string]config.AccessLevel{},
			ExternalCollaborators: map[string]config.AccessLevel{},
			Visibility: config.VisibilityCurrent,
			Synthetic:  true,
		}
		org.Repositories = append(org.Repositories, synthetic)

		log.WithField("repo", name).Warn("repository observed upstream but not declared in config")
		_ = r.Alerts.Flush(ctx, alert.NewBuilder().Text(alert.SeverityWarning,
			fmt.Sprintf("Repository `%s/%s` exists upstream but is not declared; treating as `visibility: current`", org.Organization, name)))
	}

	return nil
}
