package plugins

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
)

// Heroku mirrors a repo's admin-level collaborators into the Heroku
// app of the same name, optionally including a magic-admin account.
// The Heroku Platform API call itself is out of scope for this spec
// (§1); this reference collaborator only logs the intent.
type Heroku struct {
	MagicAdmin string
	Log        *logrus.Entry
}

func (h *Heroku) Name() string { return "heroku" }

func (h *Heroku) HandleRepo(ctx context.Context, owner string, repo *config.RepositoryConfig, teams map[string]config.AccessLevel, alerts alert.Sink) error {
	var admins []string
	for slug, level := range teams {
		if level == config.AccessAdmin {
			admins = append(admins, slug)
		}
	}
	if len(admins) == 0 {
		return nil
	}
	log := h.Log.WithField("repo", repo.Name).WithField("admin_teams", admins)
	if h.MagicAdmin != "" {
		log = log.WithField("magic_admin", h.MagicAdmin)
	}
	log.Info("mirroring admin collaborators to heroku app")
	return nil
}
