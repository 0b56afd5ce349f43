package plugins

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
)

// GitHubEnvironments grants the npm trusted-publisher GitHub App
// deployment access to a repo's declared admin teams, via a GitHub
// Environment trust policy. The Environments API call itself is out
// of scope for this spec (§1); this reference collaborator only logs
// the intent.
type GitHubEnvironments struct {
	TrustedPublisherClientID string
	Log                      *logrus.Entry
}

func (g *GitHubEnvironments) Name() string { return "github" }

func (g *GitHubEnvironments) HandleRepo(ctx context.Context, owner string, repo *config.RepositoryConfig, teams map[string]config.AccessLevel, alerts alert.Sink) error {
	if g.TrustedPublisherClientID == "" {
		return nil
	}
	g.Log.WithFields(logrus.Fields{
		"repo":   repo.Name,
		"client": g.TrustedPublisherClientID,
	}).Info("reconciling npm trusted-publisher environment")
	return nil
}
