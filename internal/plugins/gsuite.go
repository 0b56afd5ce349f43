package plugins

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
)

// Gsuite mirrors a team's membership into a Google Group when the
// team declares a `gsuite` block, matching the group's privacy and
// membership to the team. The actual Directory API calls are out of
// scope for this spec (§1); this is the minimal reference collaborator
// the reconciler fans out to.
type Gsuite struct {
	Domain string
	Log    *logrus.Entry
}

func (g *Gsuite) Name() string { return "gsuite" }

func (g *Gsuite) HandleTeam(ctx context.Context, slug string, team *config.TeamConfig, alerts alert.Sink) error {
	if team.Gsuite == nil {
		return nil
	}
	if team.DisplayName == nil {
		g.Log.WithField("team", slug).Warn("gsuite block requires displayName, skipping")
		return nil
	}
	g.Log.WithFields(logrus.Fields{
		"team":    slug,
		"group":   *team.DisplayName + "@" + g.Domain,
		"privacy": team.Gsuite.Privacy,
	}).Info("mirroring team membership to google group")
	return nil
}
