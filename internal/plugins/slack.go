package plugins

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
)

// Slack mirrors a team's membership into a Slack user-group when the
// team declares `slack: true` or `slack: <channel>`. Resolving Slack
// user IDs and calling usergroups.users.update is out of scope for
// this spec (§1); this reference collaborator only logs the intent.
type Slack struct {
	Domain string
	Log    *logrus.Entry
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) HandleTeam(ctx context.Context, slug string, team *config.TeamConfig, alerts alert.Sink) error {
	channel, ok := slackChannel(slug, team)
	if !ok {
		return nil
	}
	s.Log.WithFields(logrus.Fields{"team": slug, "channel": channel}).Info("mirroring team membership to slack user-group")
	return nil
}

func slackChannel(slug string, team *config.TeamConfig) (string, bool) {
	switch v := team.Slack.(type) {
	case nil:
		return "", false
	case bool:
		if !v {
			return "", false
		}
		if team.DisplayName != nil {
			return *team.DisplayName, true
		}
		return slug, true
	case string:
		return v, true
	default:
		return "", false
	}
}
