package plugins

import "github.com/sirupsen/logrus"

// Options configures the reference plugins SHERIFF_PLUGINS (§6) may
// enable. Fields correspond one-to-one with the env vars consumed by
// each plugin's own side effect.
type Options struct {
	GsuiteDomain             string
	SlackDomain              string
	HerokuMagicAdmin         string
	NPMTrustedPublisherAppID string
}

// Build constructs one Plugin per name in names (each one of
// gsuite/slack/heroku/github); unknown names are logged and skipped.
func Build(names []string, opts Options, log *logrus.Entry) []Plugin {
	var out []Plugin
	for _, name := range names {
		switch name {
		case "gsuite":
			out = append(out, &Gsuite{Domain: opts.GsuiteDomain, Log: log.WithField("plugin", "gsuite")})
		case "slack":
			out = append(out, &Slack{Domain: opts.SlackDomain, Log: log.WithField("plugin", "slack")})
		case "heroku":
			out = append(out, &Heroku{MagicAdmin: opts.HerokuMagicAdmin, Log: log.WithField("plugin", "heroku")})
		case "github":
			out = append(out, &GitHubEnvironments{TrustedPublisherClientID: opts.NPMTrustedPublisherAppID, Log: log.WithField("plugin", "github")})
		default:
			log.WithField("plugin", name).Warn("unknown plugin name in SHERIFF_PLUGINS, skipping")
		}
	}
	return out
}
