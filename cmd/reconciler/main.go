// Command reconciler drives every configured organization's live
// platform state toward its declared config.yaml once and exits (§6,
// "Reconciler: exits 0 on success, 1 on unhandled error"). Business
// logic lives entirely in internal/reconcile; this is wiring only.
package main

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
	"github.com/electron/sheriff/internal/plugins"
	"github.com/electron/sheriff/internal/reconcile"
)

func main() {
	forReal := pflag.Bool("do-it-for-real-this-time", false, "disable the global dry-run flag and perform mutating platform calls")
	pflag.Parse()

	log := logrus.WithField("component", "reconciler")

	env := config.Env{
		FileOrg:       os.Getenv("PERMISSIONS_FILE_ORG"),
		FileRepo:      os.Getenv("PERMISSIONS_FILE_REPO"),
		FilePath:      os.Getenv("PERMISSIONS_FILE_PATH"),
		FileRef:       os.Getenv("PERMISSIONS_FILE_REF"),
		FileLocalPath: os.Getenv("PERMISSIONS_FILE_LOCAL_PATH"),
	}
	if env.FileOrg == "" {
		log.Fatal("PERMISSIONS_FILE_ORG is required")
	}

	creds := &platform.CredentialProvider{
		Tokens:       platform.StaticEnvTokenSource{EnvVar: "SHERIFF_GITHUB_APP_CREDS"},
		GlobalDryRun: !*forReal,
	}

	cfg, err := config.Load(env, &platform.OrgContentFetcher{Creds: creds})
	if err != nil {
		log.WithError(err).Error("loading config failed")
		os.Exit(1)
	}

	alerts := newAlertSink(!*forReal, log)

	r := &reconcile.Reconciler{
		Clients: platform.NewClientCache(creds),
		Alerts:  alerts,
		DryRun:  !*forReal,
		Plugins: plugins.Build(splitCSV(os.Getenv("SHERIFF_PLUGINS")), plugins.Options{
			GsuiteDomain:             os.Getenv("SHERIFF_GSUITE_DOMAIN"),
			SlackDomain:              os.Getenv("SHERIFF_SLACK_DOMAIN"),
			HerokuMagicAdmin:         os.Getenv("HEROKU_MAGIC_ADMIN"),
			NPMTrustedPublisherAppID: os.Getenv("NPM_TRUSTED_PUBLISHER_GITHUB_APP_CLIENT_ID"),
		}, log),
	}

	ctx := context.Background()
	failed := false
	for _, org := range cfg.Orgs {
		if err := r.Run(ctx, org); err != nil {
			log.WithField("org", org.Organization).WithError(err).Error("reconcile failed")
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func newAlertSink(dryRun bool, log *logrus.Entry) alert.Sink {
	token := os.Getenv("SLACK_TOKEN")
	channel := os.Getenv("SLACK_WEBHOOK_URL")
	if token == "" || channel == "" {
		log.Warn("SLACK_TOKEN/SLACK_WEBHOOK_URL not set, alerts will be discarded")
		return alert.NullSink{}
	}
	return alert.NewSlackSink(token, channel, dryRun)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
