// Command webhook runs the event-driven half of the system (§4.7,
// §4.8): a long-lived HTTP server that enforces collaborator changes,
// applies the trusted-releaser policy, posts alerts, and drives the
// dry-run preview harness off config-repo pull requests.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/dryrun"
	"github.com/electron/sheriff/internal/platform"
	"github.com/electron/sheriff/internal/webhook"
)

func main() {
	reconcilerPath := pflag.String("reconciler-path", "reconciler", "path to the reconciler binary invoked by the dry-run harness")
	staticDir := pflag.String("static-dir", "static", "directory of bundled alert-block images served at /static/")
	pflag.Parse()

	log := logrus.WithField("component", "webhook")

	secret := os.Getenv("GITHUB_WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("GITHUB_WEBHOOK_SECRET is required")
	}

	creds := &platform.CredentialProvider{
		Tokens: platform.StaticEnvTokenSource{EnvVar: "SHERIFF_GITHUB_APP_CREDS"},
	}
	clients := platform.NewClientCache(creds)

	var alerts alert.Sink = alert.NullSink{}
	if token, channel := os.Getenv("SLACK_TOKEN"), os.Getenv("SLACK_WEBHOOK_URL"); token != "" && channel != "" {
		alerts = alert.NewSlackSink(token, channel, false)
	} else {
		log.Warn("SLACK_TOKEN/SLACK_WEBHOOK_URL not set, alerts will be discarded")
	}

	policies, err := webhook.ParseReleaserPolicies(os.Getenv("SHERIFF_TRUSTED_RELEASER_POLICIES"))
	if err != nil {
		log.WithError(err).Fatal("parsing SHERIFF_TRUSTED_RELEASER_POLICIES failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configOrg := os.Getenv("PERMISSIONS_FILE_ORG")
	harnessClient, err := clients.Get(ctx, configOrg, true)
	if err != nil {
		log.WithError(err).Fatal("acquiring client for config org failed")
	}

	configEnv := config.Env{
		FileOrg:       configOrg,
		FileRepo:      os.Getenv("PERMISSIONS_FILE_REPO"),
		FilePath:      os.Getenv("PERMISSIONS_FILE_PATH"),
		FileRef:       os.Getenv("PERMISSIONS_FILE_REF"),
		FileLocalPath: os.Getenv("PERMISSIONS_FILE_LOCAL_PATH"),
	}

	harness := &dryrun.Harness{
		Client:         harnessClient,
		ReconcilerPath: *reconcilerPath,
		TmpDir:         os.TempDir(),
		FilePath:       os.Getenv("PERMISSIONS_FILE_PATH"),
		Log:            log.WithField("subcomponent", "dryrun-harness"),
	}

	queue := dryrun.NewQueue(ctx, harness.RunTask)
	defer queue.Close()

	srv := &webhook.Server{
		Secret:              []byte(secret),
		SelfLogin:           os.Getenv("SHERIFF_SELF_LOGIN"),
		ConfigEnv:           configEnv,
		Fetcher:             &platform.OrgContentFetcher{Creds: creds},
		Clients:             clients,
		Alerts:              alerts,
		TrustedReleasers:    splitSet(os.Getenv("SHERIFF_TRUSTED_RELEASERS")),
		ReleaserPolicies:    policies,
		ImportantBranchRepo: os.Getenv("SHERIFF_IMPORTANT_BRANCH"),
		DryRunQueue:         queue,
		DryRunHarness:       harness,
		Log:                 log,
	}

	mux := http.NewServeMux()
	mux.Handle("/", srv)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(*staticDir))))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.WithField("port", port).Fatal("PORT must be numeric")
	}

	httpServer := &http.Server{Addr: ":" + port, Handler: mux}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("shutting down, waiting for in-flight dry-runs to complete")
		cancel()
		_ = httpServer.Shutdown(context.Background())
	}()

	log.WithField("port", port).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}

func splitSet(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	out := make(map[string]bool)
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if v := raw[start:i]; v != "" {
				out[v] = true
			}
			start = i + 1
		}
	}
	return out
}
