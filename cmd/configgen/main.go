// Command configgen reads an org's live platform state and writes the
// canonical config.yaml a reconcile pass against that document would
// leave unchanged (§6).
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/electron/sheriff/internal/generate"
	"github.com/electron/sheriff/internal/platform"
)

func main() {
	org := pflag.String("org", "", "organization to read live state from")
	out := pflag.String("out", "", "file to write the generated document to (defaults to stdout)")
	pflag.Parse()

	log := logrus.WithField("component", "configgen")

	if *org == "" {
		log.Fatal("--org is required")
	}

	creds := &platform.CredentialProvider{
		Tokens:       platform.StaticEnvTokenSource{EnvVar: "SHERIFF_GITHUB_APP_CREDS"},
		GlobalDryRun: true,
	}

	ctx := context.Background()
	client, err := creds.ClientFor(ctx, *org, true)
	if err != nil {
		log.WithError(err).Error("acquiring client failed")
		os.Exit(1)
	}

	doc, err := generate.Generate(ctx, client, *org)
	if err != nil {
		log.WithError(err).Error("generating config failed")
		os.Exit(1)
	}

	yamlDoc, err := generate.Canonical(doc)
	if err != nil {
		log.WithError(err).Error("marshaling config failed")
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(yamlDoc)
		return
	}
	if err := os.WriteFile(*out, yamlDoc, 0o644); err != nil {
		log.WithError(err).Error("writing config failed")
		os.Exit(1)
	}
}
