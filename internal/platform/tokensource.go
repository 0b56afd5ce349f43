package platform

import (
	"context"
	"fmt"
	"os"
)

// StaticEnvTokenSource returns the same token for every org, read once
// from the named environment variable. Real GitHub App JWT exchange
// (SHERIFF_GITHUB_APP_CREDS) is the out-of-scope "credential
// acquisition" mechanism (§1); this is the minimal stand-in that lets
// the rest of the system depend only on the TokenSource interface.
type StaticEnvTokenSource struct {
	EnvVar string
}

func (s StaticEnvTokenSource) Token(ctx context.Context, ownerOrEnterprise string) (string, error) {
	token := os.Getenv(s.EnvVar)
	if token == "" {
		return "", fmt.Errorf("%s is not set", s.EnvVar)
	}
	return token, nil
}
