package platform

import (
	"context"
	"net/http"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// TokenSource resolves an authentication token for a given org or
// enterprise name, standing in for the out-of-scope "credential
// acquisition" mechanism (§1, "token acquisition"; §4.1 item 2).
type TokenSource interface {
	Token(ctx context.Context, ownerOrEnterprise string) (string, error)
}

// CredentialProvider returns authenticated, minimally-scoped clients.
// When GlobalDryRun is set, every client it returns is forced
// read-only regardless of what the caller asked for (§4.1 item 2).
type CredentialProvider struct {
	Tokens        TokenSource
	GraphQLURL    string
	GlobalDryRun  bool
	HTTPTransport http.RoundTripper
}

// ClientFor returns a client authenticated for ownerOrEnterprise,
// narrowed to read-only when requested or when the global dry-run
// flag is set.
func (p *CredentialProvider) ClientFor(ctx context.Context, ownerOrEnterprise string, readOnly bool) (Client, error) {
	effectiveReadOnly := readOnly || p.GlobalDryRun

	token, err := p.Tokens.Token(ctx, ownerOrEnterprise)
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	if p.HTTPTransport != nil {
		httpClient.Transport = &oauth2.Transport{Base: p.HTTPTransport, Source: ts}
	}

	rest := github.NewClient(httpClient)
	graphqlURL := p.GraphQLURL
	var gql *githubv4.Client
	if graphqlURL != "" {
		gql = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	} else {
		gql = githubv4.NewClient(httpClient)
	}

	return NewClient(rest, gql, effectiveReadOnly), nil
}
