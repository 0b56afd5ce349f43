package platform

import "context"

// OrgContentFetcher adapts a CredentialProvider into a
// config.ContentFetcher for the one org whose config repo is read at
// startup (§4.1, "Input sources", final fallback). It authenticates a
// fresh read-only client per call rather than going through the
// ClientCache, since this runs before any org's reconcile pass has
// begun.
type OrgContentFetcher struct {
	Creds *CredentialProvider
}

func (f *OrgContentFetcher) GetContent(org, repo, path, ref string) (string, string, error) {
	client, err := f.Creds.ClientFor(context.Background(), org, true)
	if err != nil {
		return "", "", err
	}
	return client.GetContent(org, repo, path, ref)
}
