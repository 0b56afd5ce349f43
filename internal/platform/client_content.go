package platform

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// GetContent fetches a single file at ref via the contents API. It has
// no ctx parameter so that *client structurally satisfies
// config.ContentFetcher (§4.1) without config importing platform;
// internally it runs against a background context since the config
// loader's own call site predates any per-request context in this
// codepath.
func (c *client) GetContent(org, repo, path, ref string) (string, string, error) {
	fc, _, _, err := c.rest.Repositories.GetContents(context.Background(), org, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", "", err
	}
	content, err := fc.GetContent()
	if err != nil {
		return "", "", err
	}
	// go-github's GetContent() already base64-decodes; report utf-8 so
	// callers that branch on encoding (§4.1) don't double-decode.
	return content, "utf-8", nil
}
