package platform

import (
	"context"

	"github.com/google/go-github/v66/github"
)

func (c *client) ListCustomProperties(ctx context.Context, org string) ([]*github.CustomProperty, error) {
	props, _, err := c.rest.Organizations.ListCustomProperties(ctx, org)
	return props, err
}

func (c *client) CreateOrUpdateCustomProperty(ctx context.Context, org string, prop *github.CustomProperty) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Organizations.CreateOrUpdateCustomProperty(ctx, org, prop.GetPropertyName(), prop)
	return err
}

func (c *client) RemoveCustomProperty(ctx context.Context, org, name string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Organizations.RemoveCustomProperty(ctx, org, name)
	return err
}

func (c *client) GetRepoCustomPropertyValues(ctx context.Context, org, name string) ([]*github.CustomPropertyValue, error) {
	values, _, err := c.rest.Repositories.GetAllCustomPropertyValues(ctx, org, name)
	return values, err
}

func (c *client) SetRepoCustomPropertyValues(ctx context.Context, org, name string, values []*github.CustomPropertyValue) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Repositories.CreateOrUpdateCustomProperties(ctx, org, name, values)
	return err
}

func (c *client) CreateCheckRun(ctx context.Context, org, repo string, opts github.CreateCheckRunOptions) (int64, error) {
	if err := c.guardMutation(); err != nil {
		return 0, err
	}
	run, _, err := c.rest.Checks.CreateCheckRun(ctx, org, repo, opts)
	if err != nil {
		return 0, err
	}
	return run.GetID(), nil
}

func (c *client) UpdateCheckRun(ctx context.Context, org, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Checks.UpdateCheckRun(ctx, org, repo, checkRunID, opts)
	return err
}

func (c *client) GetReleaseByTag(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
	release, resp, err := c.rest.Repositories.GetReleaseByTag(ctx, org, repo, tag)
	if resp != nil && resp.StatusCode == 404 {
		return nil, nil
	}
	return release, err
}

func (c *client) GetPullRequest(ctx context.Context, org, repo string, number int) (*github.PullRequest, error) {
	pr, _, err := c.rest.PullRequests.Get(ctx, org, repo, number)
	return pr, err
}

// CreateGist uploads the rendered SVG as a single-file, non-public
// gist and returns its raw content URL (§4.8 step 3).
func (c *client) CreateGist(ctx context.Context, description string, public bool, filename, content string) (string, error) {
	if err := c.guardMutation(); err != nil {
		return "", err
	}
	gist, _, err := c.rest.Gists.Create(ctx, &github.Gist{
		Description: &description,
		Public:      &public,
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(filename): {Content: &content},
		},
	})
	if err != nil {
		return "", err
	}
	for _, f := range gist.Files {
		if f.RawURL != nil {
			return *f.RawURL, nil
		}
	}
	return "", errNoGistFile
}

var errNoGistFile = &gistFileError{}

type gistFileError struct{}

func (e *gistFileError) Error() string { return "created gist has no files" }
