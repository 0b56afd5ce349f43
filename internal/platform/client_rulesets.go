package platform

import (
	"context"

	"github.com/google/go-github/v66/github"
)

func (c *client) ListRepoRulesets(ctx context.Context, org, name string) ([]*github.RepositoryRuleset, error) {
	rulesets, _, err := c.rest.Repositories.GetAllRulesets(ctx, org, name, false)
	return rulesets, err
}

func (c *client) GetRepoRuleset(ctx context.Context, org, name string, id int64) (*github.RepositoryRuleset, error) {
	rs, _, err := c.rest.Repositories.GetRuleset(ctx, org, name, id, false)
	return rs, err
}

func (c *client) CreateRepoRuleset(ctx context.Context, org, name string, rs *github.RepositoryRuleset) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Repositories.CreateRuleset(ctx, org, name, *rs)
	return err
}

func (c *client) UpdateRepoRuleset(ctx context.Context, org, name string, id int64, rs *github.RepositoryRuleset) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Repositories.UpdateRuleset(ctx, org, name, id, *rs)
	return err
}

func (c *client) DeleteRepoRuleset(ctx context.Context, org, name string, id int64) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Repositories.DeleteRuleset(ctx, org, name, id)
	return err
}
