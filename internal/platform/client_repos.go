package platform

import (
	"context"

	"github.com/google/go-github/v66/github"
)

func (c *client) ListRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.Repository, *github.Response, error) {
		return c.rest.Repositories.ListByOrg(ctx, org, &github.RepositoryListByOrgOptions{ListOptions: *opt})
	})
}

func (c *client) GetRepo(ctx context.Context, org, name string) (*github.Repository, error) {
	repo, _, err := c.rest.Repositories.Get(ctx, org, name)
	return repo, err
}

func (c *client) CreateRepo(ctx context.Context, org, name string, private bool) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	hasWiki := false
	_, _, err := c.rest.Repositories.Create(ctx, org, &github.Repository{
		Name:    &name,
		Private: &private,
		HasWiki: &hasWiki,
	})
	return err
}

func (c *client) UpdateRepoVisibility(ctx context.Context, org, name string, private bool) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Repositories.Edit(ctx, org, name, &github.Repository{Private: &private})
	return err
}

func (c *client) UpdateRepoHasWiki(ctx context.Context, org, name string, hasWiki bool) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Repositories.Edit(ctx, org, name, &github.Repository{HasWiki: &hasWiki})
	return err
}

func (c *client) GetForkPRApprovalPolicy(ctx context.Context, org, name string) (string, error) {
	policy, _, err := c.rest.Actions.GetForkPRApprovalPolicy(ctx, org, name)
	if err != nil {
		return "", err
	}
	return policy.GetApprovalPolicy(), nil
}

func (c *client) SetForkPRApprovalPolicy(ctx context.Context, org, name, policy string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Actions.EditForkPRApprovalPolicy(ctx, org, name, &github.ForkPRApprovalPolicy{ApprovalPolicy: &policy})
	return err
}

func (c *client) ListRepoTeams(ctx context.Context, org, name string) ([]*github.Team, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.Team, *github.Response, error) {
		return c.rest.Repositories.ListTeams(ctx, org, name, opt)
	})
}

func (c *client) AddRepoTeam(ctx context.Context, org, name, teamSlug, permission string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Teams.AddTeamRepoBySlug(ctx, org, teamSlug, org, name, &github.TeamAddTeamRepoOptions{Permission: permission})
	return err
}

func (c *client) UpdateRepoTeam(ctx context.Context, org, name, teamSlug, permission string) error {
	return c.AddRepoTeam(ctx, org, name, teamSlug, permission) // AddTeamRepo is also the update call on the wire
}

func (c *client) RemoveRepoTeam(ctx context.Context, org, name, teamSlug string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Teams.RemoveTeamRepoBySlug(ctx, org, teamSlug, org, name)
	return err
}

func (c *client) ListRepoCollaborators(ctx context.Context, org, name string) ([]*github.User, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.User, *github.Response, error) {
		return c.rest.Repositories.ListCollaborators(ctx, org, name, &github.ListCollaboratorsOptions{
			Affiliation: "direct",
			ListOptions: *opt,
		})
	})
}

func (c *client) ListPendingRepoInvitations(ctx context.Context, org, name string) ([]*github.RepositoryInvitation, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.RepositoryInvitation, *github.Response, error) {
		return c.rest.Repositories.ListInvitations(ctx, org, name, opt)
	})
}

func (c *client) AddRepoCollaborator(ctx context.Context, org, name, login, permission string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Repositories.AddCollaborator(ctx, org, name, login, &github.RepositoryAddCollaboratorOptions{Permission: permission})
	return err
}

func (c *client) RemoveRepoCollaborator(ctx context.Context, org, name, login string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Repositories.RemoveCollaborator(ctx, org, name, login)
	return err
}

func (c *client) RemoveRepoInvitation(ctx context.Context, org, name string, invitationID int64) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Repositories.DeleteInvitation(ctx, org, name, invitationID)
	return err
}

func (c *client) UpdateRepoInvitation(ctx context.Context, org, name string, invitationID int64, permission string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Repositories.UpdateInvitation(ctx, org, name, invitationID, permission)
	return err
}

// StargazerCount returns the observed stargazer count, used by the
// visibility-downgrade guard (§4.4, "unless the observed stargazer
// count is >=100 or unknown").
func StargazerCount(repo *github.Repository) (int, bool) {
	if repo == nil || repo.StargazersCount == nil {
		return 0, false
	}
	return *repo.StargazersCount, true
}
