package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
)

// ErrReadOnly is returned by every mutating method when the client was
// narrowed to read-only, whether because of the global dry-run flag
// or because the caller explicitly asked for a read-only credential
// (§4.1 item 2, §9 "Narrowing credentials to read-only on dry-run").
var ErrReadOnly = errors.New("platform client is read-only")

type client struct {
	rest     *github.Client
	graphql  *githubv4.Client
	readOnly bool
}

// NewClient wraps an already-authenticated go-github REST client and
// githubv4 GraphQL client. Narrowing to the minimal scope happens in
// the credential provider (credentials.go); this constructor only
// records whether the resulting client may mutate.
func NewClient(rest *github.Client, graphql *githubv4.Client, readOnly bool) Client {
	return &client{rest: rest, graphql: graphql, readOnly: readOnly}
}

func (c *client) ReadOnly() bool { return c.readOnly }

func (c *client) guardMutation() error {
	if c.readOnly {
		return ErrReadOnly
	}
	return nil
}

// --- OrganizationClient ---

func (c *client) ListOrgMembers(ctx context.Context, org string) ([]*github.User, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.User, *github.Response, error) {
		return c.rest.Organizations.ListMembers(ctx, org, &github.ListMembersOptions{ListOptions: *opt})
	})
}

func (c *client) ListOrgOwners(ctx context.Context, org string) ([]*github.User, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.User, *github.Response, error) {
		return c.rest.Organizations.ListMembers(ctx, org, &github.ListMembersOptions{
			Role:        "admin",
			ListOptions: *opt,
		})
	})
}

func (c *client) IsMember(ctx context.Context, org, login string) (bool, error) {
	ok, _, err := c.rest.Organizations.IsMember(ctx, org, login)
	return ok, err
}

func (c *client) ListPendingOrgInvitations(ctx context.Context, org string) ([]*github.Invitation, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.Invitation, *github.Response, error) {
		return c.rest.Organizations.ListPendingOrgInvitations(ctx, org, &github.ListOrgMembershipsOptions{ListOptions: *opt})
	})
}

func (c *client) CreateOrgInvitation(ctx context.Context, org, login string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	user, _, err := c.rest.Users.Get(ctx, login)
	if err != nil {
		return fmt.Errorf("resolving login %q: %w", login, err)
	}
	if user.GetLogin() != login {
		// Case-mismatch between config and platform canonical login
		// is fatal per §4.2 step 2 / §9 open question: the caller
		// maps this into a PolicyViolation and halts the org.
		return &ErrLoginCaseMismatch{Declared: login, Canonical: user.GetLogin()}
	}
	role := "direct_member"
	_, _, err = c.rest.Organizations.CreateOrgInvitation(ctx, org, &github.CreateOrgInvitationOptions{
		InviteeID: user.ID,
		Role:      &role,
	})
	return err
}

// ErrLoginCaseMismatch is returned when a login resolves to a
// differently-cased canonical login on the platform (§4.2 step 2).
type ErrLoginCaseMismatch struct {
	Declared  string
	Canonical string
}

func (e *ErrLoginCaseMismatch) Error() string {
	return fmt.Sprintf("login %q does not match canonical login %q", e.Declared, e.Canonical)
}

// --- TeamClient ---

func (c *client) ListTeams(ctx context.Context, org string) ([]*github.Team, error) {
	return paginate(func(opt *github.ListOptions) ([]*github.Team, *github.Response, error) {
		return c.rest.Teams.ListTeams(ctx, org, opt)
	})
}

func (c *client) CreateTeam(ctx context.Context, org, name string, secret bool) (*github.Team, error) {
	if err := c.guardMutation(); err != nil {
		return nil, err
	}
	privacy := "closed"
	if secret {
		privacy = "secret"
	}
	team, _, err := c.rest.Teams.CreateTeam(ctx, org, github.NewTeam{
		Name:    name,
		Privacy: &privacy,
	})
	return team, err
}

func (c *client) UpdateTeamPrivacy(ctx context.Context, org, slug string, secret bool) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	privacy := "closed"
	if secret {
		privacy = "secret"
	}
	_, _, err := c.rest.Teams.EditTeamBySlug(ctx, org, slug, github.NewTeam{Name: slug, Privacy: &privacy}, false)
	return err
}

func (c *client) UpdateTeamParent(ctx context.Context, org, slug string, parentTeamID int64) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, _, err := c.rest.Teams.EditTeamBySlug(ctx, org, slug, github.NewTeam{Name: slug, ParentTeamID: &parentTeamID}, false)
	return err
}

func (c *client) DeleteTeam(ctx context.Context, org, slug string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Teams.DeleteTeamBySlug(ctx, org, slug)
	return err
}

func (c *client) AddTeamMember(ctx context.Context, org, slug, login string, maintainer bool) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	role := "member"
	if maintainer {
		role = "maintainer"
	}
	_, _, err := c.rest.Teams.AddTeamMembershipBySlug(ctx, org, slug, login, &github.TeamAddTeamMembershipOptions{Role: role})
	return err
}

func (c *client) RemoveTeamMember(ctx context.Context, org, slug, login string) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	_, err := c.rest.Teams.RemoveTeamMembershipBySlug(ctx, org, slug, login)
	return err
}
