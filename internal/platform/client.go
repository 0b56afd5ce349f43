package platform

import (
	"context"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
)

// The Client interface is segregated by concern, the same way
// prow/github.Client is (OrganizationClient, TeamClient,
// RepositoryClient, ...) so that call sites and test fakes only need
// to implement the slice of the API surface they actually exercise.
type Client interface {
	OrganizationClient
	TeamClient
	RepositoryClient
	RulesetClient
	PropertyClient
	CheckClient
	ReleaseClient
	GistClient
	ContentClient
	PullRequestClient

	// ReadOnly reports whether this client was narrowed to read-only
	// (dry-run or an explicitly read-only credential request, §4.1
	// item 2). Mutating methods on a read-only client must not be
	// called; the reconciler enforces this at the call site as
	// defense-in-depth on top of the narrowed token scope itself.
	ReadOnly() bool
}

type OrganizationClient interface {
	ListOrgMembers(ctx context.Context, org string) ([]*github.User, error)
	ListOrgOwners(ctx context.Context, org string) ([]*github.User, error)
	IsMember(ctx context.Context, org, login string) (bool, error)
	ListPendingOrgInvitations(ctx context.Context, org string) ([]*github.Invitation, error)
	CreateOrgInvitation(ctx context.Context, org, login string) error
}

type TeamClient interface {
	ListTeams(ctx context.Context, org string) ([]*github.Team, error)
	CreateTeam(ctx context.Context, org, name string, secret bool) (*github.Team, error)
	UpdateTeamPrivacy(ctx context.Context, org, slug string, secret bool) error
	UpdateTeamParent(ctx context.Context, org, slug string, parentTeamID int64) error
	DeleteTeam(ctx context.Context, org, slug string) error
	// TeamMembersByRole issues the IMMEDIATE-membership GraphQL query
	// from §4.3, capped at 100 results per query, for the given role
	// ("MEMBER" or "MAINTAINER").
	TeamMembersByRole(ctx context.Context, org, slug, role string) ([]string, error)
	AddTeamMember(ctx context.Context, org, slug, login string, maintainer bool) error
	RemoveTeamMember(ctx context.Context, org, slug, login string) error
}

type RepositoryClient interface {
	ListRepos(ctx context.Context, org string) ([]*github.Repository, error)
	GetRepo(ctx context.Context, org, name string) (*github.Repository, error)
	CreateRepo(ctx context.Context, org, name string, private bool) error
	UpdateRepoVisibility(ctx context.Context, org, name string, private bool) error
	UpdateRepoHasWiki(ctx context.Context, org, name string, hasWiki bool) error
	GetForkPRApprovalPolicy(ctx context.Context, org, name string) (string, error)
	SetForkPRApprovalPolicy(ctx context.Context, org, name, policy string) error

	ListRepoTeams(ctx context.Context, org, name string) ([]*github.Team, error)
	AddRepoTeam(ctx context.Context, org, name, teamSlug, permission string) error
	UpdateRepoTeam(ctx context.Context, org, name, teamSlug, permission string) error
	RemoveRepoTeam(ctx context.Context, org, name, teamSlug string) error

	ListRepoCollaborators(ctx context.Context, org, name string) ([]*github.User, error)
	ListPendingRepoInvitations(ctx context.Context, org, name string) ([]*github.RepositoryInvitation, error)
	AddRepoCollaborator(ctx context.Context, org, name, login, permission string) error
	RemoveRepoCollaborator(ctx context.Context, org, name, login string) error
	RemoveRepoInvitation(ctx context.Context, org, name string, invitationID int64) error
	UpdateRepoInvitation(ctx context.Context, org, name string, invitationID int64, permission string) error
}

type RulesetClient interface {
	ListRepoRulesets(ctx context.Context, org, name string) ([]*github.RepositoryRuleset, error)
	GetRepoRuleset(ctx context.Context, org, name string, id int64) (*github.RepositoryRuleset, error)
	CreateRepoRuleset(ctx context.Context, org, name string, rs *github.RepositoryRuleset) error
	UpdateRepoRuleset(ctx context.Context, org, name string, id int64, rs *github.RepositoryRuleset) error
	DeleteRepoRuleset(ctx context.Context, org, name string, id int64) error
}

type PropertyClient interface {
	ListCustomProperties(ctx context.Context, org string) ([]*github.CustomProperty, error)
	CreateOrUpdateCustomProperty(ctx context.Context, org string, prop *github.CustomProperty) error
	RemoveCustomProperty(ctx context.Context, org, name string) error
	GetRepoCustomPropertyValues(ctx context.Context, org, name string) ([]*github.CustomPropertyValue, error)
	SetRepoCustomPropertyValues(ctx context.Context, org, name string, values []*github.CustomPropertyValue) error
}

type CheckClient interface {
	CreateCheckRun(ctx context.Context, org, repo string, opts github.CreateCheckRunOptions) (int64, error)
	UpdateCheckRun(ctx context.Context, org, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) error
}

type ReleaseClient interface {
	GetReleaseByTag(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error)
}

type GistClient interface {
	CreateGist(ctx context.Context, description string, public bool, filename, content string) (rawURL string, err error)
}

// ContentClient fetches a single file's content at a ref. It
// structurally satisfies config.ContentFetcher (§4.1, "Input sources")
// without either package importing the other's concrete type.
type ContentClient interface {
	GetContent(org, repo, path, ref string) (content string, encoding string, err error)
}

// PullRequestClient is used only by the dry-run harness (§4.8) to poll
// mergeability.
type PullRequestClient interface {
	GetPullRequest(ctx context.Context, org, repo string, number int) (*github.PullRequest, error)
}

// githubv4TeamMembers mirrors the GraphQL query named verbatim in
// §4.3: organization(login).team(slug).members(membership:IMMEDIATE,
// role:ROLE), paginated by cursor, capped at 100 per page.
type githubv4TeamMembers struct {
	Organization struct {
		Team struct {
			Members struct {
				Nodes []struct {
					Login githubv4.String
				}
				PageInfo struct {
					HasNextPage bool
					EndCursor   githubv4.String
				}
			} `graphql:"members(membership: $membership, role: $role, first: 100, after: $after)"`
		} `graphql:"team(slug: $slug)"`
	} `graphql:"organization(login: $org)"`
}
