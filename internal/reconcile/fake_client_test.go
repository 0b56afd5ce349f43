package reconcile

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// fakeClient is a minimal platform.Client stand-in: tests only script
// the methods the function under test actually calls; everything else
// is a no-op returning zero values.
type fakeClient struct {
	repo *github.Repository

	teams   []*github.Team
	owners  []*github.User
	pending []*github.Invitation

	membersByTeamRole map[string][]string // "<slug>/<role>" -> logins

	deletedTeams []string

	addedMembers   []addedMember
	removedMembers []string

	visibilityUpdates []bool
}

type addedMember struct {
	slug       string
	login      string
	maintainer bool
}

func (f *fakeClient) ListOrgMembers(ctx context.Context, org string) ([]*github.User, error) {
	return nil, nil
}
func (f *fakeClient) ListOrgOwners(ctx context.Context, org string) ([]*github.User, error) {
	return f.owners, nil
}
func (f *fakeClient) IsMember(ctx context.Context, org, login string) (bool, error) { return false, nil }
func (f *fakeClient) ListPendingOrgInvitations(ctx context.Context, org string) ([]*github.Invitation, error) {
	return f.pending, nil
}
func (f *fakeClient) CreateOrgInvitation(ctx context.Context, org, login string) error { return nil }

func (f *fakeClient) ListTeams(ctx context.Context, org string) ([]*github.Team, error) {
	return f.teams, nil
}
func (f *fakeClient) CreateTeam(ctx context.Context, org, name string, secret bool) (*github.Team, error) {
	return nil, nil
}
func (f *fakeClient) UpdateTeamPrivacy(ctx context.Context, org, slug string, secret bool) error {
	return nil
}
func (f *fakeClient) UpdateTeamParent(ctx context.Context, org, slug string, parentTeamID int64) error {
	return nil
}
func (f *fakeClient) DeleteTeam(ctx context.Context, org, slug string) error {
	f.deletedTeams = append(f.deletedTeams, slug)
	return nil
}
func (f *fakeClient) TeamMembersByRole(ctx context.Context, org, slug, role string) ([]string, error) {
	return f.membersByTeamRole[slug+"/"+role], nil
}
func (f *fakeClient) AddTeamMember(ctx context.Context, org, slug, login string, maintainer bool) error {
	f.addedMembers = append(f.addedMembers, addedMember{slug: slug, login: login, maintainer: maintainer})
	return nil
}
func (f *fakeClient) RemoveTeamMember(ctx context.Context, org, slug, login string) error {
	f.removedMembers = append(f.removedMembers, login)
	return nil
}

func (f *fakeClient) ListRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	return nil, nil
}
func (f *fakeClient) GetRepo(ctx context.Context, org, name string) (*github.Repository, error) {
	return f.repo, nil
}
func (f *fakeClient) CreateRepo(ctx context.Context, org, name string, private bool) error { return nil }
func (f *fakeClient) UpdateRepoVisibility(ctx context.Context, org, name string, private bool) error {
	f.visibilityUpdates = append(f.visibilityUpdates, private)
	return nil
}
func (f *fakeClient) UpdateRepoHasWiki(ctx context.Context, org, name string, hasWiki bool) error {
	return nil
}
func (f *fakeClient) GetForkPRApprovalPolicy(ctx context.Context, org, name string) (string, error) {
	return "", nil
}
func (f *fakeClient) SetForkPRApprovalPolicy(ctx context.Context, org, name, policy string) error {
	return nil
}
func (f *fakeClient) ListRepoTeams(ctx context.Context, org, name string) ([]*github.Team, error) {
	return nil, nil
}
func (f *fakeClient) AddRepoTeam(ctx context.Context, org, name, teamSlug, permission string) error {
	return nil
}
func (f *fakeClient) UpdateRepoTeam(ctx context.Context, org, name, teamSlug, permission string) error {
	return nil
}
func (f *fakeClient) RemoveRepoTeam(ctx context.Context, org, name, teamSlug string) error { return nil }

func (f *fakeClient) ListRepoCollaborators(ctx context.Context, org, name string) ([]*github.User, error) {
	return nil, nil
}
func (f *fakeClient) ListPendingRepoInvitations(ctx context.Context, org, name string) ([]*github.RepositoryInvitation, error) {
	return nil, nil
}
func (f *fakeClient) AddRepoCollaborator(ctx context.Context, org, name, login, permission string) error {
	return nil
}
func (f *fakeClient) RemoveRepoCollaborator(ctx context.Context, org, name, login string) error {
	return nil
}
func (f *fakeClient) RemoveRepoInvitation(ctx context.Context, org, name string, invitationID int64) error {
	return nil
}
func (f *fakeClient) UpdateRepoInvitation(ctx context.Context, org, name string, invitationID int64, permission string) error {
	return nil
}

func (f *fakeClient) ListRepoRulesets(ctx context.Context, org, name string) ([]*github.RepositoryRuleset, error) {
	return nil, nil
}
func (f *fakeClient) GetRepoRuleset(ctx context.Context, org, name string, id int64) (*github.RepositoryRuleset, error) {
	return nil, nil
}
func (f *fakeClient) CreateRepoRuleset(ctx context.Context, org, name string, rs *github.RepositoryRuleset) error {
	return nil
}
func (f *fakeClient) UpdateRepoRuleset(ctx context.Context, org, name string, id int64, rs *github.RepositoryRuleset) error {
	return nil
}
func (f *fakeClient) DeleteRepoRuleset(ctx context.Context, org, name string, id int64) error {
	return nil
}

func (f *fakeClient) ListCustomProperties(ctx context.Context, org string) ([]*github.CustomProperty, error) {
	return nil, nil
}
func (f *fakeClient) CreateOrUpdateCustomProperty(ctx context.Context, org string, prop *github.CustomProperty) error {
	return nil
}
func (f *fakeClient) RemoveCustomProperty(ctx context.Context, org, name string) error { return nil }
func (f *fakeClient) GetRepoCustomPropertyValues(ctx context.Context, org, name string) ([]*github.CustomPropertyValue, error) {
	return nil, nil
}
func (f *fakeClient) SetRepoCustomPropertyValues(ctx context.Context, org, name string, values []*github.CustomPropertyValue) error {
	return nil
}

func (f *fakeClient) CreateCheckRun(ctx context.Context, org, repo string, opts github.CreateCheckRunOptions) (int64, error) {
	return 0, nil
}
func (f *fakeClient) UpdateCheckRun(ctx context.Context, org, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) error {
	return nil
}

func (f *fakeClient) GetReleaseByTag(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
	return nil, nil
}

func (f *fakeClient) CreateGist(ctx context.Context, description string, public bool, filename, content string) (string, error) {
	return "", nil
}

func (f *fakeClient) GetContent(org, repo, path, ref string) (string, string, error) {
	return "", "", nil
}

func (f *fakeClient) GetPullRequest(ctx context.Context, org, repo string, number int) (*github.PullRequest, error) {
	return nil, nil
}
func (f *fakeClient) ReadOnly() bool { return false }
