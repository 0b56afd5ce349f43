package webhook

import (
	"context"

	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/alert"
)

// fakeClient is a minimal platform.Client stand-in for enforcement
// tests: only the methods enforceCollaborator actually calls carry
// scripted behavior, the rest are no-ops returning zero values.
type fakeClient struct {
	owners        []*github.User
	collaborators []*github.User

	removed []string // logins removed via RemoveRepoCollaborator
	added   []addedCollaborator
}

type addedCollaborator struct {
	login      string
	permission string
}

func (f *fakeClient) ListOrgMembers(ctx context.Context, org string) ([]*github.User, error) { return nil, nil }
func (f *fakeClient) ListOrgOwners(ctx context.Context, org string) ([]*github.User, error) {
	return f.owners, nil
}
func (f *fakeClient) IsMember(ctx context.Context, org, login string) (bool, error) { return false, nil }
func (f *fakeClient) ListPendingOrgInvitations(ctx context.Context, org string) ([]*github.Invitation, error) {
	return nil, nil
}
func (f *fakeClient) CreateOrgInvitation(ctx context.Context, org, login string) error { return nil }

func (f *fakeClient) ListTeams(ctx context.Context, org string) ([]*github.Team, error) { return nil, nil }
func (f *fakeClient) CreateTeam(ctx context.Context, org, name string, secret bool) (*github.Team, error) {
	return nil, nil
}
func (f *fakeClient) UpdateTeamPrivacy(ctx context.Context, org, slug string, secret bool) error {
	return nil
}
func (f *fakeClient) UpdateTeamParent(ctx context.Context, org, slug string, parentTeamID int64) error {
	return nil
}
func (f *fakeClient) DeleteTeam(ctx context.Context, org, slug string) error { return nil }
func (f *fakeClient) TeamMembersByRole(ctx context.Context, org, slug, role string) ([]string, error) {
	return nil, nil
}
func (f *fakeClient) AddTeamMember(ctx context.Context, org, slug, login string, maintainer bool) error {
	return nil
}
func (f *fakeClient) RemoveTeamMember(ctx context.Context, org, slug, login string) error { return nil }

func (f *fakeClient) ListRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	return nil, nil
}
func (f *fakeClient) GetRepo(ctx context.Context, org, name string) (*github.Repository, error) {
	return nil, nil
}
func (f *fakeClient) CreateRepo(ctx context.Context, org, name string, private bool) error { return nil }
func (f *fakeClient) UpdateRepoVisibility(ctx context.Context, org, name string, private bool) error {
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
	return f.collaborators, nil
}
func (f *fakeClient) ListPendingRepoInvitations(ctx context.Context, org, name string) ([]*github.RepositoryInvitation, error) {
	return nil, nil
}
func (f *fakeClient) AddRepoCollaborator(ctx context.Context, org, name, login, permission string) error {
	f.added = append(f.added, addedCollaborator{login: login, permission: permission})
	return nil
}
func (f *fakeClient) RemoveRepoCollaborator(ctx context.Context, org, name, login string) error {
	f.removed = append(f.removed, login)
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

// recordingSink is a minimal alert.Sink fake that counts flushes,
// mirroring the pattern used in the alert package's own tests.
type recordingSink struct {
	flushes []*alert.Builder
}

func (r *recordingSink) Flush(ctx context.Context, b *alert.Builder) error {
	r.flushes = append(r.flushes, b)
	return nil
}
