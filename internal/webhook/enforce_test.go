package webhook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

const fixtureDoc = `
organization: electron
teams:
  - name: core
    maintainers: [alice]
repositories:
  - name: electron
    external_collaborators:
      bob: write
`

func newTestServer(t *testing.T, client platform.Client) (*Server, *recordingSink) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheriff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureDoc), 0o644))

	sink := &recordingSink{}
	return &Server{
		ConfigEnv: config.Env{FileLocalPath: path},
		Clients:   platform.NewClientCacheFromClients(map[string]platform.Client{"electron": client}),
		Alerts:    sink,
	}, sink
}

func TestEnforceCollaborator_OrgNotDeclared(t *testing.T) {
	s, _ := newTestServer(t, &fakeClient{})
	outcome, _, err := s.enforceCollaborator(context.Background(), "other-org", "electron", "bob", "added")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAllow, outcome)
}

func TestEnforceCollaborator_RepoNotDeclared(t *testing.T) {
	s, _ := newTestServer(t, &fakeClient{})
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "other-repo", "bob", "added")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAllow, outcome)
}

func TestEnforceCollaborator_OrgOwnerAlwaysAllowed(t *testing.T) {
	client := &fakeClient{owners: []*github.User{{Login: github.String("carol")}}}
	s, _ := newTestServer(t, client)
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "electron", "carol", "added")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAllow, outcome)
	assert.Empty(t, client.removed)
}

func TestEnforceCollaborator_UndeclaredCollaboratorRemoved(t *testing.T) {
	client := &fakeClient{}
	s, _ := newTestServer(t, client)
	outcome, detail, err := s.enforceCollaborator(context.Background(), "electron", "electron", "mallory", "added")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeRevert, outcome)
	assert.NotEmpty(t, detail)
	assert.Equal(t, []string{"mallory"}, client.removed)
}

func TestEnforceCollaborator_UndeclaredCollaboratorRemovedAction_NoOp(t *testing.T) {
	client := &fakeClient{}
	s, _ := newTestServer(t, client)
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "electron", "mallory", "removed")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAllow, outcome)
	assert.Empty(t, client.removed)
}

func TestEnforceCollaborator_MissingCollaboratorAdded(t *testing.T) {
	client := &fakeClient{}
	s, _ := newTestServer(t, client)
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "electron", "bob", "added")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAdjust, outcome)
	require.Len(t, client.added, 1)
	assert.Equal(t, "bob", client.added[0].login)
	assert.Equal(t, "push", client.added[0].permission)
}

func TestEnforceCollaborator_WrongLevelAdjusted(t *testing.T) {
	client := &fakeClient{
		collaborators: []*github.User{
			{Login: github.String("bob"), Permissions: map[string]bool{"pull": true}},
		},
	}
	s, _ := newTestServer(t, client)
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "electron", "bob", "edited")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAdjust, outcome)
	require.Len(t, client.added, 1)
	assert.Equal(t, "push", client.added[0].permission)
}

func TestEnforceCollaborator_RemovedActionButDeclaredReverts(t *testing.T) {
	client := &fakeClient{}
	s, _ := newTestServer(t, client)
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "electron", "bob", "removed")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeRevert, outcome)
	require.Len(t, client.added, 1)
}

func TestEnforceCollaborator_AlreadyCorrectIsAllowed(t *testing.T) {
	client := &fakeClient{
		collaborators: []*github.User{
			{Login: github.String("bob"), Permissions: map[string]bool{"push": true}},
		},
	}
	s, _ := newTestServer(t, client)
	outcome, _, err := s.enforceCollaborator(context.Background(), "electron", "electron", "bob", "edited")
	require.NoError(t, err)
	assert.Equal(t, alert.OutcomeAllow, outcome)
	assert.Empty(t, client.added)
	assert.Empty(t, client.removed)
}

func TestHandleMember_AllowOutcomeDoesNotAlert(t *testing.T) {
	client := &fakeClient{
		collaborators: []*github.User{
			{Login: github.String("bob"), Permissions: map[string]bool{"push": true}},
		},
	}
	s, sink := newTestServer(t, client)
	s.handleMember(context.Background(), &github.MemberEvent{
		Action: github.String("edited"),
		Member: &github.User{Login: github.String("bob")},
		Repo: &github.Repository{
			Name:  github.String("electron"),
			Owner: &github.User{Login: github.String("electron")},
		},
	}, nil)
	assert.Empty(t, sink.flushes)
}

func TestHandleMember_RevertOutcomeAlerts(t *testing.T) {
	client := &fakeClient{}
	s, sink := newTestServer(t, client)
	s.handleMember(context.Background(), &github.MemberEvent{
		Action: github.String("added"),
		Member: &github.User{Login: github.String("mallory")},
		Repo: &github.Repository{
			Name:  github.String("electron"),
			Owner: &github.User{Login: github.String("electron")},
		},
	}, nil)
	require.Len(t, sink.flushes, 1)
	assert.Equal(t, []string{"mallory"}, client.removed)
}
