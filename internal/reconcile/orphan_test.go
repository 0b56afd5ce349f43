package reconcile

import (
	"context"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

func TestReconcileOrphanTeams_UnconditionalDeleteByDefault(t *testing.T) {
	fc := &fakeClient{teams: []*github.Team{
		{Slug: github.String("core")},
		{Slug: github.String("orphan")},
	}}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{Alerts: alert.NullSink{}, Clients: platform.NewClientCacheFromClients(map[string]platform.Client{"electron": fc})}
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams:        []*config.TeamConfig{{Name: "core"}},
	}

	err := r.reconcileOrphanTeams(context.Background(), client, org, testLog())

	assert.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, fc.deletedTeams, "a team absent from the declared set is deleted unconditionally by default")
}

func TestReconcileOrphanTeams_PreventTeamDeletionSuppresses(t *testing.T) {
	fc := &fakeClient{teams: []*github.Team{
		{Slug: github.String("core")},
		{Slug: github.String("orphan")},
	}}
	client := &platform.CachedClient{Client: fc}
	sink := &recordingSink{}
	r := &Reconciler{Alerts: sink, Clients: platform.NewClientCacheFromClients(map[string]platform.Client{"electron": fc})}
	org := &config.OrganizationConfig{
		Organization:          "electron",
		Teams:                 []*config.TeamConfig{{Name: "core"}},
		DestructiveOperations: config.DestructiveOperations{PreventTeamDeletion: true},
	}

	err := r.reconcileOrphanTeams(context.Background(), client, org, testLog())

	assert.NoError(t, err)
	assert.Empty(t, fc.deletedTeams, "prevent_team_deletion must suppress the delete")
	assert.Len(t, sink.flushes, 1, "suppressed deletion is still surfaced as a warning alert")
}

func TestReconcileOrphanTeams_DryRunDoesNotDelete(t *testing.T) {
	fc := &fakeClient{teams: []*github.Team{{Slug: github.String("orphan")}}}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{Alerts: alert.NullSink{}, DryRun: true, Clients: platform.NewClientCacheFromClients(map[string]platform.Client{"electron": fc})}
	org := &config.OrganizationConfig{Organization: "electron"}

	err := r.reconcileOrphanTeams(context.Background(), client, org, testLog())

	assert.NoError(t, err)
	assert.Empty(t, fc.deletedTeams)
}
