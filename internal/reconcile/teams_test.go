package reconcile

import (
	"context"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

func TestReconcileTeamMemberships_OrgOwnerStillDeclaredElsewhereIsLeftAlone(t *testing.T) {
	fc := &fakeClient{
		owners: []*github.User{{Login: github.String("alice")}},
		membersByTeamRole: map[string][]string{
			"core/MAINTAINER": {"alice"},
		},
	}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{}
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams: []*config.TeamConfig{
			{Name: "core", Maintainers: []string{"bob"}},
			{Name: "other", Members: []string{"alice"}, Maintainers: []string{"carol"}},
		},
	}
	records := map[string]*teamRecord{
		"core": {slug: "core", declared: org.Teams[0]},
	}

	err := r.reconcileTeamMemberships(context.Background(), client, org, records, testLog())

	assert.NoError(t, err)
	assert.Empty(t, fc.removedMembers, "alice is an org owner and still declared a member elsewhere, so she is not evicted from core")
}

func TestReconcileTeamMemberships_OrgOwnerNotDeclaredAnywhereIsEvicted(t *testing.T) {
	fc := &fakeClient{
		owners: []*github.User{{Login: github.String("alice")}},
		membersByTeamRole: map[string][]string{
			"core/MAINTAINER": {"alice"},
		},
	}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{}
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams: []*config.TeamConfig{
			{Name: "core", Maintainers: []string{"bob"}},
		},
	}
	records := map[string]*teamRecord{
		"core": {slug: "core", declared: org.Teams[0]},
	}

	err := r.reconcileTeamMemberships(context.Background(), client, org, records, testLog())

	assert.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fc.removedMembers, "alice is not declared anywhere in the org, so the org-owner exception does not apply")
}

func TestReconcileTeamMemberships_NonOwnerMaintainerRemovedWhenUndeclared(t *testing.T) {
	fc := &fakeClient{
		membersByTeamRole: map[string][]string{
			"core/MAINTAINER": {"dave"},
		},
	}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{}
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams:        []*config.TeamConfig{{Name: "core", Maintainers: []string{"bob"}}},
	}
	records := map[string]*teamRecord{"core": {slug: "core", declared: org.Teams[0]}}

	err := r.reconcileTeamMemberships(context.Background(), client, org, records, testLog())

	assert.NoError(t, err)
	assert.Equal(t, []string{"dave"}, fc.removedMembers)
}

func TestReconcileTeamMemberships_AddsDeclaredMaintainer(t *testing.T) {
	fc := &fakeClient{}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{}
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams:        []*config.TeamConfig{{Name: "core", Maintainers: []string{"bob"}}},
	}
	records := map[string]*teamRecord{"core": {slug: "core", declared: org.Teams[0]}}

	err := r.reconcileTeamMemberships(context.Background(), client, org, records, testLog())

	assert.NoError(t, err)
	assert.Equal(t, []addedMember{{slug: "core", login: "bob", maintainer: true}}, fc.addedMembers)
}

func TestReconcileTeamMemberships_PendingInvitationSkipsAdd(t *testing.T) {
	fc := &fakeClient{
		pending: []*github.Invitation{{Login: github.String("bob")}},
	}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{}
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams:        []*config.TeamConfig{{Name: "core", Maintainers: []string{"bob"}}},
	}
	records := map[string]*teamRecord{"core": {slug: "core", declared: org.Teams[0]}}

	err := r.reconcileTeamMemberships(context.Background(), client, org, records, testLog())

	assert.NoError(t, err)
	assert.Empty(t, fc.addedMembers, "adding a member is skipped while their org invitation is still pending")
}
