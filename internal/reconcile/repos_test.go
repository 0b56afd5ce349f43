package reconcile

import (
	"context"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

type recordingSink struct {
	flushes []*alert.Builder
}

func (s *recordingSink) Flush(_ context.Context, b *alert.Builder) error {
	s.flushes = append(s.flushes, b)
	return nil
}

func testLog() *logrus.Entry {
	return logrus.NewEntry(logrus.New())
}

func TestReconcileVisibility_PublicToPrivatePopularRepoGuarded(t *testing.T) {
	stars := 1732
	fc := &fakeClient{repo: &github.Repository{Private: github.Bool(false), StargazersCount: &stars}}
	client := &platform.CachedClient{Client: fc}
	sink := &recordingSink{}
	r := &Reconciler{Alerts: sink}
	org := &config.OrganizationConfig{Organization: "electron"}
	repo := &config.RepositoryConfig{Name: "electron", Visibility: config.VisibilityPrivate}

	r.reconcileVisibility(context.Background(), client, org, repo, testLog())

	assert.Empty(t, fc.visibilityUpdates, "observed-public repo with many stargazers must not be mutated")
	assert.Len(t, sink.flushes, 1, "expected a critical alert instead")
}

func TestReconcileVisibility_PublicToPrivateUnknownStargazersGuarded(t *testing.T) {
	fc := &fakeClient{repo: &github.Repository{Private: github.Bool(false)}}
	client := &platform.CachedClient{Client: fc}
	sink := &recordingSink{}
	r := &Reconciler{Alerts: sink}
	org := &config.OrganizationConfig{Organization: "electron"}
	repo := &config.RepositoryConfig{Name: "electron", Visibility: config.VisibilityPrivate}

	r.reconcileVisibility(context.Background(), client, org, repo, testLog())

	assert.Empty(t, fc.visibilityUpdates)
	assert.Len(t, sink.flushes, 1)
}

func TestReconcileVisibility_LowStargazerCountMutates(t *testing.T) {
	stars := 3
	fc := &fakeClient{repo: &github.Repository{Private: github.Bool(false), StargazersCount: &stars}}
	client := &platform.CachedClient{Client: fc}
	sink := &recordingSink{}
	r := &Reconciler{Alerts: sink}
	org := &config.OrganizationConfig{Organization: "electron"}
	repo := &config.RepositoryConfig{Name: "electron", Visibility: config.VisibilityPrivate}

	r.reconcileVisibility(context.Background(), client, org, repo, testLog())

	assert.Equal(t, []bool{true}, fc.visibilityUpdates)
	assert.Empty(t, sink.flushes)
}

func TestReconcileVisibility_AlreadyPrivateNoGuard(t *testing.T) {
	// Observed repo is already private; a declared private value is a
	// no-op regardless of popularity, and the guard (which only applies
	// when a visibility change is requested) must never fire here.
	stars := 5000
	fc := &fakeClient{repo: &github.Repository{Private: github.Bool(true), StargazersCount: &stars}}
	client := &platform.CachedClient{Client: fc}
	sink := &recordingSink{}
	r := &Reconciler{Alerts: sink}
	org := &config.OrganizationConfig{Organization: "electron"}
	repo := &config.RepositoryConfig{Name: "electron", Visibility: config.VisibilityPrivate}

	r.reconcileVisibility(context.Background(), client, org, repo, testLog())

	assert.Empty(t, fc.visibilityUpdates)
	assert.Empty(t, sink.flushes)
}

func TestReconcileVisibility_NoChangeRequestedNeverFetches(t *testing.T) {
	fc := &fakeClient{}
	client := &platform.CachedClient{Client: fc}
	r := &Reconciler{Alerts: alert.NullSink{}}
	org := &config.OrganizationConfig{Organization: "electron"}
	repo := &config.RepositoryConfig{Name: "electron", Visibility: config.VisibilityCurrent}

	r.reconcileVisibility(context.Background(), client, org, repo, testLog())

	assert.Empty(t, fc.visibilityUpdates)
}
