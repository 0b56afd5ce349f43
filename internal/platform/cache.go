package platform

import (
	"context"
	"sync"

	"github.com/google/go-github/v66/github"
	"golang.org/x/sync/singleflight"
)

// ClientCache memoizes one Client per org and the fleet-wide listings
// (members, owners, teams, repos) each org's reconcile pass reads
// repeatedly, so a single run issues each of those list calls once
// per org rather than once per team/repo that needs it (§4.1 item 3).
type ClientCache struct {
	creds *CredentialProvider

	mu      sync.Mutex
	entries map[string]*CachedClient
}

// NewClientCache builds a cache backed by creds.
func NewClientCache(creds *CredentialProvider) *ClientCache {
	return &ClientCache{creds: creds, entries: make(map[string]*CachedClient)}
}

// Get returns the memoized client for org, authenticating it on first
// use. readOnly is only consulted the first time an org is seen;
// later callers get back the client created for that org regardless
// of what they pass, since a single reconcile run never mixes
// read-only and mutating access to the same org.
func (cc *ClientCache) Get(ctx context.Context, org string, readOnly bool) (*CachedClient, error) {
	cc.mu.Lock()
	if entry, ok := cc.entries[org]; ok {
		cc.mu.Unlock()
		return entry, nil
	}
	cc.mu.Unlock()

	underlying, err := cc.creds.ClientFor(ctx, org, readOnly)
	if err != nil {
		return nil, err
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	if entry, ok := cc.entries[org]; ok {
		// Lost a race to build this org's client; discard ours.
		return entry, nil
	}
	entry := &CachedClient{Client: underlying}
	cc.entries[org] = entry
	return entry, nil
}

// NewClientCacheFromClients builds a cache pre-populated with clients,
// bypassing credential acquisition. Used by tests that need to drive
// cache-consuming code against a fake Client.
func NewClientCacheFromClients(clients map[string]Client) *ClientCache {
	entries := make(map[string]*CachedClient, len(clients))
	for org, c := range clients {
		entries[org] = &CachedClient{Client: c}
	}
	return &ClientCache{entries: entries}
}

// Invalidate drops the memoized client and listings for org, so the
// next Get re-authenticates and every listing is fetched afresh.
func (cc *ClientCache) Invalidate(org string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.entries, org)
}

// InvalidateListings clears only the memoized fleet-wide listings for
// org, keeping the authenticated client itself, so a mutation that
// changes membership or team/repo rosters is observed on the next
// read within the same reconcile pass without re-authenticating.
func (cc *ClientCache) InvalidateListings(org string) {
	cc.mu.Lock()
	entry, ok := cc.entries[org]
	cc.mu.Unlock()
	if ok {
		entry.invalidate()
	}
}

// CachedClient wraps a Client and memoizes the handful of fleet-wide
// listings every team/repo reconcile step would otherwise re-fetch:
// org members, org owners, teams, and repos. Each listing is fetched
// at most once concurrently via singleflight, then cached until
// invalidate is called.
type CachedClient struct {
	Client

	group singleflight.Group

	mu      sync.RWMutex
	members []*github.User
	owners  []*github.User
	teams   []*github.Team
	repos   []*github.Repository
	hasM    bool
	hasO    bool
	hasT    bool
	hasR    bool
}

func (cc *CachedClient) invalidate() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.members, cc.owners, cc.teams, cc.repos = nil, nil, nil, nil
	cc.hasM, cc.hasO, cc.hasT, cc.hasR = false, false, false, false
}

// AllMembers returns the org's full member list, memoized.
func (cc *CachedClient) AllMembers(ctx context.Context, org string) ([]*github.User, error) {
	cc.mu.RLock()
	if cc.hasM {
		defer cc.mu.RUnlock()
		return cc.members, nil
	}
	cc.mu.RUnlock()

	v, err, _ := cc.group.Do("members", func() (interface{}, error) {
		return cc.Client.ListOrgMembers(ctx, org)
	})
	if err != nil {
		return nil, err
	}
	members := v.([]*github.User)

	cc.mu.Lock()
	cc.members, cc.hasM = members, true
	cc.mu.Unlock()
	return members, nil
}

// AllOwners returns the org's full owner list, memoized.
func (cc *CachedClient) AllOwners(ctx context.Context, org string) ([]*github.User, error) {
	cc.mu.RLock()
	if cc.hasO {
		defer cc.mu.RUnlock()
		return cc.owners, nil
	}
	cc.mu.RUnlock()

	v, err, _ := cc.group.Do("owners", func() (interface{}, error) {
		return cc.Client.ListOrgOwners(ctx, org)
	})
	if err != nil {
		return nil, err
	}
	owners := v.([]*github.User)

	cc.mu.Lock()
	cc.owners, cc.hasO = owners, true
	cc.mu.Unlock()
	return owners, nil
}

// AllTeams returns the org's full team list, memoized.
func (cc *CachedClient) AllTeams(ctx context.Context, org string) ([]*github.Team, error) {
	cc.mu.RLock()
	if cc.hasT {
		defer cc.mu.RUnlock()
		return cc.teams, nil
	}
	cc.mu.RUnlock()

	v, err, _ := cc.group.Do("teams", func() (interface{}, error) {
		return cc.Client.ListTeams(ctx, org)
	})
	if err != nil {
		return nil, err
	}
	teams := v.([]*github.Team)

	cc.mu.Lock()
	cc.teams, cc.hasT = teams, true
	cc.mu.Unlock()
	return teams, nil
}

// AllRepos returns the org's full repo list, memoized.
func (cc *CachedClient) AllRepos(ctx context.Context, org string) ([]*github.Repository, error) {
	cc.mu.RLock()
	if cc.hasR {
		defer cc.mu.RUnlock()
		return cc.repos, nil
	}
	cc.mu.RUnlock()

	v, err, _ := cc.group.Do("repos", func() (interface{}, error) {
		return cc.Client.ListRepos(ctx, org)
	})
	if err != nil {
		return nil, err
	}
	repos := v.([]*github.Repository)

	cc.mu.Lock()
	cc.repos, cc.hasR = repos, true
	cc.mu.Unlock()
	return repos, nil
}
