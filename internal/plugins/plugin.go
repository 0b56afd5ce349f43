// Package plugins holds the capability-set fan-out contract (§4.5) and
// a handful of minimal reference collaborators. Plugins are opaque:
// the reconciler dispatches to whichever optional methods a plugin
// implements and otherwise never inspects their internals.
package plugins

import (
	"context"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
)

// Plugin identifies a fan-out collaborator for logging purposes. A
// value need not implement anything beyond this to be registered; it
// simply receives no callbacks.
type Plugin interface {
	Name() string
}

// HasHandleTeam is implemented by plugins that mirror team state
// (membership, privacy) into another system, e.g. a chat user-group or
// a directory group.
type HasHandleTeam interface {
	Plugin
	HandleTeam(ctx context.Context, slug string, team *config.TeamConfig, alerts alert.Sink) error
}

// HasHandleRepo is implemented by plugins that mirror repo state into
// another system, e.g. a hosting-service collaborator list or a
// package-publisher trust policy.
type HasHandleRepo interface {
	Plugin
	HandleRepo(ctx context.Context, owner string, repo *config.RepositoryConfig, teams map[string]config.AccessLevel, alerts alert.Sink) error
}
