package config

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// ErrConfigMissing is returned when none of the configured input
// sources (local file, PERMISSIONS_FILE_LOCAL_PATH, platform fetch)
// produced a document.
type ErrConfigMissing struct {
	Tried []string
}

func (e *ErrConfigMissing) Error() string {
	return fmt.Sprintf("no permissions config found, tried: %v", e.Tried)
}

// ErrConfigMalformed is returned when a source produced bytes that do
// not decode as the permissions document shape (bad YAML, wrong
// encoding).
type ErrConfigMalformed struct {
	Source string
	Err    error
}

func (e *ErrConfigMalformed) Error() string {
	return fmt.Sprintf("malformed config from %s: %v", e.Source, e.Err)
}

func (e *ErrConfigMalformed) Unwrap() error { return e.Err }

// ErrConfigInvalid names the offending org/team/repo and the
// violated invariant. Raised by schema and cross-entity checks.
type ErrConfigInvalid struct {
	Kind    string // e.g. "team", "repo", "ruleset", "property"
	Org     string
	Entity  string
	Message string
}

func (e *ErrConfigInvalid) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("invalid config for org %s (%s): %s", e.Org, e.Kind, e.Message)
	}
	return fmt.Sprintf("invalid config for org %s, %s %q: %s", e.Org, e.Kind, e.Entity, e.Message)
}

// Errors is an accumulator for the many violations a single
// validation pass may discover, mirroring cmd/branchprotector's
// concurrency-safe Errors accumulator — validation here runs
// sequentially so no locking is needed, but the "collect many, report
// once" shape is kept for symmetry with the rest of the codebase.
type Errors struct {
	errs []error
}

func (e *Errors) add(err error) {
	if err != nil {
		e.errs = append(e.errs, err)
	}
}

func (e *Errors) invalid(kind, org, entity, format string, args ...interface{}) {
	e.add(&ErrConfigInvalid{Kind: kind, Org: org, Entity: entity, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil if no errors were accumulated, or an aggregate
// error otherwise.
func (e *Errors) Err() error {
	return utilerrors.NewAggregate(e.errs)
}
