// Package config holds the declarative permissions document: its wire
// shape, the legacy-shape normalization passes, and the validator that
// turns raw YAML into one or more OrganizationConfig values.
package config

// AccessLevel is the platform-agnostic permission level granted to a
// team or an external collaborator on a repository.
type AccessLevel string

const (
	AccessRead     AccessLevel = "read"
	AccessTriage   AccessLevel = "triage"
	AccessWrite    AccessLevel = "write"
	AccessMaintain AccessLevel = "maintain"
	AccessAdmin    AccessLevel = "admin"
)

// Visibility is the declared repository visibility. Current means "do
// not touch the observed visibility".
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityCurrent Visibility = "current"
)

// GsuitePrivacy is the declared privacy of a team's mirrored Google
// Group, when the team carries a gsuite block.
type GsuitePrivacy string

const (
	GsuitePrivacyInternal GsuitePrivacy = "internal"
	GsuitePrivacyExternal GsuitePrivacy = "external"
)

// GsuiteConfig mirrors a team into a Google Group with the given
// privacy. Requires DisplayName to be set.
type GsuiteConfig struct {
	Privacy GsuitePrivacy `json:"privacy"`
}

// DestructiveOperations gates irreversible reconcile actions. Orphan
// team deletion (see Reconciler.reconcileOrphanTeams) happens
// unconditionally by default, matching every observed-but-undeclared
// team being removed; PreventTeamDeletion is an explicit opt-out for
// orgs that want that one delete suppressed.
type DestructiveOperations struct {
	PreventTeamDeletion bool `json:"prevent_team_deletion,omitempty"`
}

// TeamConfig is the normalized (post-formation/reference-expansion)
// shape of a declared team. Raw documents may instead carry Formation
// or Reference in place of Members/Maintainers; loader.go replaces
// those with a TeamConfig before validation ever sees them.
type TeamConfig struct {
	Name string `json:"name"`

	// Members holds logins with team-member (not maintainer) access.
	Members []string `json:"members,omitempty"`
	// Maintainers holds logins with team-maintainer access. Must have
	// at least one element once a team is fully normalized.
	Maintainers []string `json:"maintainers"`

	// Parent names a team in the same org this team nests under.
	Parent *string `json:"parent,omitempty"`
	// Secret teams may not have, or be, a parent.
	Secret bool `json:"secret,omitempty"`

	DisplayName *string       `json:"displayName,omitempty"`
	Gsuite      *GsuiteConfig `json:"gsuite,omitempty"`
	// Slack is either `true` (use DisplayName/Name as the channel) or
	// an explicit channel name string.
	Slack any `json:"slack,omitempty"`
}

// RulesetTarget is what a ruleset governs.
type RulesetTarget string

const (
	TargetBranch RulesetTarget = "branch"
	TargetTag    RulesetTarget = "tag"
)

// Enforcement is the ruleset's enforcement mode.
type Enforcement string

const (
	EnforcementDisabled Enforcement = "disabled"
	EnforcementActive   Enforcement = "active"
	EnforcementEvaluate Enforcement = "evaluate"
)

// RuleToken is one of the boolean-shaped rule kinds a ruleset can
// declare in its `rules` set.
type RuleToken string

const (
	RuleRestrictCreation    RuleToken = "restrict_creation"
	RuleRestrictUpdate      RuleToken = "restrict_update"
	RuleRestrictDeletion    RuleToken = "restrict_deletion"
	RuleRequireLinearHist   RuleToken = "require_linear_history"
	RuleRequireSignedCommit RuleToken = "require_signed_commits"
	RuleRestrictForcePush   RuleToken = "restrict_force_push"
)

// RulesetBypass lists the actors allowed to bypass a ruleset. At
// least one of Teams/Apps must be non-empty when Bypass is present.
type RulesetBypass struct {
	Teams []string `json:"teams,omitempty"`
	Apps  []string `json:"apps,omitempty"`
}

// RefNamePattern is the set of ref globs a ruleset applies to.
type RefNamePattern struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude,omitempty"`
}

// RequirePullRequest declares PR-review requirements for a ruleset.
type RequirePullRequest struct {
	DismissStaleReviewsOnPush      *bool    `json:"dismiss_stale_reviews_on_push,omitempty"`
	RequireCodeOwnerReview         *bool    `json:"require_code_owner_review,omitempty"`
	RequireLastPushApproval        *bool    `json:"require_last_push_approval,omitempty"`
	RequiredApprovingReviewCount   *int     `json:"required_approving_review_count,omitempty"`
	RequiredReviewThreadResolution *bool    `json:"required_review_thread_resolution,omitempty"`
	AllowedMergeMethods            []string `json:"allowed_merge_methods,omitempty"`
}

// RequiredStatusCheck names one check context, optionally scoped to a
// GitHub App integration.
type RequiredStatusCheck struct {
	Context string  `json:"context"`
	AppID   *int64  `json:"app_id,omitempty"`
}

// Ruleset is the declared shape of a branch/tag ruleset, as it
// appears either inline under a repository or by name under
// OrganizationConfig.CommonRulesets.
type Ruleset struct {
	Name        string        `json:"name"`
	Target      RulesetTarget `json:"target"`
	Enforcement Enforcement   `json:"enforcement,omitempty"`

	Bypass *RulesetBypass `json:"bypass,omitempty"`
	RefName RefNamePattern `json:"ref_name"`

	Rules []RuleToken `json:"rules,omitempty"`

	RequirePullRequest   *RequirePullRequest    `json:"require_pull_request,omitempty"`
	RequireStatusChecks  []RequiredStatusCheck  `json:"require_status_checks,omitempty"`
}

// RulesetRef is a by-name reference to a ruleset declared in
// OrganizationConfig.CommonRulesets. The loader replaces every
// RulesetRef with the concrete Ruleset it names before validation
// completes (§4.1, "Output").
type RulesetRef struct {
	Name string
}

// RepoRuleset is either an inline Ruleset or a RulesetRef. The loader
// resolves bare-string entries against common_rulesets and stores the
// result in Inline, so a loaded document only ever has Inline set.
type RepoRuleset struct {
	Inline *Ruleset
	Ref    *RulesetRef
}

// RepositorySettings are the mutable repo-level knobs this system
// manages, independent of visibility/teams/collaborators.
type RepositorySettings struct {
	HasWiki                     *bool `json:"has_wiki,omitempty"`
	ForksNeedActionsApproval    *bool `json:"forks_need_actions_approval,omitempty"`
}

// PropertyValue is either a scalar string (string/single_select) or a
// string slice (multi_select).
type PropertyValue struct {
	Scalar *string
	Multi  []string
}

// RepositoryConfig is the normalized declared state of one repo.
type RepositoryConfig struct {
	Name string `json:"name"`

	Teams                map[string]AccessLevel   `json:"teams,omitempty"`
	ExternalCollaborators map[string]AccessLevel  `json:"external_collaborators,omitempty"`

	Settings   *RepositorySettings `json:"settings,omitempty"`
	Visibility Visibility          `json:"visibility,omitempty"`

	Properties map[string]PropertyValue `json:"properties,omitempty"`

	Rulesets []RepoRuleset `json:"rulesets,omitempty"`

	// synthetic marks a RepositoryConfig manufactured by the
	// reconciler for an observed-but-undeclared repo (§4.2 step 3);
	// it is never part of the loaded document.
	Synthetic bool `json:"-"`
}

// EffectiveVisibility returns the declared visibility, defaulting to
// public per §3.
func (r *RepositoryConfig) EffectiveVisibility() Visibility {
	if r.Visibility == "" {
		return VisibilityPublic
	}
	return r.Visibility
}

// PropertyType is the declared type of a custom property.
type PropertyType string

const (
	PropertyString       PropertyType = "string"
	PropertySingleSelect PropertyType = "single_select"
	PropertyMultiSelect  PropertyType = "multi_select"
)

// CustomProperty is an org-level custom-property definition.
type CustomProperty struct {
	PropertyName  string        `json:"property_name"`
	ValueType     PropertyType  `json:"value_type"`
	Required      bool          `json:"required,omitempty"`
	DefaultValue  *PropertyValue `json:"default_value,omitempty"`
	Description   string        `json:"description,omitempty"`
	AllowedValues []string      `json:"allowed_values,omitempty"`
}

// RepositoryDefaults are the org-wide fallbacks for RepositorySettings.
type RepositoryDefaults struct {
	HasWiki                  bool  `json:"has_wiki"`
	ForksNeedActionsApproval *bool `json:"forks_need_actions_approval,omitempty"`
}

// OrganizationConfig is the fully validated, normalized desired state
// of a single organization.
type OrganizationConfig struct {
	Organization string `json:"organization"`

	RepositoryDefaults RepositoryDefaults `json:"repository_defaults"`

	Teams        []*TeamConfig        `json:"teams"`
	Repositories []*RepositoryConfig  `json:"repositories"`

	// CommonRulesets holds named rulesets referenced by RulesetRef
	// from individual repositories.
	CommonRulesets map[string]*Ruleset `json:"common_rulesets,omitempty"`

	CustomProperties []*CustomProperty `json:"customProperties,omitempty"`

	DestructiveOperations DestructiveOperations `json:"destructive_operations,omitempty"`
}

// TeamByName returns the declared team with the given name, if any.
func (o *OrganizationConfig) TeamByName(name string) (*TeamConfig, bool) {
	for _, t := range o.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// RepoByName returns the declared repository with the given name, if any.
func (o *OrganizationConfig) RepoByName(name string) (*RepositoryConfig, bool) {
	for _, r := range o.Repositories {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// PermissionsConfig is the top-level loaded document: either a single
// org or an ordered list of them.
type PermissionsConfig struct {
	Orgs []*OrganizationConfig
}
