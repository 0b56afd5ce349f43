package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electron/sheriff/internal/config"
)

func sampleRuleset() *config.Ruleset {
	return &config.Ruleset{
		Name:   "main-prot",
		Target: config.TargetBranch,
		Bypass: &config.RulesetBypass{Teams: []string{"core"}},
		RefName: config.RefNamePattern{
			Include: []string{"refs/heads/main"},
		},
		Rules: []config.RuleToken{config.RuleRequireSignedCommit, config.RuleRestrictForcePush},
	}
}

func TestNormalize_DefaultsEnforcementAndSetsRules(t *testing.T) {
	norm := Normalize(sampleRuleset(), map[string]int64{"core": 42})

	assert.Equal(t, "active", norm.Enforcement)
	require.NotNil(t, norm.Rules.RequiredSignatures)
	require.NotNil(t, norm.Rules.NonFastForward)
	require.Len(t, norm.BypassActors, 1)
	assert.Equal(t, int64(42), norm.BypassActors[0].ActorID)
	assert.Equal(t, "Team", *norm.BypassActors[0].ActorType)
}

func TestNormalize_PullRequestDefaults(t *testing.T) {
	rs := sampleRuleset()
	rs.RequirePullRequest = &config.RequirePullRequest{}

	norm := Normalize(rs, nil)

	require.NotNil(t, norm.Rules.PullRequest)
	assert.False(t, norm.Rules.PullRequest.DismissStaleReviewsOnPush)
	assert.Equal(t, []string{"squash"}, norm.Rules.PullRequest.AllowedMergeMethods)
}

func TestNormalize_StatusChecks(t *testing.T) {
	rs := sampleRuleset()
	rs.RequireStatusChecks = []config.RequiredStatusCheck{{Context: "ci/build"}}

	norm := Normalize(rs, nil)

	require.NotNil(t, norm.Rules.RequiredStatusChecks)
	assert.False(t, norm.Rules.RequiredStatusChecks.StrictRequiredStatusChecksPolicy)
	require.Len(t, norm.Rules.RequiredStatusChecks.RequiredStatusChecks, 1)
	assert.Equal(t, "ci/build", norm.Rules.RequiredStatusChecks.RequiredStatusChecks[0].Context)
}

func TestNormalize_UnresolvedBypassTeamIsDropped(t *testing.T) {
	norm := Normalize(sampleRuleset(), map[string]int64{})
	assert.Empty(t, norm.BypassActors)
}
