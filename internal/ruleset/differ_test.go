package ruleset

import (
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electron/sheriff/internal/config"
)

func TestCompute_EqualAfterProjectingNoiseField(t *testing.T) {
	declared := sampleRuleset()
	declared.RequirePullRequest = &config.RequirePullRequest{}
	norm := Normalize(declared, nil)

	observed := *norm
	observedRules := *observed.Rules
	observedPR := *observedRules.PullRequest
	observedPR.AutomaticCopilotCodeReviewEnabled = true // upstream-only noise
	observedRules.PullRequest = &observedPR
	observed.Rules = &observedRules

	diff := Compute(norm, &observed)
	assert.True(t, diff.Equal)
}

func TestCompute_DetectsRuleDrift(t *testing.T) {
	declared := sampleRuleset()
	norm := Normalize(declared, map[string]int64{"core": 42})

	observed := *norm
	observedRules := *observed.Rules
	observedRules.Creation = &github.EmptyRuleParameters{} // extra rule upstream only
	observed.Rules = &observedRules

	diff := Compute(norm, &observed)
	require.False(t, diff.Equal)
	assert.NotEmpty(t, diff.Text)
	assert.NotEmpty(t, diff.ANSI)
}
