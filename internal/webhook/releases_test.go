package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReleaserPolicies(t *testing.T) {
	policies, err := ParseReleaserPolicies(`[{"repository":"electron","releaser":"release-bot","mustMatchRepo":"nightlies","actions":["published"]}]`)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, "electron", policies[0].Repository)
	assert.True(t, policies[0].matches("electron", "release-bot", "published"))
	assert.False(t, policies[0].matches("electron", "release-bot", "deleted"))
	assert.False(t, policies[0].matches("other-repo", "release-bot", "published"))
}

func TestParseReleaserPolicies_Empty(t *testing.T) {
	policies, err := ParseReleaserPolicies("")
	require.NoError(t, err)
	assert.Nil(t, policies)
}

func TestParseReleaserPolicies_Malformed(t *testing.T) {
	_, err := ParseReleaserPolicies("not json")
	assert.Error(t, err)
}

func TestDefaultReleaseSeverity(t *testing.T) {
	sev, ok := defaultReleaseSeverity("deleted")
	assert.True(t, ok)
	assert.Equal(t, "critical", string(sev))

	sev, ok = defaultReleaseSeverity("published")
	assert.True(t, ok)
	assert.Equal(t, "normal", string(sev))

	_, ok = defaultReleaseSeverity("transferred")
	assert.False(t, ok)
}

func TestContainsString(t *testing.T) {
	assert.True(t, containsString([]string{"a", "b"}, "b"))
	assert.False(t, containsString([]string{"a", "b"}, "c"))
	assert.False(t, containsString(nil, "c"))
}
