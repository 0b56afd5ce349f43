package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseLineBranch(t *testing.T) {
	for _, ref := range []string{"1-2-x", "10-11-x", "3-x-y"} {
		assert.True(t, releaseLineBranch.MatchString(ref), ref)
	}
	for _, ref := range []string{"main", "1-2-3", "release-1-2-x"} {
		assert.False(t, releaseLineBranch.MatchString(ref), ref)
	}
}

func TestSuppressed(t *testing.T) {
	s := &Server{SelfLogin: "sheriff-bot"}

	assert.True(t, s.suppressed("repository.deleted", "sheriff-bot"))
	assert.False(t, s.suppressed("repository.deleted", "someone-else"))
	assert.False(t, s.suppressed("delete", "sheriff-bot"))

	empty := &Server{}
	assert.False(t, empty.suppressed("repository.deleted", "sheriff-bot"))
}

func TestOrganizationSeverity(t *testing.T) {
	sev, ok := organizationSeverity("member_added")
	assert.True(t, ok)
	assert.Equal(t, "normal", string(sev))

	sev, ok = organizationSeverity("renamed")
	assert.True(t, ok)
	assert.Equal(t, "critical", string(sev))

	_, ok = organizationSeverity("unknown")
	assert.False(t, ok)
}

func TestPatRequestSeverity(t *testing.T) {
	sev, ok := patRequestSeverity("created")
	assert.True(t, ok)
	assert.Equal(t, "normal", string(sev))

	sev, ok = patRequestSeverity("approved")
	assert.True(t, ok)
	assert.Equal(t, "warning", string(sev))

	_, ok = patRequestSeverity("denied")
	assert.False(t, ok)
}
