package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/electron/sheriff/internal/config"
)

func TestSheriffLevelGitHubLevelRoundTrip(t *testing.T) {
	for _, level := range []config.AccessLevel{
		config.AccessRead, config.AccessTriage, config.AccessWrite, config.AccessMaintain, config.AccessAdmin,
	} {
		native, ok := SheriffLevelToGitHubLevel(level)
		if !assert.True(t, ok, "level %q should map to a native string", level) {
			continue
		}
		back, ok := GitHubLevelToSheriffLevel(native)
		assert.True(t, ok)
		assert.Equal(t, level, back)
	}
}

func TestGitHubLevelToSheriffLevel_Unknown(t *testing.T) {
	_, ok := GitHubLevelToSheriffLevel("bogus")
	assert.False(t, ok)
}

func TestDecodeBitmap_PrecedenceOrder(t *testing.T) {
	level, ok := DecodeBitmap(PermissionBitmap{Admin: true, Maintain: true, Push: true, Triage: true, Pull: true})
	assert.True(t, ok)
	assert.Equal(t, config.AccessAdmin, level)

	level, ok = DecodeBitmap(PermissionBitmap{Maintain: true, Push: true})
	assert.True(t, ok)
	assert.Equal(t, config.AccessMaintain, level)

	level, ok = DecodeBitmap(PermissionBitmap{Pull: true})
	assert.True(t, ok)
	assert.Equal(t, config.AccessRead, level)
}

func TestDecodeBitmap_NoneSet(t *testing.T) {
	_, ok := DecodeBitmap(PermissionBitmap{})
	assert.False(t, ok)
}
