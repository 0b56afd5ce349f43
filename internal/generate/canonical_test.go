package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electron/sheriff/internal/config"
)

func TestCanonical_TopLevelKeysSorted(t *testing.T) {
	org := &config.OrganizationConfig{
		Organization: "electron",
		Teams: []*config.TeamConfig{
			{Name: "zz-team", Maintainers: []string{"alice"}},
			{Name: "aa-team", Maintainers: []string{"bob"}},
		},
	}

	doc, err := Canonical(org)
	require.NoError(t, err)

	text := string(doc)
	orgIdx := strings.Index(text, "organization:")
	teamsIdx := strings.Index(text, "teams:")
	require.True(t, orgIdx >= 0 && teamsIdx >= 0)
	assert.Less(t, orgIdx, teamsIdx, "organization key must sort before teams key")
}

func TestCanonical_Deterministic(t *testing.T) {
	org := &config.OrganizationConfig{Organization: "electron"}
	a, err := Canonical(org)
	require.NoError(t, err)
	b, err := Canonical(org)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
