package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
organization: acme
repository_defaults:
  has_wiki: false
teams:
  - name: core
    maintainers: [alice]
    members: [bob]
  - name: core-formed
    formation: [core]
repositories:
  - name: app
    teams:
      core: write
    visibility: private
`

func TestLoad_LocalFileFormationExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", sampleYAML)
	withWorkdir(t, dir, func() {
		cfg, err := Load(Env{}, nil)
		require.NoError(t, err)
		require.Len(t, cfg.Orgs, 1)
		org := cfg.Orgs[0]
		formed, ok := org.TeamByName("core-formed")
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"alice"}, formed.Maintainers)
		assert.ElementsMatch(t, []string{"bob"}, formed.Members)
	})
}

func TestLoad_MissingSource(t *testing.T) {
	dir := t.TempDir()
	withWorkdir(t, dir, func() {
		_, err := Load(Env{}, nil)
		require.Error(t, err)
		var missing *ErrConfigMissing
		require.ErrorAs(t, err, &missing)
	})
}

func TestValidate_SecretTeamCannotBeParent(t *testing.T) {
	secret := true
	parentName := "p"
	org := &OrganizationConfig{
		Organization: "acme",
		Teams: []*TeamConfig{
			{Name: "p", Secret: secret, Maintainers: []string{"alice"}},
			{Name: "c", Parent: &parentName, Maintainers: []string{"bob"}},
		},
	}
	err := Validate(org)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret")
}

func TestValidate_SelfParentCycle(t *testing.T) {
	name := "t"
	org := &OrganizationConfig{
		Organization: "acme",
		Teams: []*TeamConfig{
			{Name: "t", Parent: &name, Maintainers: []string{"alice"}},
		},
	}
	err := Validate(org)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidate_MembersMaintainersDisjoint(t *testing.T) {
	org := &OrganizationConfig{
		Organization: "acme",
		Teams: []*TeamConfig{
			{Name: "t", Members: []string{"alice"}, Maintainers: []string{"alice"}},
		},
	}
	err := Validate(org)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}
