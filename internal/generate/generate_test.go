package generate

import (
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
)

func TestRuleIsSet(t *testing.T) {
	rules := &github.RepositoryRulesetRules{
		Deletion:   &github.EmptyRuleParameters{},
		Creation:   nil,
		NonFastForward: &github.EmptyRuleParameters{},
	}
	assert.True(t, ruleIsSet(rules, "deletion"))
	assert.False(t, ruleIsSet(rules, "creation"))
	assert.True(t, ruleIsSet(rules, "non_fast_forward"))
	assert.False(t, ruleIsSet(rules, "required_signatures"))
}

func TestPropertyValueFromWire_Scalar(t *testing.T) {
	v := propertyValueFromWire("production")
	assert.False(t, v.IsMulti())
	assert.Equal(t, "production", *v.Scalar)
}

func TestPropertyValueFromWire_Multi(t *testing.T) {
	v := propertyValueFromWire([]interface{}{"a", "b"})
	assert.True(t, v.IsMulti())
	assert.Equal(t, []string{"a", "b"}, v.Multi)
}

func TestGenerateRuleset_NoConditions(t *testing.T) {
	_, ok := generateRuleset(&github.RepositoryRuleset{Name: "x"}, nil)
	assert.False(t, ok)
}
