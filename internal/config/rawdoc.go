package config

// rawDoc is the shape of one YAML document exactly as it appears on
// disk or at the config ref, before any normalization. Unlike
// OrganizationConfig, team entries may still be in one of the two
// legacy shapes (formation, reference); rulesets under a repository
// may still be bare name strings.
type rawDoc struct {
	Organization       string              `json:"organization"`
	RepositoryDefaults RepositoryDefaults  `json:"repository_defaults"`
	Teams              []*rawTeam          `json:"teams"`
	Repositories       []*rawRepo          `json:"repositories"`
	CommonRulesets     map[string]*Ruleset `json:"common_rulesets,omitempty"`
	CustomProperties   []*CustomProperty   `json:"customProperties,omitempty"`

	DestructiveOperations DestructiveOperations `json:"destructive_operations,omitempty"`
}

// rawTeam is a tagged sum over the three team-declaration shapes the
// document may use: Concrete (Members/Maintainers present), Formation
// (a union of other teams), and Reference (mirrors another org's
// team). Exactly one of teamKind's three branches applies to a given
// value; classify() makes that dispatch explicit instead of leaving
// call sites to re-derive it from nil checks.
type rawTeam struct {
	Name        string        `json:"name"`
	Members     []string      `json:"members,omitempty"`
	Maintainers []string      `json:"maintainers,omitempty"`
	Parent      *string       `json:"parent,omitempty"`
	Secret      *bool         `json:"secret,omitempty"`
	DisplayName *string       `json:"displayName,omitempty"`
	Gsuite      *GsuiteConfig `json:"gsuite,omitempty"`
	Slack       any           `json:"slack,omitempty"`

	Formation []string `json:"formation,omitempty"`
	Reference *string  `json:"reference,omitempty"`
}

type teamKind int

const (
	teamKindConcrete teamKind = iota
	teamKindFormation
	teamKindReference
)

// classify identifies which of the three declaration shapes a raw
// team entry uses. Formation and Reference are mutually exclusive
// with each other and with a direct Members/Maintainers declaration;
// that mutual exclusivity is enforced by the schema checker, not here.
func (t *rawTeam) classify() teamKind {
	switch {
	case len(t.Formation) > 0:
		return teamKindFormation
	case t.Reference != nil:
		return teamKindReference
	default:
		return teamKindConcrete
	}
}

func (t *rawTeam) toConcrete() *TeamConfig {
	secret := false
	if t.Secret != nil {
		secret = *t.Secret
	}
	return &TeamConfig{
		Name:        t.Name,
		Members:     append([]string(nil), t.Members...),
		Maintainers: append([]string(nil), t.Maintainers...),
		Parent:      t.Parent,
		Secret:      secret,
		DisplayName: t.DisplayName,
		Gsuite:      t.Gsuite,
		Slack:       t.Slack,
	}
}

// rawRepo mirrors RepositoryConfig but allows bare-string ruleset
// references in addition to inline ruleset mappings, and allows
// property values as either a scalar or a list prior to the
// PropertyValue custom unmarshaling pass.
type rawRepo struct {
	Name                  string                     `json:"name"`
	Teams                 map[string]AccessLevel     `json:"teams,omitempty"`
	ExternalCollaborators map[string]AccessLevel     `json:"external_collaborators,omitempty"`
	Settings              *RepositorySettings        `json:"settings,omitempty"`
	Visibility            Visibility                 `json:"visibility,omitempty"`
	Properties            map[string]PropertyValue   `json:"properties,omitempty"`
	Rulesets              []rawRulesetEntry          `json:"rulesets,omitempty"`
}

// rawRulesetEntry unmarshals either a bare ruleset-name string or an
// inline ruleset mapping. UnmarshalJSON lives in marshal.go.
type rawRulesetEntry struct {
	Name   string
	Inline *Ruleset
}

func (r *rawRepo) toRepositoryConfig() *RepositoryConfig {
	return &RepositoryConfig{
		Name:                  r.Name,
		Teams:                 r.Teams,
		ExternalCollaborators: r.ExternalCollaborators,
		Settings:              r.Settings,
		Visibility:            r.Visibility,
		Properties:            r.Properties,
	}
}

func (e rawRulesetEntry) resolve(common map[string]*Ruleset) (*Ruleset, bool) {
	if e.Inline != nil {
		return e.Inline, true
	}
	rs, ok := common[e.Name]
	return rs, ok
}
