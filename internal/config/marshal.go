package config

import "encoding/json"

// UnmarshalJSON accepts either a bare scalar string or a list of
// strings, matching the two PropertyValue shapes custom properties
// (string vs. multi_select) use on the wire.
func (p *PropertyValue) UnmarshalJSON(data []byte) error {
	var multi []string
	if err := json.Unmarshal(data, &multi); err == nil {
		p.Multi = multi
		p.Scalar = nil
		return nil
	}
	var scalar string
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	p.Scalar = &scalar
	p.Multi = nil
	return nil
}

// MarshalJSON emits whichever of Scalar/Multi is populated.
func (p PropertyValue) MarshalJSON() ([]byte, error) {
	if p.Multi != nil {
		return json.Marshal(p.Multi)
	}
	if p.Scalar != nil {
		return json.Marshal(*p.Scalar)
	}
	return json.Marshal(nil)
}

// IsMulti reports whether this value was declared as a list.
func (p PropertyValue) IsMulti() bool {
	return p.Multi != nil
}

// UnmarshalJSON accepts either a bare ruleset-name string (a
// reference into common_rulesets) or an inline ruleset mapping.
func (e *rawRulesetEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Name = name
		e.Inline = nil
		return nil
	}
	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return err
	}
	e.Inline = &rs
	return nil
}

// MarshalJSON emits the inline ruleset mapping, or the bare name of a
// RulesetRef, the two shapes a repository's rulesets entry takes in
// the document.
func (r RepoRuleset) MarshalJSON() ([]byte, error) {
	if r.Inline != nil {
		return json.Marshal(r.Inline)
	}
	if r.Ref != nil {
		return json.Marshal(r.Ref.Name)
	}
	return json.Marshal(nil)
}

func (e rawRulesetEntry) MarshalJSON() ([]byte, error) {
	if e.Inline != nil {
		return json.Marshal(e.Inline)
	}
	return json.Marshal(e.Name)
}
