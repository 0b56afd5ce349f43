package generate

import (
	"bytes"
	"sort"

	"sigs.k8s.io/yaml"
)

// Canonical marshals org to a byte-stable YAML document: struct field
// order is fixed by the Go type, map keys are sorted by
// encoding/json's own marshaling (sigs.k8s.io/yaml is a thin wrapper
// over it), and the slices Generate already sorts (teams, repos,
// custom properties) stay sorted through the round trip. A final pass
// re-orders the top-level YAML mapping's keys alphabetically so an
// unrelated struct field reordering in a future change can't silently
// reshuffle existing documents in version control (§6).
func Canonical(org interface{}) ([]byte, error) {
	raw, err := yaml.Marshal(org)
	if err != nil {
		return nil, err
	}
	return sortTopLevelKeys(raw)
}

// sortTopLevelKeys re-emits doc with its top-level mapping keys in
// alphabetical order, leaving nested mappings exactly as yaml.Marshal
// produced them (already key-sorted by the JSON marshal underneath).
func sortTopLevelKeys(doc []byte) ([]byte, error) {
	var m map[string]interface{}
	if err := yaml.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		chunk, err := yaml.Marshal(map[string]interface{}{k: m[k]})
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}
