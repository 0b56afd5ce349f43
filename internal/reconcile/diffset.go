// Package reconcile implements the core reconciliation loop: per-org
// orchestration (§4.2), the team membership state machine (§4.3),
// repository reconcile (§4.4), and plugin fan-out (§4.5).
package reconcile

// CompareEntities is the generic three-way diff that custom-property,
// repo-team, repo-invitation and collaborator reconcile reduce to (team
// membership uses its own transition table in teams.go): walk local against remote by a shared key, and call
// onAdded for keys only in local, onRemoved for keys only in remote,
// and onChanged for keys in both whose values are not equivalent.
func CompareEntities[K comparable, L any, R any](
	local map[K]L,
	remote map[K]R,
	equivalent func(l L, r R) bool,
	onAdded func(key K, l L),
	onRemoved func(key K, r R),
	onChanged func(key K, l L, r R),
) {
	remaining := make(map[K]R, len(remote))
	for k, v := range remote {
		remaining[k] = v
	}

	for k, l := range local {
		r, ok := remaining[k]
		if !ok {
			onAdded(k, l)
			continue
		}
		delete(remaining, k)
		if !equivalent(l, r) {
			onChanged(k, l, r)
		}
	}

	for k, r := range remaining {
		onRemoved(k, r)
	}
}
