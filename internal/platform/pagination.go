package platform

import "github.com/google/go-github/v66/github"

// paginate drains every page of a go-github list call into a single
// slice. All of the fleet-wide listings the client cache memoizes
// (§4.1 item 3: org members, teams, repos, owners) go through this, so
// pagination handling lives in exactly one place.
func paginate[T any](call func(*github.ListOptions) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	opt := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := call(opt)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}
