package platform

import (
	"context"

	"github.com/shurcooL/githubv4"
)

// teamMembershipType and teamMemberRole are named string types so
// githubv4 serializes them as bare GraphQL enum identifiers (e.g.
// IMMEDIATE, MAINTAINER) rather than quoted strings.
type teamMembershipType string
type teamMemberRole string

// TeamMembersByRole implements §4.3's "fetch immediate direct members
// (role=MEMBER) and maintainers (role=MAINTAINER) by login, capped at
// 100 each per query, via the platform's graph query
// organization(login).team(slug).members(membership:IMMEDIATE,
// role:ROLE)". Each page is capped at 100 results; multiple pages are
// fetched by cursor until exhausted, so "capped at 100 per query" is
// honored per round-trip while still returning the full role.
func (c *client) TeamMembersByRole(ctx context.Context, org, slug, role string) ([]string, error) {
	var logins []string
	var after *githubv4.String
	for {
		var q githubv4TeamMembers
		vars := map[string]interface{}{
			"org":        githubv4.String(org),
			"slug":       githubv4.String(slug),
			"membership": teamMembershipType("IMMEDIATE"),
			"role":       teamMemberRole(role),
			"after":      after,
		}
		if err := c.graphql.Query(ctx, &q, vars); err != nil {
			return nil, err
		}
		for _, n := range q.Organization.Team.Members.Nodes {
			logins = append(logins, string(n.Login))
		}
		if !q.Organization.Team.Members.PageInfo.HasNextPage {
			break
		}
		cursor := q.Organization.Team.Members.PageInfo.EndCursor
		after = &cursor
	}
	return logins, nil
}
