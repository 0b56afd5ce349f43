package ruleset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/go-github/v66/github"
	"github.com/pmezard/go-difflib/difflib"
)

// project strips the server-assigned, read-only fields (id, node_id,
// links, timestamps, source/source_type, current_user_can_bypass) and
// the upstream-only noise field
// pull_request.automatic_copilot_code_review_enabled, leaving only
// what the declared side can ever express (§4.6 step 1).
func project(rs *github.RepositoryRuleset) *github.RepositoryRuleset {
	if rs == nil {
		return nil
	}
	clone := *rs
	clone.ID = nil
	clone.NodeID = ""
	clone.Links = nil
	clone.CreatedAt = nil
	clone.UpdatedAt = nil
	clone.Source = ""
	clone.SourceType = nil
	clone.CurrentUserCanBypass = ""

	if clone.Rules != nil && clone.Rules.PullRequest != nil {
		pr := *clone.Rules.PullRequest
		pr.AutomaticCopilotCodeReviewEnabled = false
		rules := *clone.Rules
		rules.PullRequest = &pr
		clone.Rules = &rules
	}

	sortBypassActors(clone.BypassActors)
	return &clone
}

func sortBypassActors(actors []*github.BypassActor) {
	sort.Slice(actors, func(i, j int) bool { return compareActors(actors[i], actors[j]) < 0 })
}

func compareActors(a, b *github.BypassActor) int {
	at, bt := "", ""
	if a.ActorType != nil {
		at = *a.ActorType
	}
	if b.ActorType != nil {
		bt = *b.ActorType
	}
	if at != bt {
		if at < bt {
			return -1
		}
		return 1
	}
	switch {
	case a.ActorID < b.ActorID:
		return -1
	case a.ActorID > b.ActorID:
		return 1
	default:
		return 0
	}
}

// Diff reports whether declared (already normalized via Normalize)
// and observed rulesets match, and if not, produces a structural diff
// (for equality) and a textual diff suitable for either a terminal or
// an alert message (§4.6 steps 2-3).
type Diff struct {
	Equal bool
	Text  string // without ANSI colorization, for alert messages
	ANSI  string // with ANSI colorization, for terminal output
}

// Compute diffs declared against the observed ruleset, projecting
// both into the comparable shape first.
func Compute(declared, observed *github.RepositoryRuleset) Diff {
	left := project(declared)
	right := project(observed)

	if cmp.Equal(left, right, cmpopts.EquateEmpty()) {
		return Diff{Equal: true}
	}

	leftText := dump(left)
	rightText := dump(right)

	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(rightText),
		B:        difflib.SplitLines(leftText),
		FromFile: "observed",
		ToFile:   "declared",
		Context:  3,
	}
	plain, _ := difflib.GetUnifiedDiffString(unified)

	return Diff{
		Equal: false,
		Text:  plain,
		ANSI:  colorize(plain),
	}
}

func dump(rs *github.RepositoryRuleset) string {
	if rs == nil {
		return ""
	}
	return fmt.Sprintf("%+v", rs)
}

func colorize(diff string) string {
	var b strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			b.WriteString(color.GreenString(line))
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			b.WriteString(color.RedString(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
