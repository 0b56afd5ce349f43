package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// handleMember runs the collaborator-change enforcement state machine
// (§4.7.1) for a member.added/.edited/.removed delivery. The engine
// re-reads collaborator state immediately before comparing rather than
// locking (§5): a race against a second delivery is possible but
// benign, since re-enforcement just repeats the same comparison.
func (s *Server) handleMember(ctx context.Context, ev *github.MemberEvent, raw map[string]interface{}) {
	owner := ev.GetRepo().GetOwner().GetLogin()
	repoName := ev.GetRepo().GetName()
	login := ev.GetMember().GetLogin()
	action := ev.GetAction()

	outcome, detail, err := s.enforceCollaborator(ctx, owner, repoName, login, action)
	if err != nil {
		s.Log.WithFields(map[string]interface{}{"org": owner, "repo": repoName, "user": login}).WithError(err).Error("collaborator enforcement failed")
		var mismatch *platform.ErrLoginCaseMismatch
		if errors.As(err, &mismatch) {
			b := alert.NewBuilder().
				Text(alert.SeverityCritical, fmt.Sprintf("Policy violation: %s", err)).
				EventMetadata("member", raw)
			_ = s.Alerts.Flush(ctx, b)
		}
		return
	}
	enforcementOutcomeTotal.WithLabelValues(string(outcome)).Inc()
	if outcome == alert.OutcomeAllow {
		return
	}

	b := alert.NewBuilder().
		RepoBlock(owner, repoName).
		UserBlock(login).
		EnforcementOutcome(outcome, detail).
		EventMetadata("member", raw)
	_ = s.Alerts.Flush(ctx, b)
}

func (s *Server) enforceCollaborator(ctx context.Context, owner, repo, login, action string) (alert.Outcome, string, error) {
	cfg, err := config.Load(s.ConfigEnv, s.Fetcher)
	if err != nil {
		return alert.OutcomeAllow, "", fmt.Errorf("loading config: %w", err)
	}

	var org *config.OrganizationConfig
	for _, o := range cfg.Orgs {
		if o.Organization == owner {
			org = o
			break
		}
	}
	if org == nil {
		return alert.OutcomeAllow, "", nil // step 1: org not declared
	}

	repoCfg, ok := org.RepoByName(repo)
	if !ok {
		return alert.OutcomeAllow, "", nil // step 2: repo not declared
	}

	expected, hasExpected := repoCfg.ExternalCollaborators[login]

	client, err := s.Clients.Get(ctx, owner, false)
	if err != nil {
		return alert.OutcomeAllow, "", fmt.Errorf("acquiring client: %w", err)
	}

	owners, err := client.AllOwners(ctx, owner)
	if err != nil {
		return alert.OutcomeAllow, "", fmt.Errorf("listing owners: %w", err)
	}
	for _, u := range owners {
		if u.GetLogin() == login {
			return alert.OutcomeAllow, "", nil // step 4: org owners are always admin
		}
	}

	if !hasExpected {
		if action == "removed" {
			return alert.OutcomeAllow, "", nil // step 5
		}
		if err := client.RemoveRepoCollaborator(ctx, owner, repo, login); err != nil {
			return alert.OutcomeAllow, "", fmt.Errorf("removing undeclared collaborator: %w", err)
		}
		return alert.OutcomeRevert, "automatically reverted", nil // step 6
	}

	nativeLevel, _ := platform.SheriffLevelToGitHubLevel(expected)

	collaborators, err := client.ListRepoCollaborators(ctx, owner, repo)
	if err != nil {
		return alert.OutcomeAllow, "", fmt.Errorf("listing collaborators: %w", err)
	}
	var current *github.User
	for _, c := range collaborators {
		if c.GetLogin() == login {
			current = c
			break
		}
	}

	currentLevel, hasCurrentLevel := "", false
	if current != nil {
		bitmap := current.Permissions
		level, ok := platform.DecodeBitmap(platform.PermissionBitmap{
			Admin:    bitmap["admin"],
			Maintain: bitmap["maintain"],
			Push:     bitmap["push"],
			Triage:   bitmap["triage"],
			Pull:     bitmap["pull"],
		})
		if ok {
			currentLevel, hasCurrentLevel = string(level), true
		}
	}

	if current == nil || !hasCurrentLevel || currentLevel != string(expected) {
		if err := client.AddRepoCollaborator(ctx, owner, repo, login, nativeLevel); err != nil {
			return alert.OutcomeAllow, "", fmt.Errorf("adding collaborator at expected level: %w", err)
		}
		if action == "removed" {
			return alert.OutcomeRevert, "automatically reverted", nil
		}
		return alert.OutcomeAdjust, fmt.Sprintf("adjusted to expected state `%s`", expected), nil // step 7
	}

	return alert.OutcomeAllow, "", nil // step 8
}
