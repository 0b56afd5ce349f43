package webhook

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/dryrun"
)

// demux routes a parsed event to the handler named by the §4.7 table.
// Unknown or unhandled event types are accepted and logged, never
// rejected (§6).
func (s *Server) demux(ctx context.Context, eventType, guid string, event interface{}, raw map[string]interface{}) {
	switch ev := event.(type) {
	case *github.DeleteEvent:
		s.handleDelete(ctx, ev, raw)
	case *github.DeployKeyEvent:
		s.handleDeployKey(ctx, ev, raw)
	case *github.MemberEvent:
		s.handleMember(ctx, ev, raw)
	case *github.MetaEvent:
		s.handleMeta(ctx, ev, raw)
	case *github.OrganizationEvent:
		s.handleOrganization(ctx, ev, raw)
	case *github.RepositoryEvent:
		s.handleRepository(ctx, ev, raw)
	case *github.PublicEvent:
		s.handlePublic(ctx, ev, raw)
	case *github.ReleaseEvent:
		s.handleRelease(ctx, ev, raw)
	case *github.PersonalAccessTokenRequestEvent:
		s.handlePersonalAccessTokenRequest(ctx, ev, raw)
	case *github.PullRequestEvent:
		s.handlePullRequest(ctx, ev, raw)
	default:
		s.Log.WithField("event", eventType).Debug("ignoring unhandled event type")
	}
}

func (s *Server) handleDelete(ctx context.Context, ev *github.DeleteEvent, raw map[string]interface{}) {
	sender := ev.GetSender().GetLogin()
	ref := ev.GetRef()
	repo := ev.GetRepo()

	if ev.GetRefType() == "tag" {
		if s.TrustedReleasers[sender] {
			return
		}
		s.post(ctx, alert.SeverityWarning, fmt.Sprintf("Tag `%s` deleted on `%s` by `%s`", ref, repo.GetFullName(), sender), "delete", raw)
		return
	}

	if ev.GetRefType() == "branch" && releaseLineBranch.MatchString(ref) && s.ImportantBranchRepo == repo.GetFullName() {
		s.post(ctx, alert.SeverityCritical, fmt.Sprintf("Release-line branch `%s` deleted on `%s` by `%s`", ref, repo.GetFullName(), sender), "delete", raw)
	}
}

func (s *Server) handleDeployKey(ctx context.Context, ev *github.DeployKeyEvent, raw map[string]interface{}) {
	if ev.GetAction() != "created" {
		return
	}
	repo := ev.GetRepo()
	key := ev.GetKey()

	if !key.GetReadOnly() {
		s.post(ctx, alert.SeverityCritical, fmt.Sprintf("Deploy key `%s` with write access added to `%s`", key.GetTitle(), repo.GetFullName()), "deploy_key", raw)
		return
	}
	if repo.GetPrivate() {
		s.post(ctx, alert.SeverityWarning, fmt.Sprintf("Read-only deploy key `%s` added to private repo `%s`", key.GetTitle(), repo.GetFullName()), "deploy_key", raw)
	}
}

func (s *Server) handleMeta(ctx context.Context, ev *github.MetaEvent, raw map[string]interface{}) {
	if ev.GetAction() != "deleted" {
		return
	}
	s.post(ctx, alert.SeverityCritical, "Webhook deregistered (meta.deleted)", "meta", raw)
}

func (s *Server) handleOrganization(ctx context.Context, ev *github.OrganizationEvent, raw map[string]interface{}) {
	severity, ok := organizationSeverity(ev.GetAction())
	if !ok {
		return
	}
	s.post(ctx, severity, fmt.Sprintf("Organization event `%s` on `%s`", ev.GetAction(), ev.GetOrganization().GetLogin()), "organization", raw)
}

func (s *Server) handleRepository(ctx context.Context, ev *github.RepositoryEvent, raw map[string]interface{}) {
	sender := ev.GetSender().GetLogin()
	repo := ev.GetRepo().GetFullName()

	switch ev.GetAction() {
	case "deleted":
		if s.suppressed("repository.deleted", sender) {
			return
		}
		s.post(ctx, alert.SeverityCritical, fmt.Sprintf("Repository `%s` deleted by `%s`", repo, sender), "repository", raw)
	case "archived":
		if s.suppressed("repository.archived", sender) {
			return
		}
		s.post(ctx, alert.SeverityWarning, fmt.Sprintf("Repository `%s` archived by `%s`", repo, sender), "repository", raw)
	}
}

func (s *Server) handlePublic(ctx context.Context, ev *github.PublicEvent, raw map[string]interface{}) {
	sender := ev.GetSender().GetLogin()
	if s.suppressed("public", sender) {
		return
	}
	s.post(ctx, alert.SeverityWarning, fmt.Sprintf("Repository `%s` made public by `%s`", ev.GetRepo().GetFullName(), sender), "public", raw)
}

func (s *Server) handlePersonalAccessTokenRequest(ctx context.Context, ev *github.PersonalAccessTokenRequestEvent, raw map[string]interface{}) {
	severity, ok := patRequestSeverity(ev.GetAction())
	if !ok {
		return
	}
	s.post(ctx, severity, fmt.Sprintf("Personal access token request `%s` for org `%s`", ev.GetAction(), ev.GetOrganization().GetLogin()), "personal_access_token_request", raw)
}

// handlePullRequest triggers the dry-run harness (§4.8) for
// opened/synchronize events against the configured config repository.
func (s *Server) handlePullRequest(ctx context.Context, ev *github.PullRequestEvent, raw map[string]interface{}) {
	action := ev.GetAction()
	if action != "opened" && action != "synchronize" {
		return
	}
	repo := ev.GetRepo()
	configRepo := s.ConfigEnv.FileRepo
	if configRepo == "" {
		configRepo = ".permissions"
	}
	if repo.GetOwner().GetLogin() != s.ConfigEnv.FileOrg || repo.GetName() != configRepo {
		return
	}

	org := repo.GetOwner().GetLogin()
	name := repo.GetName()
	number := ev.GetNumber()
	headSHA := ev.GetPullRequest().GetHead().GetSHA()

	client, err := s.Clients.Get(ctx, org, true)
	if err != nil {
		s.Log.WithError(err).Error("acquiring client for dry-run failed")
		return
	}

	mergeSHA, ok := s.DryRunHarness.PollMergeSHA(ctx, org, name, number)
	checkRunID, err := client.CreateCheckRun(ctx, org, name, github.CreateCheckRunOptions{
		Name:    "Sheriff Dry Run",
		HeadSHA: headSHA,
		Status:  github.String("in_progress"),
	})
	if err != nil {
		s.Log.WithError(err).Error("creating dry-run check run failed")
		return
	}
	if !ok {
		client.UpdateCheckRun(ctx, org, name, checkRunID, github.UpdateCheckRunOptions{
			Name:       "Sheriff Dry Run",
			Status:     github.String("completed"),
			Conclusion: github.String("failure"),
			Output: &github.CheckRunOutput{
				Title:   github.String("Sheriff Dry Run"),
				Summary: github.String("No merge sha available"),
			},
		})
		return
	}

	task := dryrun.Task{Org: org, Repo: name, Number: number, HeadSHA: headSHA, MergeSHA: mergeSHA, CheckRunID: checkRunID}
	s.DryRunQueue.Enqueue(task)
}

func (s *Server) post(ctx context.Context, severity alert.Severity, text, eventKey string, raw map[string]interface{}) {
	b := alert.NewBuilder().Text(severity, text).EventMetadata(eventKey, raw)
	_ = s.Alerts.Flush(ctx, b)
}
