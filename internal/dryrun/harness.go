package dryrun

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/electron/sheriff/internal/platform"
)

const (
	pollAttempts = 10
	pollInterval = 5 * time.Second
	checkName    = "Sheriff Dry Run"
)

// Harness runs the per-PR dry-run pipeline described in §4.8. Each
// step is a suspension point (platform call or subprocess wait); the
// caller is expected to invoke RunTask from the single-worker queue so
// at most one dry-run runs at a time.
type Harness struct {
	Client         platform.Client
	ReconcilerPath string
	TmpDir         string
	// FilePath names the config file's path within the config repo
	// (PERMISSIONS_FILE_PATH, defaulting to "config.yaml"), mirroring
	// config.Env.FilePath so dry-run snapshots are fetched from the
	// same location the live reconciler reads.
	FilePath string
	Log      *logrus.Entry
}

func (h *Harness) filePath() string {
	if h.FilePath == "" {
		return "config.yaml"
	}
	return h.FilePath
}

// PollMergeSHA polls the pull request for up to pollAttempts at
// pollInterval until GitHub resolves its mergeable_state, returning the
// merge commit sha once known. ok is false if no merge sha was ever
// produced (§4.8 step 1).
func (h *Harness) PollMergeSHA(ctx context.Context, org, repo string, number int) (sha string, ok bool) {
	var resolved string
	var resolvedOK bool

	err := wait.PollUntilContextTimeout(ctx, pollInterval, time.Duration(pollAttempts)*pollInterval, true, func(ctx context.Context) (bool, error) {
		pr, err := h.Client.GetPullRequest(ctx, org, repo, number)
		if err != nil {
			h.Log.WithField("pr", number).WithError(err).Warn("polling pull request failed")
			return false, nil
		}
		if pr.GetMergeableState() == "" || pr.GetMergeableState() == "unknown" {
			return false, nil
		}
		resolved, resolvedOK = pr.GetMergeCommitSHA(), pr.GetMergeCommitSHA() != ""
		return true, nil
	})
	if err != nil || !resolvedOK {
		return "", false
	}
	return resolved, true
}

// RunTask executes the full dry-run pipeline for t (§4.8 steps 2-4),
// updating the check run t.CheckRunID to its terminal state. The
// caller (the single-worker queue) guarantees only one RunTask call is
// in flight at a time.
func (h *Harness) RunTask(ctx context.Context, t Task) {
	configPath, err := h.writeConfigSnapshot(ctx, t, t.MergeSHA, t.HeadSHA)
	if err != nil {
		h.Log.WithField("pr", t.Number).WithError(err).Error("fetching config snapshot failed")
		h.complete(ctx, t, "action_required", "Something went wrong")
		return
	}
	defer os.Remove(configPath)

	output, exitCode, err := h.runReconciler(ctx, configPath)
	if err != nil {
		h.Log.WithField("pr", t.Number).WithError(err).Error("dry-run subprocess failed to start")
		h.complete(ctx, t, "action_required", "Something went wrong")
		return
	}

	svg := RenderANSI(output)
	gistURL, err := h.Client.CreateGist(ctx, fmt.Sprintf("sheriff dry run #%d", t.Number), false, "dry-run.svg", svg)
	if err != nil {
		h.Log.WithField("pr", t.Number).WithError(err).Error("uploading dry-run gist failed")
		h.complete(ctx, t, "action_required", "Something went wrong")
		return
	}

	conclusion := "success"
	if exitCode != 0 {
		conclusion = "failure"
	}
	h.completeWithImage(ctx, t, conclusion, gistURL)
}

// writeConfigSnapshot fetches the config file's content as of mergeSHA
// and writes it to the on-disk path named by §6 ("a single temp file
// per dry-run").
func (h *Harness) writeConfigSnapshot(ctx context.Context, t Task, mergeSHA, headSHA string) (string, error) {
	content, encoding, err := h.Client.GetContent(t.Org, t.Repo, h.filePath(), mergeSHA)
	if err != nil {
		return "", err
	}
	data, err := decodeContent(content, encoding)
	if err != nil {
		return "", err
	}

	path := filepath.Join(h.TmpDir, fmt.Sprintf("sheriff-%s-%s.yaml", mergeSHA, headSHA))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// decodeContent mirrors config's own decoding of the two content
// encodings the platform's contents API may report.
func decodeContent(content, encoding string) ([]byte, error) {
	if encoding == "base64" {
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(content), nil
}

// runReconciler spawns the reconciler binary against configPath with
// dry-run forced on and captures its combined stdout+stderr (§4.8 step
// 3). Color output is requested via FORCE_COLOR so ANSI codes survive
// redirection to a pipe.
func (h *Harness) runReconciler(ctx context.Context, configPath string) (output string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, h.ReconcilerPath)
	cmd.Env = append(os.Environ(),
		"PERMISSIONS_FILE_LOCAL_PATH="+configPath,
		"FORCE_COLOR=1",
	)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	if runErr == nil {
		return buf.String(), 0, nil
	}
	var exitErr *exec.ExitError
	if ok := asExitError(runErr, &exitErr); ok {
		return buf.String(), exitErr.ExitCode(), nil
	}
	return "", 0, runErr
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	*target = ee
	return true
}

func (h *Harness) complete(ctx context.Context, t Task, conclusion, summary string) {
	err := h.Client.UpdateCheckRun(ctx, t.Org, t.Repo, t.CheckRunID, github.UpdateCheckRunOptions{
		Name:       checkName,
		Status:     github.String("completed"),
		Conclusion: github.String(conclusion),
		Output: &github.CheckRunOutput{
			Title:   github.String(checkName),
			Summary: github.String(summary),
		},
	})
	if err != nil {
		h.Log.WithField("pr", t.Number).WithError(err).Error("updating dry-run check run failed")
	}
}

func (h *Harness) completeWithImage(ctx context.Context, t Task, conclusion, gistURL string) {
	body := fmt.Sprintf(`<img src="%s" width="800" />`, gistURL)
	err := h.Client.UpdateCheckRun(ctx, t.Org, t.Repo, t.CheckRunID, github.UpdateCheckRunOptions{
		Name:       checkName,
		Status:     github.String("completed"),
		Conclusion: github.String(conclusion),
		Output: &github.CheckRunOutput{
			Title: github.String(checkName),
			Text:  github.String(body),
		},
	})
	if err != nil {
		h.Log.WithField("pr", t.Number).WithError(err).Error("updating dry-run check run failed")
	}
}
