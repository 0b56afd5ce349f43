package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// syncInvitations enumerates members+maintainers of every declared
// team; for each login not already an org member it creates a
// direct_member invitation unless one is already pending. A login
// that cannot be resolved, or resolves to a different canonical
// login, is fatal to the org's run (§4.2 step 2).
func (r *Reconciler) syncInvitations(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) error {
	declaredLogins := make(map[string]bool)
	for _, t := range org.Teams {
		for _, m := range t.Members {
			declaredLogins[m] = true
		}
		for _, m := range t.Maintainers {
			declaredLogins[m] = true
		}
	}

	members, err := client.AllMembers(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing org members: %w", err)
	}
	memberSet := make(map[string]bool, len(members))
	for _, u := range members {
		memberSet[u.GetLogin()] = true
	}

	pending, err := client.ListPendingOrgInvitations(ctx, org.Organization)
	if err != nil {
		return fmt.Errorf("listing pending org invitations: %w", err)
	}
	pendingSet := make(map[string]bool, len(pending))
	for _, inv := range pending {
		pendingSet[inv.GetLogin()] = true
	}

	for login := range declaredLogins {
		if memberSet[login] || pendingSet[login] {
			continue
		}

		r.logMutation(log, "invite_member", "inviting ", login)
		if r.DryRun {
			continue
		}

		if err := client.CreateOrgInvitation(ctx, org.Organization, login); err != nil {
			var mismatch *platform.ErrLoginCaseMismatch
			msg := fmt.Sprintf("could not invite `%s`: %v", login, err)
			if errors.As(err, &mismatch) {
				msg = fmt.Sprintf("login `%s` does not match canonical login `%s`", mismatch.Declared, mismatch.Canonical)
			}
			_ = r.Alerts.Flush(ctx, alert.NewBuilder().Text(alert.SeverityCritical, msg))
			return fmt.Errorf("invitation halted for org %s: %w", org.Organization, err)
		}
	}

	return nil
}
