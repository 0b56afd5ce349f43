// Package webhook implements the event-driven half of the system
// (§4.7): validating and classifying inbound GitHub webhook deliveries,
// enforcing collaborator changes back to declared state, applying the
// trusted-releaser policy, and handing config-PR events to the
// dry-run harness.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/alert"
	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/dryrun"
	"github.com/electron/sheriff/internal/platform"
)

// Server is the webhook receiver's HTTP surface (§6, "POST / consumes
// the platform's JSON webhook envelope"). Each accepted delivery is
// processed on its own goroutine; handlers must be idempotent under
// redelivery and make no ordering assumption between events (§5).
type Server struct {
	Secret    []byte
	SelfLogin string

	ConfigEnv config.Env
	Fetcher   config.ContentFetcher

	Clients *platform.ClientCache
	Alerts  alert.Sink

	TrustedReleasers     map[string]bool
	ReleaserPolicies     []ReleaserPolicy
	ImportantBranchRepo  string // "org/repo" naming the repo the release-line branch-delete rule (§4.7) watches

	DryRunQueue   *dryrun.Queue
	DryRunHarness *dryrun.Harness

	Log *logrus.Entry
}

// ServeHTTP validates the webhook signature, acknowledges the
// delivery immediately, and demuxes the payload on a new goroutine so
// a slow handler never holds the platform's delivery connection open.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, s.Secret)
	if err != nil {
		s.Log.WithError(err).Warn("webhook signature validation failed")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	guid := github.DeliveryID(r)
	s.Log.WithFields(logrus.Fields{"event": eventType, "guid": guid}).Info("received webhook event")
	eventsTotal.WithLabelValues(eventType).Inc()

	fmt.Fprint(w, "Event received. Have a nice day.")

	go s.handle(context.Background(), eventType, guid, payload)
}

func (s *Server) handle(ctx context.Context, eventType, guid string, payload []byte) {
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		s.Log.WithField("event", eventType).WithError(err).Warn("failed to parse webhook payload")
		return
	}

	// Every outgoing alert carries the raw event as message metadata
	// (§4.7); decoding it once here keeps that concern out of every
	// individual handler below.
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		s.Log.WithField("event", eventType).WithError(err).Warn("failed to decode webhook payload as metadata")
	}

	s.demux(ctx, eventType, guid, event, raw)
}
