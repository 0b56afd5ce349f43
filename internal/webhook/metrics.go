package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics mirrors the counter/histogram shape prow/hook's
// githubeventserver.Metrics exposes for its own webhook receiver.
var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheriff_webhook_events_total",
		Help: "Count of webhook deliveries received, by event type.",
	}, []string{"event"})

	enforcementOutcomeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheriff_enforcement_outcome_total",
		Help: "Count of collaborator-change enforcement outcomes, by outcome.",
	}, []string{"outcome"})
)
