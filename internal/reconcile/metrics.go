package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "sheriff_reconcile_duration_seconds",
	Help:    "Wall-clock duration of one organization's reconcile run.",
	Buckets: prometheus.DefBuckets,
}, []string{"org"})
