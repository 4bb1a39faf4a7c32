// Package metrics exposes prometheus collectors for matchmaking events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "swipe"

// Collector counts domain events. It satisfies matching.Observer.
type Collector struct {
	swipes        *prometheus.CounterVec
	matches       prometheus.Counter
	rejections    *prometheus.CounterVec
	candidates    prometheus.Histogram
	notifications *prometheus.CounterVec
	backups       *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		swipes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swipes_total",
			Help:      "Swipe actions by kind (present, like, super_like, skip).",
		}, []string{"action"}),
		matches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Mutual matches created.",
		}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_rejections_total",
			Help:      "Profile submissions rejected by moderation, by reason.",
		}, []string{"reason"}),
		candidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_served",
			Help:      "Size of returned candidate batches.",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 50},
		}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Outgoing notifications by kind and result.",
		}, []string{"kind", "result"}),
		backups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Backup runs by result (written, skipped, failed).",
		}, []string{"result"}),
	}
}

func (c *Collector) Swiped(action string)             { c.swipes.WithLabelValues(action).Inc() }
func (c *Collector) Matched()                         { c.matches.Inc() }
func (c *Collector) ModerationRejected(reason string) { c.rejections.WithLabelValues(reason).Inc() }
func (c *Collector) CandidatesServed(n int)           { c.candidates.Observe(float64(n)) }

// NotificationSent records one delivery attempt.
func (c *Collector) NotificationSent(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.notifications.WithLabelValues(kind, result).Inc()
}

// BackupFinished records the outcome of one backup run.
func (c *Collector) BackupFinished(result string) {
	c.backups.WithLabelValues(result).Inc()
}
