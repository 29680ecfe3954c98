package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ViolationsCreated      prometheus.Counter
	ViolationsPaid         prometheus.Counter
	ConversationsStarted   prometheus.Counter
	ConversationsCompleted prometheus.Counter
	ConversationsAbandoned prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ViolationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficdesk_violations_created_total",
			Help: "Total number of violations recorded",
		}),
		ViolationsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficdesk_violations_paid_total",
			Help: "Total number of violations marked paid",
		}),
		ConversationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficdesk_bot_conversations_started_total",
			Help: "Total number of bot data-entry conversations started",
		}),
		ConversationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficdesk_bot_conversations_completed_total",
			Help: "Total number of bot conversations that produced a violation",
		}),
		ConversationsAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficdesk_bot_conversations_abandoned_total",
			Help: "Total number of bot conversations discarded before completion",
		}),
	}
}

// NewForTesting creates metrics on a private registry so parallel test
// packages never collide on the default registerer.
func NewForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		ViolationsCreated:      factory.NewCounter(prometheus.CounterOpts{Name: "trafficdesk_violations_created_total"}),
		ViolationsPaid:         factory.NewCounter(prometheus.CounterOpts{Name: "trafficdesk_violations_paid_total"}),
		ConversationsStarted:   factory.NewCounter(prometheus.CounterOpts{Name: "trafficdesk_bot_conversations_started_total"}),
		ConversationsCompleted: factory.NewCounter(prometheus.CounterOpts{Name: "trafficdesk_bot_conversations_completed_total"}),
		ConversationsAbandoned: factory.NewCounter(prometheus.CounterOpts{Name: "trafficdesk_bot_conversations_abandoned_total"}),
	}
}
