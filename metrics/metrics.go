package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	CustomersCreated     prometheus.Counter
	StatusUpdates        prometheus.Counter
	OpportunitiesAdded   prometheus.Counter
	OpportunitiesUpdated prometheus.Counter
	UsersRegistered      prometheus.Counter
	AuthFailures         prometheus.Counter
	DigestsSent          *prometheus.CounterVec
	EndpointLatency      *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg. Each App builds its own
// prometheus.NewRegistry() for this and serves it on /metrics, so the global
// DefaultRegisterer is never touched.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CustomersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "clientconnect_customers_created_total",
			Help: "Total number of customers created",
		}),
		StatusUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "clientconnect_customer_status_updates_total",
			Help: "Total number of customer status updates",
		}),
		OpportunitiesAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "clientconnect_opportunities_added_total",
			Help: "Total number of opportunities added",
		}),
		OpportunitiesUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "clientconnect_opportunities_updated_total",
			Help: "Total number of opportunity updates",
		}),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "clientconnect_users_registered_total",
			Help: "Total number of users registered",
		}),
		AuthFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "clientconnect_auth_failures_total",
			Help: "Total number of failed logins and rejected tokens",
		}),
		DigestsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clientconnect_digests_total",
			Help: "Pipeline digests delivered, by outcome",
		}, []string{"outcome"}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clientconnect_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
