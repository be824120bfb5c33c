package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BlogsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogs_created_total",
			Help: "Total number of blogs created",
		},
	)

	BlogsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogs_updated_total",
			Help: "Total number of blogs updated",
		},
	)

	BlogsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogs_deleted_total",
			Help: "Total number of blogs deleted",
		},
	)

	OwnershipDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_ownership_denied_total",
			Help: "Total number of mutations rejected by the ownership check",
		},
	)

	StatsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_stats_computed_total",
			Help: "Total number of aggregation snapshots computed",
		},
	)

	EventFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_event_feed_clients",
			Help: "Number of connected event feed clients",
		},
	)

	EventFeedDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_event_feed_dropped_total",
			Help: "Total number of events dropped for slow clients",
		},
	)
)
