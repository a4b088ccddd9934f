// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"strconv"

	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zakat_keeper"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// FieldResolutions counts server cipher resolutions by outcome and by the
	// keyring position that opened a legacy field ("none" otherwise).
	FieldResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_resolutions_total",
			Help:      "Sensitive field resolutions by outcome",
		},
		[]string{"outcome", "key_index"},
	)

	// FormatRejections counts commits refused for not being zero-knowledge.
	FormatRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "format_rejections_total",
			Help:      "Record commits rejected for a non zero-knowledge value",
		},
	)

	// MigrationTransitions counts state machine transitions by target status.
	MigrationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "migration_transitions_total",
			Help:      "Encryption migration status transitions",
		},
		[]string{"to"},
	)

	// RateLimited counts requests refused by the rate limiter.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests refused by the rate limiter",
		},
		[]string{"path"},
	)

	// MigrationUsers is the number of users per migration status.
	MigrationUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "migration_users",
			Help:      "Users by encryption migration status",
		},
		[]string{"status"},
	)

	// MigrationFields sums total and migrated field counters over all users.
	MigrationFields = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "migration_fields",
			Help:      "Legacy fields captured at handoff and fields migrated so far",
		},
		[]string{"counter"}, // "total" or "migrated"
	)
)

// ObserveResolution records one server cipher resolution.
func ObserveResolution(res crypto.Resolution) {
	key := "none"
	if res.KeyIndex >= 0 {
		key = strconv.Itoa(res.KeyIndex)
	}
	FieldResolutions.WithLabelValues(res.Outcome.String(), key).Inc()
}

// SetMigrationStats publishes an aggregate snapshot to the gauges.
func SetMigrationStats(stats models.MigrationStats) {
	for _, status := range []models.MigrationStatus{
		models.MigrationPending,
		models.MigrationInProgress,
		models.MigrationCompleted,
	} {
		MigrationUsers.WithLabelValues(string(status)).Set(float64(stats.Users[status]))
	}
	MigrationFields.WithLabelValues("total").Set(float64(stats.TotalFields))
	MigrationFields.WithLabelValues("migrated").Set(float64(stats.MigratedFields))
}
