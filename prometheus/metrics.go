package prometheus

import (
	"strconv"
	"time"

	"rental-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Per-entity CRUD operation counters
	EntityOperationsCounter prometheus.CounterVec

	// Occupancy per building
	OccupancyGauge prometheus.GaugeVec

	// Active lease contracts across all buildings
	ActiveContractsGauge prometheus.Gauge

	// Unpaid invoices across all contracts
	UnpaidInvoicesGauge prometheus.Gauge
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	EntityOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"},
	)

	OccupancyGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_building_occupancy_percent",
			Help: "Rented units as a percentage of total units per building",
		},
		[]string{"building_id", "building_name"},
	)

	ActiveContractsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_active_contracts",
			Help: "Number of active lease contracts",
		},
	)

	UnpaidInvoicesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_unpaid_invoices",
			Help: "Number of unpaid invoices",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOperation increments the counter for an entity operation
func RecordOperation(entity, operation string) {
	EntityOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// UpdateOccupancy updates the occupancy gauge for a building
func UpdateOccupancy(buildingID uint, buildingName string, percent float64) {
	OccupancyGauge.WithLabelValues(
		strconv.FormatUint(uint64(buildingID), 10),
		buildingName,
	).Set(percent)
}

// UpdateActiveContracts updates the active contracts gauge
func UpdateActiveContracts(count int64) {
	ActiveContractsGauge.Set(float64(count))
}

// UpdateUnpaidInvoices updates the unpaid invoices gauge
func UpdateUnpaidInvoices(count int64) {
	UnpaidInvoicesGauge.Set(float64(count))
}
