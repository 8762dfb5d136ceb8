package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-коллекторов сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Scheduling domain
	BookingAttempts         *prometheus.CounterVec
	Cancellations           *prometheus.CounterVec
	RefundedCents           *prometheus.CounterVec
	CorruptBookingDurations *prometheus.CounterVec
	OvernightWraps          *prometheus.CounterVec
	SlotLockWait            *prometheus.HistogramVec
}

// New регистрирует коллекторы в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует коллекторы в переданном реестре (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		BookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_attempts_total",
			Help:        "Booking creation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		Cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_cancellations_total",
			Help:        "Booking cancellations by initiator",
			ConstLabels: constLabels,
		}, []string{"initiator"}),
		RefundedCents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "refunded_cents_total",
			Help:        "Refund amounts computed on cancellation, in minor units",
			ConstLabels: constLabels,
		}, []string{"tier"}),
		CorruptBookingDurations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "corrupt_booking_durations_total",
			Help:        "Bookings skipped from utilization because of an impossible duration",
			ConstLabels: constLabels,
		}, []string{"therapist"}),
		OvernightWraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "schedule_overnight_wraps_total",
			Help:        "Schedule blocks whose end precedes their start and were treated as overnight",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		SlotLockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "slot_lock_wait_seconds",
			Help:        "Time spent waiting for the per-slot lock",
			Buckets:     []float64{.001, .005, .01, .05, .1, .5, 1, 2, 5},
			ConstLabels: constLabels,
		}, []string{"backend"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingAttempts,
		m.Cancellations,
		m.RefundedCents,
		m.CorruptBookingDurations,
		m.OvernightWraps,
		m.SlotLockWait,
	)

	return m
}

// ObserveHTTP фиксирует завершённый HTTP-запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, elapsed time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) BookingAttempt(outcome string) {
	m.BookingAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Cancellation(initiator string) {
	m.Cancellations.WithLabelValues(initiator).Inc()
}

func (m *Metrics) Refund(tier string, cents int64) {
	m.RefundedCents.WithLabelValues(tier).Add(float64(cents))
}

func (m *Metrics) CorruptBookingDuration(therapist string) {
	m.CorruptBookingDurations.WithLabelValues(therapist).Inc()
}

func (m *Metrics) OvernightWrap(kind string) {
	m.OvernightWraps.WithLabelValues(kind).Inc()
}

func (m *Metrics) SlotLockWaited(backend string, elapsed time.Duration) {
	m.SlotLockWait.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// Noop реализация доменных счётчиков, когда метрики выключены
type Noop struct{}

func (Noop) BookingAttempt(string)                {}
func (Noop) Cancellation(string)                  {}
func (Noop) Refund(string, int64)                 {}
func (Noop) CorruptBookingDuration(string)        {}
func (Noop) OvernightWrap(string)                 {}
func (Noop) SlotLockWaited(string, time.Duration) {}

// SetPoolStats публикует статистику пула соединений
func (m *Metrics) SetPoolStats(db string, stats sql.DBStats) {
	m.DBOpenConnections.WithLabelValues(db).Set(float64(stats.OpenConnections))
	m.DBInUse.WithLabelValues(db).Set(float64(stats.InUse))
	m.DBIdle.WithLabelValues(db).Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(db).Set(float64(stats.WaitCount))
}
