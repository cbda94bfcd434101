package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-коллекторов сервиса.
// Методы записи безопасны для nil-получателя: при выключенных метриках
// по коду передается nil, и запись превращается в no-op.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec

	reservationsCreatedTotal   prometheus.Counter
	reservationsConfirmedTotal prometheus.Counter
	reservationsCancelledTotal *prometheus.CounterVec
	paymentCallbacksTotal      *prometheus.CounterVec
}

// New регистрирует коллекторы в дефолтном registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),

		reservationsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Total number of pending reservations created",
			ConstLabels: constLabels,
		}),

		reservationsConfirmedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_confirmed_total",
			Help:        "Total number of reservations confirmed by payment",
			ConstLabels: constLabels,
		}),

		reservationsCancelledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_cancelled_total",
			Help:        "Total number of cancelled reservations by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		paymentCallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_callbacks_total",
			Help:        "Total number of payment gateway callbacks by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
}

// IncHTTPRequest инкрементирует счетчик HTTP запросов
func (m *Metrics) IncHTTPRequest(method, path, status string) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// ObserveHTTPDuration записывает длительность HTTP запроса
func (m *Metrics) ObserveHTTPDuration(method, path string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает метрики одного запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauges connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbPoolOpen.WithLabelValues().Set(float64(open))
	m.dbPoolInUse.WithLabelValues().Set(float64(inUse))
	m.dbPoolIdle.WithLabelValues().Set(float64(idle))
}

// IncReservationCreated инкрементирует счетчик созданных бронирований
func (m *Metrics) IncReservationCreated() {
	if m == nil {
		return
	}
	m.reservationsCreatedTotal.Inc()
}

// IncReservationConfirmed инкрементирует счетчик подтвержденных бронирований
func (m *Metrics) IncReservationConfirmed() {
	if m == nil {
		return
	}
	m.reservationsConfirmedTotal.Inc()
}

// IncReservationCancelled инкрементирует счетчик отмен с указанием причины
// (user, payment_rejected, expired)
func (m *Metrics) IncReservationCancelled(reason string) {
	if m == nil {
		return
	}
	m.reservationsCancelledTotal.WithLabelValues(reason).Inc()
}

// IncPaymentCallback инкрементирует счетчик callback-ов платежного шлюза
// (authorized, rejected, unknown_token, commit_failed, replay)
func (m *Metrics) IncPaymentCallback(result string) {
	if m == nil {
		return
	}
	m.paymentCallbacksTotal.WithLabelValues(result).Inc()
}
