package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)

	// Kafka
	kafkaMessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kafka_messages_sent_total",
			Help: "Total number of Kafka messages successfully sent.",
		},
	)
	kafkaMessagesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Total number of Kafka messages successfully processed.",
		},
	)
	kafkaErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_errors_total",
			Help: "Total number of Kafka-related errors.",
		},
		[]string{"component", "operation"},
	)
	kafkaConsumerLag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_lag",
			Help: "Kafka consumer lag (high watermark - current offset - 1).",
		},
		[]string{"topic", "partition"},
	)

	// Business
	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservations successfully created.",
		},
	)
	codeAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reservation_code_attempts",
			Help:    "Samples needed to find a free reservation code.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)
	ticketsVoided = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_voided_total",
			Help: "Total number of tickets voided.",
		},
	)
	ticketsUsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_used_total",
			Help: "Total number of tickets marked used by boarding scans.",
		},
	)
	seatStatusCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seats_status_count",
			Help: "Current count of seats by status.",
		},
		[]string{"status"},
	)
	ticketStatusCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickets_status_count",
			Help: "Current count of tickets by status.",
		},
		[]string{"status"},
	)
	totalRevenue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reservations_revenue_total",
			Help: "Sum of all reservation prices.",
		},
	)

	// Outbox
	outboxMessagesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outbox_messages_count",
			Help: "Current count of outbox messages by status.",
		},
		[]string{"status"},
	)
	outboxMessagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_messages_sent_total",
			Help: "Total number of outbox messages marked as sent.",
		},
	)
	outboxMessagesFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_messages_failed_total",
			Help: "Total number of outbox messages marked as failed.",
		},
	)
	outboxProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outbox_processing_duration_seconds",
			Help:    "Time spent sending a single outbox message (seconds).",
			Buckets: prometheus.DefBuckets,
		},
	)
	outboxRetryCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_retries_total",
			Help: "Total number of outbox send retries (failed attempts).",
		},
	)
	outboxLagSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outbox_lag_seconds",
			Help:    "Lag between outbox message creation and send attempt (seconds).",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
	)
	outboxPendingCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "outbox_pending_count",
			Help: "Current number of pending outbox messages.",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,

			kafkaMessagesSent,
			kafkaMessagesProcessed,
			kafkaErrors,
			kafkaConsumerLag,

			reservationsCreated,
			codeAttempts,
			ticketsVoided,
			ticketsUsed,
			seatStatusCount,
			ticketStatusCount,
			totalRevenue,

			outboxMessagesTotal,
			outboxMessagesSentTotal,
			outboxMessagesFailedTotal,
			outboxProcessingDuration,
			outboxRetryCount,
			outboxLagSeconds,
			outboxPendingCount,
		)
		registerRedisMetrics()
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// --- HTTP ---
func ObserveHTTPRequest(method, route, code string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, code).Inc()
	httpDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

// --- Kafka ---
func IncKafkaSent()      { kafkaMessagesSent.Inc() }
func IncKafkaProcessed() { kafkaMessagesProcessed.Inc() }
func IncKafkaError(component, operation string) {
	kafkaErrors.WithLabelValues(component, operation).Inc()
}
func SetKafkaConsumerLag(topic string, partition int32, lag int64) {
	if lag < 0 {
		lag = 0
	}
	kafkaConsumerLag.WithLabelValues(topic, strconv.Itoa(int(partition))).Set(float64(lag))
}

// --- Business ---
func IncReservationsCreated()   { reservationsCreated.Inc() }
func ObserveCodeAttempts(n int) { codeAttempts.Observe(float64(n)) }
func IncTicketsVoided()         { ticketsVoided.Inc() }
func IncTicketsUsed()           { ticketsUsed.Inc() }

func SetSeatStatusCount(status string, count int64) {
	if count < 0 {
		count = 0
	}
	seatStatusCount.WithLabelValues(status).Set(float64(count))
}
func SetTicketStatusCount(status string, count int64) {
	if count < 0 {
		count = 0
	}
	ticketStatusCount.WithLabelValues(status).Set(float64(count))
}
func SetTotalRevenue(v float64) {
	if v < 0 {
		v = 0
	}
	totalRevenue.Set(v)
}

// --- Outbox ---
func IncOutboxSent()                          { outboxMessagesSentTotal.Inc() }
func IncOutboxFailed()                        { outboxMessagesFailedTotal.Inc() }
func ObserveOutboxProcessing(d time.Duration) { outboxProcessingDuration.Observe(d.Seconds()) }
func IncOutboxRetry()                         { outboxRetryCount.Inc() }
func ObserveOutboxLagSeconds(sec float64) {
	if sec < 0 {
		sec = 0
	}
	outboxLagSeconds.Observe(sec)
}

// --- Gauges (DB collectors) ---
func SetOutboxStatusCount(status string, count int64) {
	if count < 0 {
		count = 0
	}
	outboxMessagesTotal.WithLabelValues(status).Set(float64(count))
}
func SetOutboxPendingCount(count int64) {
	if count < 0 {
		count = 0
	}
	outboxPendingCount.Set(float64(count))
}
