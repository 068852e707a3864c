package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roostermarket/internal/domain/entity"
)

const namespace = "roostermarket"

var (
	// Registry holds the service's collectors; /metrics serves only this registry.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order status change attempts by target status and outcome.",
		},
		[]string{"to", "outcome"},
	)

	feedbackSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "submissions_total",
			Help:      "Feedback submissions by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	chatMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "messages_sent_total",
			Help:      "Chat messages stored.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		orderTransitions,
		feedbackSubmissions,
		chatMessages,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func StartRequest() {
	httpInFlight.Inc()
}

// ObserveRequest records a finished request. path should be the route template,
// not the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordOrderTransition counts a status change attempt. Unknown target statuses
// share one label so client input cannot add series.
func RecordOrderTransition(to string, err error) {
	if !entity.IsValidOrderStatus(to) {
		to = "unknown"
	}
	orderTransitions.WithLabelValues(to, outcome(err)).Inc()
}

func RecordFeedback(kind string, err error) {
	feedbackSubmissions.WithLabelValues(kind, outcome(err)).Inc()
}

func RecordChatMessage() {
	chatMessages.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}
