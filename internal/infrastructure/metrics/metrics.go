package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatmarket",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatmarket",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatmarket",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatmarket",
			Subsystem: "commerce",
			Name:      "orders_created_total",
			Help:      "Total number of orders placed through checkout.",
		},
	)

	orderResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatmarket",
			Subsystem: "commerce",
			Name:      "order_responses_total",
			Help:      "Seller responses to orders.",
		},
		[]string{"outcome"},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatmarket",
			Subsystem: "commerce",
			Name:      "payments_total",
			Help:      "Payment attempts by method and result.",
		},
		[]string{"method", "result"},
	)

	messagesPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatmarket",
			Subsystem: "chat",
			Name:      "messages_posted_total",
			Help:      "Total number of chat messages by type.",
		},
		[]string{"type"},
	)

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatmarket",
			Subsystem: "chat",
			Name:      "websocket_connections",
			Help:      "Currently connected websocket clients.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ordersCreated,
		orderResponses,
		payments,
		messagesPosted,
		wsConnections,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			httpInFlight.Inc()
			defer httpInFlight.Dec()

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)

			httpRequests.WithLabelValues(c.Request().Method, path, status).Inc()
			httpDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func RecordOrderCreated() {
	ordersCreated.Inc()
}

func RecordOrderResponse(accepted bool) {
	outcome := "declined"
	if accepted {
		outcome = "confirmed"
	}
	orderResponses.WithLabelValues(outcome).Inc()
}

func RecordPayment(method string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	payments.WithLabelValues(method, result).Inc()
}

func RecordMessage(messageType string) {
	messagesPosted.WithLabelValues(messageType).Inc()
}

func WebsocketConnected() {
	wsConnections.Inc()
}

func WebsocketDisconnected() {
	wsConnections.Dec()
}
