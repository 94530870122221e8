package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopfront"

// Shop groups HTTP and order-lifecycle metrics. A nil *Shop is valid and
// records nothing, which keeps services usable without a registry.
type Shop struct {
	requests  *prometheus.CounterVec
	latencyMS *prometheus.HistogramVec

	ordersCreated  prometheus.Counter
	captures       *prometheus.CounterVec
	stockDecrement prometheus.Counter
	statusChanges  *prometheus.CounterVec
	reviews        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Shop {
	m := &Shop{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		latencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders created in pending state.",
		}),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "captures_total",
			Help:      "Payment capture attempts by outcome.",
		}, []string{"outcome"}),
		stockDecrement: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "stock_units_decremented_total",
			Help:      "Units removed from stock by committed captures.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Admin order status changes by target status.",
		}, []string{"status"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "submitted_total",
			Help:      "Review submissions by outcome.",
		}, []string{"outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.requests, m.latencyMS,
		m.ordersCreated, m.captures, m.stockDecrement, m.statusChanges, m.reviews,
	)
	return m
}

func (m *Shop) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// Capture records a capture outcome: "success", "not_found", "insufficient_stock",
// "conflict" or "error". units is only counted on success.
func (m *Shop) Capture(outcome string, units int) {
	if m == nil {
		return
	}
	m.captures.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.stockDecrement.Add(float64(units))
	}
}

func (m *Shop) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *Shop) Review(outcome string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

func (m *Shop) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			m.requests.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			m.latencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}

func (m *Shop) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
