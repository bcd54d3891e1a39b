// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegistrationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anpl",
		Name:      "registrations_submitted_total",
		Help:      "Registration bundles accepted, by event type.",
	}, []string{"event_type"})

	RegistrationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anpl",
		Name:      "registrations_refused_total",
		Help:      "Submissions refused by validation or eligibility rules, by error code.",
	}, []string{"code"})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anpl",
		Name:      "payments_total",
		Help:      "Payment operations by stage and outcome.",
	}, []string{"stage", "outcome"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anpl",
		Name:      "uploads_total",
		Help:      "Document uploads by slot and outcome.",
	}, []string{"slot", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "anpl",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome label values.
const (
	OK    = "ok"
	Error = "error"
)

// Middleware records request latency under the matched route pattern so
// path parameters do not explode cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		requestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
