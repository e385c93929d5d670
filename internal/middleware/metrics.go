package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vc7day_http_requests_total",
		Help: "Total HTTP requests by method, route and status class",
	}, []string{"method", "route", "status"})

	// RedisErrors counts failed redis operations by operation name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vc7day_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// ActiveWebSockets is the number of open live-counter connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vc7day_active_websockets",
		Help: "Number of open live-counter WebSocket connections",
	})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide fiberprometheus collector, creating
// it under serviceName on first use.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records HTTPRequests for every request.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, statusClass(status)).Inc()
		return err
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
