package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation type.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auroric_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// NotificationsEmitted counts emitted notifications by type.
var NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auroric_notifications_emitted_total",
	Help: "Total number of notifications emitted by type",
}, []string{"type"})

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics builds the Prometheus HTTP middleware for the given service
// name. The underlying collectors register with the default registry, which
// only tolerates a single registration per process.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(service)
	})
	return prom
}

// MetricsMiddleware adapts the fiberprometheus middleware to a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
