package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// EngagementEvents counts engagement mutations by kind and outcome
	// (follow, unfollow, like, unlike, comment).
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_engagement_events_total",
		Help: "Total number of engagement mutations by kind",
	}, []string{"kind"})

	// NotificationsEmitted counts notification fan-outs by kind.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_notifications_emitted_total",
		Help: "Total number of notifications emitted by kind",
	}, []string{"kind"})
)

var (
	promOnce sync.Once
	promHTTP *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The middleware registers collectors in the default registry, so it
// is created once per process regardless of how many servers are built.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promHTTP = fiberprometheus.New(serviceName)
	})
	return promHTTP
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
