package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})
)

// InitMetrics returns the process-wide fiberprometheus instance. The
// collectors register once; later calls reuse them so tests can build
// several servers in one process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.NewWithRegistry(
			prometheus.DefaultRegisterer,
			serviceName,
			"inkspace",
			"http",
			nil,
		)
	})
	return prom
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
