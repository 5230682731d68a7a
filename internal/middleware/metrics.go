package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trellis_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// EntryWrites counts journal entry mutations by operation.
	EntryWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trellis_entry_writes_total",
		Help: "Total number of entry create/update/toggle/delete operations",
	}, []string{"operation"})

	// BedUpserts counts bed get-or-create calls, labeled by outcome.
	BedUpserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trellis_bed_upserts_total",
		Help: "Total number of bed upsert operations",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the request-level Prometheus instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
