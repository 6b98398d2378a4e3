package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stayspot_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// RateLimitRejections counts requests rejected by the rate limiter.
var RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stayspot_ratelimit_rejections_total",
	Help: "Total number of requests rejected by the rate limiter.",
}, []string{"resource"})

// BookingConflicts counts booking attempts rejected for overlapping dates.
var BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "stayspot_booking_conflicts_total",
	Help: "Total number of bookings rejected due to date conflicts.",
})

// InitMetrics creates the Prometheus HTTP middleware for the Fiber app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
