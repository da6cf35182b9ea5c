package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// OpenSessions tracks challenge-solving sessions currently held in memory.
	OpenSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "challenge_sessions_open",
			Help: "Number of currently open challenge sessions",
		},
	)

	// AutosaveCounter counts fire-and-forget attempt saves by outcome.
	AutosaveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_autosaves_total",
			Help: "Total number of teardown autosaves of challenge attempts",
		},
		[]string{"outcome"},
	)

	// ExecutionCounter counts sandbox executions by result.
	ExecutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_executions_total",
			Help: "Total number of code executions sent to the sandbox",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(OpenSessions)
	prometheus.MustRegister(AutosaveCounter)
	prometheus.MustRegister(ExecutionCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
