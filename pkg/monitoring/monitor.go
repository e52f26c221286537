package monitoring

import (
	"strconv"
	"sync"
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

	Enrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "learnul_enrollments_total",
		Help: "Enrollments created",
	})

	LessonCompletions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "learnul_lesson_completions_total",
		Help: "Lesson completion writes",
	})

	CatalogFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnul_catalog_fetches_total",
			Help: "Catalog reads by resulting state",
		},
		[]string{"state"},
	)

	SessionResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnul_session_resolutions_total",
			Help: "Profile resolutions after sign-in by resulting state",
		},
		[]string{"state"},
	)
)

var registerOnce sync.Once

// Init 注册监控指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			Enrollments,
			LessonCompletions,
			CatalogFetches,
			SessionResolutions,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
