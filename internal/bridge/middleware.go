package bridge

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	PrinterReachable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_printer_reachable",
			Help: "1 when the configured network printer answers on its port",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, PrinterReachable)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// AuthRequired gates requests behind a shared token carried either in
// X-Auth-Token or as a bearer token. A 401 tells the POS client to discard
// its cached token and re-prompt.
func AuthRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		got := c.GetHeader("X-Auth-Token")
		if got == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				got = parts[1]
			}
		}

		if got != token {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or missing auth token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
