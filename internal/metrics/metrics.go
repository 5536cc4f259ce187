package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bullpen_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	EventCancellations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bullpen_event_cancellations_total",
		Help: "Completed event cancellation workflows",
	})

	RefundTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bullpen_refund_transitions_total",
		Help: "Refund request state transitions by target status",
	}, []string{"status"})

	WaitlistPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bullpen_waitlist_promotions_total",
		Help: "Attendees promoted from the waitlist",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bullpen_notifications_sent_total",
		Help: "Notification records written",
	})
)

// Middleware records request latency per route. The route template is used
// rather than the raw path so event ids do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the /metrics scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
