// Package metrics exposes HTTP and study lifecycle metrics in the prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"smartmethods/domain/study"
	"smartmethods/event"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const HandlerIdentifier = "metrics"

type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	studyEvents      *prometheus.CounterVec
	studiesCompleted prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewCollector registers the metrics into reg, a nil reg means a private registry.
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartmethods_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartmethods_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		studyEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartmethods_study_events_total",
			Help: "Total number of study events by category",
		}, []string{"category"}),
		studiesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartmethods_studies_completed_total",
			Help: "Total number of studies which reached the completed status",
		}),
		gatherer: reg,
	}

	reg.MustRegister(c.httpRequests)
	reg.MustRegister(c.httpLatency)
	reg.MustRegister(c.studyEvents)
	reg.MustRegister(c.studiesCompleted)
	return c
}

// Middleware records every request after it has been served.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		begin := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(begin).Seconds())
	}
}

// HandleEvent is an event.EventHandler counting study events.
func (c *Collector) HandleEvent(ev *event.EventRecord) *event.EventHandleResult {
	if ev == nil || ev.SourceType != study.SourceType {
		return nil
	}
	c.studyEvents.WithLabelValues(string(ev.EventCategory)).Inc()
	if newStatus, ok := study.StatusChangedTo(ev); ok && newStatus == study.StatusCompleted {
		c.studiesCompleted.Inc()
	}
	return &event.EventHandleResult{Success: true, Message: "counted", HandlerIdentifier: HandlerIdentifier}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) RegisterMetricsEndpoint(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(c.Handler()))
}
