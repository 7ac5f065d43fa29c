package metrics

import (
	"net/http"
	"net/http/httptest"
	"smartmethods/domain/study"
	"smartmethods/event"
	"smartmethods/testinfra"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if labels[l.GetName()] != l.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestNewCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	assert.NotNil(t, c.httpRequests)
	assert.NotNil(t, c.httpLatency)
	assert.NotNil(t, c.studyEvents)
	assert.NotNil(t, c.studiesCompleted)
	assert.NotNil(t, NewCollector(nil), "a private registry should be used when none is given")
}

func TestMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/v1/studies/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	c.RegisterMetricsEndpoint(router)

	for i := 0; i < 3; i++ {
		status, _, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/studies/1", nil), router)
		require.Equal(t, http.StatusOK, status)
	}
	status, _, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/nowhere", nil), router)
	require.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, 3.0, counterValue(t, reg, "smartmethods_http_requests_total",
		map[string]string{"method": "GET", "route": "/v1/studies/:id", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "smartmethods_http_requests_total",
		map[string]string{"method": "GET", "route": "unmatched", "status": "404"}))

	status, body, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "smartmethods_http_request_duration_seconds_bucket")
}

func TestHandleEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	completed := &event.EventRecord{Event: event.Event{SourceType: study.SourceType, EventCategory: event.EventCategoryStateTransited,
		UpdatedProperties: event.UpdatedProperties{{PropertyName: "Status", OldValue: "in_progress", NewValue: "completed"}}}}
	created := &event.EventRecord{Event: event.Event{SourceType: study.SourceType, EventCategory: event.EventCategoryCreated,
		UpdatedProperties: event.UpdatedProperties{{PropertyName: "Status", NewValue: "draft"}}}}

	assert.Equal(t, &event.EventHandleResult{Success: true, Message: "counted", HandlerIdentifier: HandlerIdentifier}, c.HandleEvent(completed))
	c.HandleEvent(created)
	assert.Nil(t, c.HandleEvent(&event.EventRecord{Event: event.Event{SourceType: "OTHER"}}))

	assert.Equal(t, 1.0, counterValue(t, reg, "smartmethods_studies_completed_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "smartmethods_study_events_total", map[string]string{"category": "CREATED"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "smartmethods_study_events_total", map[string]string{"category": "STATE_TRANSITED"}))
}
