package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"smartmethods/bizerror"
	"smartmethods/session"
	"smartmethods/testinfra"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestLimiter(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should fall back to defaults", func(t *testing.T) {
		l := New(0, -1)
		Expect(float64(l.limit)).To(Equal(float64(DefaultRequestsPerSecond)))
		Expect(l.burst).To(Equal(DefaultBurst))
	})

	t.Run("should allow a burst and then throttle per key", func(t *testing.T) {
		l := New(0.001, 2)
		Expect(l.Allow("a")).To(BeTrue())
		Expect(l.Allow("a")).To(BeTrue())
		Expect(l.Allow("a")).To(BeFalse())
		Expect(l.Allow("b")).To(BeTrue())
	})
}

func TestMiddleware(t *testing.T) {
	RegisterTestingT(t)

	newRouter := func(l *Limiter, identified bool) *gin.Engine {
		router := gin.New()
		router.Use(bizerror.ErrorHandling())
		if identified {
			router.Use(session.IdentityFilter())
		}
		router.Use(l.Middleware())
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return router
	}

	t.Run("should respond 429 when the bucket of the user is empty", func(t *testing.T) {
		router := newRouter(New(0.001, 1), true)

		status, _, _ := testinfra.ExecuteRequest(testinfra.WithIdentity(httptest.NewRequest(http.MethodGet, "/ping", nil), 10, "ann"), router)
		Expect(status).To(Equal(http.StatusNoContent))

		status, body, _ := testinfra.ExecuteRequest(testinfra.WithIdentity(httptest.NewRequest(http.MethodGet, "/ping", nil), 10, "ann"), router)
		Expect(status).To(Equal(http.StatusTooManyRequests))
		Expect(body).To(MatchJSON(`{"code":"common.too_many_requests","message":"too many requests","data":null}`))

		status, _, _ = testinfra.ExecuteRequest(testinfra.WithIdentity(httptest.NewRequest(http.MethodGet, "/ping", nil), 11, "bob"), router)
		Expect(status).To(Equal(http.StatusNoContent))
	})

	t.Run("should key anonymous requests by client ip", func(t *testing.T) {
		router := newRouter(New(0.001, 1), false)

		status, _, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ping", nil), router)
		Expect(status).To(Equal(http.StatusNoContent))
		status, _, _ = testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ping", nil), router)
		Expect(status).To(Equal(http.StatusTooManyRequests))
	})
}
