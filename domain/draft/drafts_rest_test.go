package draft_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"smartmethods/bizerror"
	"smartmethods/domain/draft"
	"smartmethods/session"
	"smartmethods/testinfra"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func draftRouter() *gin.Engine {
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	draft.RegisterDraftsRestAPI(router, session.IdentityFilter())
	return router
}

func TestDraftsAPI(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should round trip a draft through the api", func(t *testing.T) {
		router := draftRouter()

		req := testinfra.WithIdentity(httptest.NewRequest(http.MethodPut, "/v1/drafts", bytes.NewReader([]byte(
			`{"formData":{"processName":"Assembly","description":"","performanceRating":100,"supplementPercentage":15},
			"cycles":[{"name":"Cycle 1","observations":[90500],"autoNamed":true}],"activeCycle":0}`))), 31, "carl")
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		req = testinfra.WithIdentity(httptest.NewRequest(http.MethodGet, "/v1/drafts", nil), 31, "carl")
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"formData":{"processName":"Assembly","description":"","performanceRating":100,"supplementPercentage":15},
			"cycles":[{"name":"Cycle 1","observations":[90500],"autoNamed":true}],"activeCycle":0}`))

		req = testinfra.WithIdentity(httptest.NewRequest(http.MethodDelete, "/v1/drafts", nil), 31, "carl")
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))

		req = testinfra.WithIdentity(httptest.NewRequest(http.MethodGet, "/v1/drafts", nil), 31, "carl")
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
	})

	t.Run("should require an identity", func(t *testing.T) {
		status, _, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/drafts", nil), draftRouter())
		Expect(status).To(Equal(http.StatusUnauthorized))
	})
}

func TestPreferencesAPI(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should store and serve raw json", func(t *testing.T) {
		router := draftRouter()

		req := testinfra.WithIdentity(httptest.NewRequest(http.MethodPut, "/v1/preferences/notifications.read",
			bytes.NewReader([]byte(`["n1","n2"]`))), 32, "dana")
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))

		req = testinfra.WithIdentity(httptest.NewRequest(http.MethodGet, "/v1/preferences/notifications.read", nil), 32, "dana")
		status, body, resp := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`["n1","n2"]`))
		Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))

		req = testinfra.WithIdentity(httptest.NewRequest(http.MethodPut, "/v1/preferences/Bad%20Key",
			bytes.NewReader([]byte(`1`))), 32, "dana")
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
}
