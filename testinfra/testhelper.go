package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"

	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func BuildSession(uid types.ID, name string) *session.Session {
	return &session.Session{Identity: session.Identity{ID: uid, Name: name}}
}

// WithIdentity sets the gateway identity headers on req.
func WithIdentity(req *http.Request, uid types.ID, name string) *http.Request {
	req.Header.Set(session.HeaderUserID, uid.String())
	req.Header.Set(session.HeaderUserName, name)
	return req
}

func ExecuteRequest(req *http.Request, engine *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp
}
