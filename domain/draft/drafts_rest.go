package draft

import (
	"io"
	"net/http"

	"smartmethods/bizerror"
	"smartmethods/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathDrafts      = "/v1/drafts"
	PathPreferences = "/v1/preferences"
)

func RegisterDraftsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathDrafts, middleWares...)
	g.GET("", handleLoadDraft)
	g.PUT("", handleSaveDraft)
	g.DELETE("", handleDiscardDraft)

	p := r.Group(PathPreferences, middleWares...)
	p.GET(":key", handleGetPreference)
	p.PUT(":key", handleSetPreference)
}

func handleLoadDraft(c *gin.Context) {
	d, err := LoadDraftFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, d)
}

func handleSaveDraft(c *gin.Context) {
	d := Draft{}
	if err := c.ShouldBindBodyWith(&d, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	saved, err := SaveDraftFunc(&d, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, saved)
}

func handleDiscardDraft(c *gin.Context) {
	if err := DiscardDraftFunc(session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleGetPreference(c *gin.Context) {
	v, err := GetPreferenceFunc(c.Param("key"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, binding.MIMEJSON, v)
}

func handleSetPreference(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxPreferenceSize+1))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := SetPreferenceFunc(c.Param("key"), body, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
