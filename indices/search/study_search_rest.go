package search

import (
	"net/http"

	"smartmethods/bizerror"
	"smartmethods/common"
	"smartmethods/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathStudySearches = "/v1/study-searches"

func RegisterSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathStudySearches, middleWares...)
	g.GET("", handleSearchStudies)
}

func handleSearchStudies(c *gin.Context) {
	q := StudySearchQuery{}
	if err := c.MustBindWith(&q, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	docs, err := SearchStudiesFunc(q, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: docs, Total: uint64(len(docs))})
}
