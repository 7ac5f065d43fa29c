package profile

import (
	"net/http"

	"smartmethods/bizerror"
	"smartmethods/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathProfile = "/v1/profile"

func RegisterProfileRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathProfile, middleWares...)
	g.GET("", handleGetProfile)
	g.PUT("", handleSaveProfile)
}

func handleGetProfile(c *gin.Context) {
	p, err := GetProfileFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, p)
}

func handleSaveProfile(c *gin.Context) {
	u := ProfileUpdating{}
	if err := c.ShouldBindBodyWith(&u, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	p, err := SaveProfileFunc(&u, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, p)
}
