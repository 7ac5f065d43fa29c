package archive

import (
	"net/http"

	"smartmethods/bizerror"
	"smartmethods/common"
	"smartmethods/session"

	"github.com/gin-gonic/gin"
)

var PathReportArchives = "/v1/report-archives"

func RegisterArchivesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathReportArchives, middleWares...)
	g.GET(":id", handleDetailArchive)
}

func handleDetailArchive(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	data, err := DetailArchiveFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, gin.MIMEJSON, data)
}
