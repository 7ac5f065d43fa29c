package indices

import (
	"net/http"
	"time"

	"smartmethods/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	PathIndexRequests        = "/v1/index-requests"
	PathPendingIndexRecovery = "/v1/pending-index-recoveries"

	indexLogRecoveryLimiter = rate.NewLimiter(rate.Every(time.Minute), 1)
)

func RegisterIndicesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathIndexRequests, middleWares...)
	g.POST("", handleIndexRequest)

	recovery := r.Group(PathPendingIndexRecovery, middleWares...)
	recovery.POST("", handlePendingIndexRecovery)
}

func handleIndexRequest(c *gin.Context) {
	success, err := ScheduleNewSyncRunFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"result": success})
}

func handlePendingIndexRecovery(c *gin.Context) {
	if !indexLogRecoveryLimiter.Allow() {
		c.JSON(http.StatusOK, gin.H{"result": "request rate limited"})
		return
	}
	go func() {
		recovered, err := RecoverPendingIndexLogsFunc()
		if err != nil {
			logrus.Errorf("pending index recovery: %v", err)
			return
		}
		logrus.Infof("pending index recovery: %d recovered", recovered)
	}()
	c.JSON(http.StatusCreated, gin.H{"result": "started"})
}
