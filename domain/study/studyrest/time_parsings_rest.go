package studyrest

import (
	"net/http"

	"smartmethods/bizerror"
	"smartmethods/domain/timing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathTimeParsings = "/v1/time-parsings"

type TimeParsing struct {
	Text string `json:"text"`
}

type TimeParsingResult struct {
	timing.BulkResult
	Formatted []string `json:"formatted"`
}

func RegisterTimeParsingsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathTimeParsings, middleWares...)
	g.POST("", handleParseTimes)
}

func handleParseTimes(c *gin.Context) {
	parsing := TimeParsing{}
	if err := c.ShouldBindBodyWith(&parsing, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result := timing.ParseBulk(parsing.Text)
	formatted := make([]string, 0, len(result.Accepted))
	for _, ms := range result.Accepted {
		formatted = append(formatted, timing.Format(ms))
	}
	c.JSON(http.StatusOK, &TimeParsingResult{BulkResult: result, Formatted: formatted})
}
