package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"smartmethods/common"
	"smartmethods/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

var mappings = []mapping{
	{ErrUnauthenticated, http.StatusUnauthorized, "common.unauthenticated", "unauthenticated"},
	{ErrForbidden, http.StatusForbidden, "security.forbidden", "access forbidden"},
	{ErrTooManyRequests, http.StatusTooManyRequests, "common.too_many_requests", "too many requests"},
	{domain.ErrInvalidFormat, http.StatusBadRequest, "timing.invalid_format", ""},
	{domain.ErrOutOfRange, http.StatusBadRequest, "timing.out_of_range", ""},
	{domain.ErrInvalidArgument, http.StatusBadRequest, "common.invalid_argument", ""},
	{domain.ErrInvariantViolation, http.StatusConflict, "common.invariant_violation", ""},
	{domain.ErrInvalidState, http.StatusConflict, "study.invalid_state", ""},
	{domain.ErrNotFound, http.StatusNotFound, "common.record_not_found", "record not found"},
	{gorm.ErrRecordNotFound, http.StatusNotFound, "common.record_not_found", "record not found"},
}

func HandleError(c *gin.Context, err error) {
	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	var bizErr BizError
	if errors.As(genericErr, &bizErr) {
		respond := bizErr.Respond()
		common.Log.WithField("status", respond.Status).Info(err)
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request:  io.EOF (no body).
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax Error
	var syntaxErr *json.SyntaxError
	if errors.As(genericErr, &syntaxErr) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	var validationErr validator.ValidationErrors
	if errors.As(genericErr, &validationErr) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	for _, m := range mappings {
		if errors.Is(genericErr, m.target) {
			message := m.message
			if message == "" {
				message = genericErr.Error()
			}
			common.Log.WithField("status", m.status).Info(err)
			c.JSON(m.status, &common.ErrorBody{Code: m.code, Message: message})
			c.Abort()
			return
		}
	}

	common.Log.Error(err)
	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: CodeInternalServerError, Message: err.Error()})
	c.Abort()
}
