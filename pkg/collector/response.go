package collector

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope codes. The code classifies the outcome; the HTTP status is
// derived from it for error responses and chosen per endpoint for success.
const (
	CodeSuccess          = 0
	CodeParamInvalid     = 40001
	CodeValidationFailed = 40002
	CodeInternalServer   = 50000
)

// Envelope is the uniform JSON body every endpoint returns.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func successResponse(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, err error) {
	c.JSON(httpStatusOf(code), Envelope{
		Code:    code,
		Message: err.Error(),
	})
}

func httpStatusOf(code int) int {
	switch code {
	case CodeParamInvalid, CodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
