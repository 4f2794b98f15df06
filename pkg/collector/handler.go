package collector

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// handlerFunc is the generic endpoint signature: parsed request in,
// response payload out.
type handlerFunc[T any, R any] func(context.Context, *T) (R, error)

// wrap converts a generic handler to a Gin handler. The request body is
// bound and validated before h runs; successes are wrapped in an
// Envelope with the given HTTP status.
func wrap[T any, R any](status int, h handlerFunc[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := parseRequest[T](c)
		if !ok {
			return
		}

		res, err := h(c.Request.Context(), req)
		if err != nil {
			errorResponse(c, CodeInternalServer, err)
			return
		}

		successResponse(c, status, res)
	}
}

// parseRequest binds the JSON body into T and validates it. On failure
// it writes the error response itself and reports false.
func parseRequest[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, CodeParamInvalid, err)
		return nil, false
	}

	if err := validate.Struct(&req); err != nil {
		errorResponse(c, CodeValidationFailed, err)
		return nil, false
	}

	return &req, true
}
