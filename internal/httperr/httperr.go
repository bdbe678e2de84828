package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeNotFound            = "not_found"
	CodeProviderUnavailable = "provider_unavailable"
	CodeAlreadyBooked       = "already_booked"
	CodeUnauthorized        = "unauthorized"
	CodeAlreadyCancelled    = "already_cancelled"
	CodeAlreadyExists       = "already_exists"
	CodePersistenceFailure  = "persistence_failure"
	CodeInconsistent        = "inconsistent"
	CodeInvalidRequest      = "invalid_request"
	CodeUnauthenticated     = "unauthenticated"
	CodeForbidden           = "forbidden"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor maps a business code to the HTTP status the API answers with.
func StatusFor(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeProviderUnavailable, CodeAlreadyBooked, CodeAlreadyCancelled, CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnauthorized, CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err as a structured failure. Errors without a business
// code are reported as persistence failures without leaking their text.
func FromError(c *gin.Context, err error) {
	code := CodeOf(err)
	if code == "" {
		Internal(c, CodePersistenceFailure, "internal error")
		return
	}
	Write(c, StatusFor(code), code, MessageOf(err))
}
