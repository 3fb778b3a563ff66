package response

import (
	"net/http"

	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/result"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Total int `json:"total"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError map error sang HTTP response
// *apperror.Error -> status theo Kind, còn lại -> 500 (và log)
func FromError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		var details interface{}
		if len(appErr.Details) > 0 {
			details = appErr.Details
		}
		ErrorWithDetails(c, apperror.HTTPStatus(appErr.Kind), apperror.Code(appErr.Kind), appErr.Message, details)
		return
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	InternalServerError(c, "Internal server error")
}

// FromResult ghi workflow result: success -> statusCode, rejection -> theo Kind
func FromResult[T any](c *gin.Context, statusCode int, r result.Result[T]) {
	if r.Success {
		Success(c, statusCode, r.Data)
		return
	}
	FromError(c, r.Err())
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
