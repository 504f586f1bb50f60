package util

import (
	"errors"
	"net/http"

	"edutech_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the unified envelope for every API reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// FailFromError maps the error taxonomy onto HTTP statuses: NotFound
// errors become 404, InvalidState errors 409, persistence failures 503,
// anything else a logged 500.
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrModuleNotFound),
		errors.Is(err, ErrCertificateNotFound),
		errors.Is(err, ErrAttemptNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoActiveProfile):
		Unauthorized(c)
	case errors.Is(err, ErrInvalidLevel),
		errors.Is(err, ErrQuestionOutOfRange),
		errors.Is(err, ErrOptionOutOfRange):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrModuleLocked),
		errors.Is(err, ErrAttemptIncomplete),
		errors.Is(err, ErrAttemptFinalized),
		errors.Is(err, ErrCourseNotCompleted),
		errors.Is(err, ErrCertificateExists):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSnapshotWrite), errors.Is(err, ErrSnapshotCorrupt):
		Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		LogInternalError(c, err)
	}
}
