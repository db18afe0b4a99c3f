package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrorResponse is the body of every non-validation error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, errorCode, message string) {
	if errorCode == "" {
		errorCode = AuthUnauthorized
	}
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	RespondWithError(c, http.StatusUnauthorized, errorCode, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "A server error occurred. Please try again later."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError writes the field -> messages map as the whole body
func RespondWithValidationError(c *gin.Context, errs *validation.Errors) {
	c.JSON(http.StatusBadRequest, errs.Messages())
}

// Respond renders err with the status its class calls for. Unclassified
// errors become a generic 500; their cause is logged, never returned.
func Respond(c *gin.Context, err error, context string) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		RespondWithValidationError(c, verrs)
		return
	}

	info := ParseError(err, context)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, info.Code, info.Message)
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(c, info.Code, info.Message)
	case errors.Is(err, ErrForbidden):
		Forbidden(c, info.Message)
	default:
		requestLogger(c).Error("Request failed", err, logger.Fields{"context": context})
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: info.Code, Message: info.Message})
	}
}

func requestLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
