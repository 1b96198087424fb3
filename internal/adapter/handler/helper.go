package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/avinci-labs/avinci/internal/adapter/dto/common"
	"github.com/avinci-labs/avinci/internal/domain/entities"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// statusFor maps domain and usecase errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case usecaseErrors.IsValidation(err):
		return http.StatusBadRequest
	case stdErrors.Is(err, entities.ErrPersonaNotFound),
		stdErrors.Is(err, entities.ErrCallNotFound):
		return http.StatusNotFound
	case stdErrors.Is(err, entities.ErrCallClosed),
		stdErrors.Is(err, entities.ErrPersonaArchived):
		return http.StatusConflict
	case stdErrors.Is(err, entities.ErrInvalidCallType),
		stdErrors.Is(err, entities.ErrInvalidRosterSize),
		stdErrors.Is(err, entities.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	status := statusFor(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.JSON(status, common.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}
	return c.JSON(status, common.SuccessResponse{Message: "success", Data: data})
}
