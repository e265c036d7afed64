package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
)

// ErrorHandler renders every error as {"message","status","errors"}.
// Errors without a known type become 500 and are logged, not echoed.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := dto.ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
		Errors:  []string{},
	}

	var he *echo.HTTPError
	if appErr, ok := apperror.As(err); ok {
		resp.Status = appErr.Status
		resp.Message = appErr.Message
		if len(appErr.Errors) > 0 {
			resp.Errors = appErr.Errors
		}
	} else if errors.As(err, &he) {
		resp.Status = he.Code
		if m, ok := he.Message.(string); ok {
			resp.Message = m
		} else {
			resp.Message = fmt.Sprint(he.Message)
		}
	}

	if resp.Status >= http.StatusInternalServerError {
		logger.Error("request error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", resp.Status),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(resp.Status)
		return
	}
	_ = c.JSON(resp.Status, resp)
}
