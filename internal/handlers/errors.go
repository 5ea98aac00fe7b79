package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler renders every handler error as JSON. Unknown errors become
// an opaque 500 and are logged.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", slog.Any("error", err))
		}
	}
}

func errorResponse(err error) (int, interface{}) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, echo.Map{"message": "Internal server error"}
		}
		switch msg := httpErr.Message.(type) {
		case string:
			return httpErr.Code, echo.Map{"message": msg}
		case nil:
			return httpErr.Code, echo.Map{"message": http.StatusText(httpErr.Code)}
		default:
			return httpErr.Code, msg
		}
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case models.CodeNotFound:
			status = http.StatusNotFound
		case models.CodeValidation:
			status = http.StatusBadRequest
		case models.CodeUnauthorized:
			status = http.StatusUnauthorized
		case models.CodeConflict:
			status = http.StatusConflict
		}
		if status == http.StatusInternalServerError {
			return status, echo.Map{"message": "Internal server error"}
		}
		return status, echo.Map{"message": appErr.Message}
	}

	return http.StatusInternalServerError, echo.Map{"message": "Internal server error"}
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, param, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+resource+" ID")
	}
	return uint(id), nil
}
