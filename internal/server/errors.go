package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps store errors to HTTP status codes
func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, models.ErrTaskNotFound),
		errors.Is(err, models.ErrColumnNotFound),
		errors.Is(err, taskservice.ErrChecklistItemNotFound):
		return http.StatusNotFound
	case taskservice.IsValidationError(err),
		errors.Is(err, blobstore.ErrEmptyCover),
		errors.Is(err, blobstore.ErrMalformedDataURI):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrStorageWrite),
		errors.Is(err, models.ErrStorageRead),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if code >= http.StatusInternalServerError {
		s.metrics.IncErrors()
		s.logger.Error("request error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}
