package handler

import (
	"errors"
	"net/http"

	"github.com/ahmetclq/web-final-projesi/internal/service"
	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondServiceError maps the service failure taxonomy onto HTTP statuses.
// Every lifecycle operation reports through here so no storage error leaks
// raw to the client.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_failed", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, NewErrorResponse("invalid_state", err.Error()))
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, NewErrorResponse("conflict", err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "unexpected error"))
	}
}
