package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"partybus/internal/repository"
	"partybus/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidStopID),
		errors.Is(err, service.ErrInvalidOperatorID),
		errors.Is(err, service.ErrInvalidBusID),
		errors.Is(err, service.ErrEmptyStopAddress),
		errors.Is(err, service.ErrInvalidStopDuration),
		errors.Is(err, service.ErrInvalidDecisionAction),
		errors.Is(err, service.ErrMissingCustomerInfo),
		errors.Is(err, service.ErrMissingOperatorInfo),
		errors.Is(err, service.ErrInvalidBookingHours),
		errors.Is(err, service.ErrBelowMinimumHours),
		errors.Is(err, service.ErrInvalidBookingStart):
		return http.StatusBadRequest

	// Conflict errors - caller should re-fetch state, not retry blindly
	case errors.Is(err, service.ErrPendingStopExists),
		errors.Is(err, service.ErrStopAlreadyDecided),
		errors.Is(err, service.ErrLateForNextBooking),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Business rule errors
	case errors.Is(err, service.ErrBusNotBookable):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
