package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the payload of every failed request, sent as {"error": {...}}.
// Code is stable across releases; Message and Details are for humans.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

func NewAPIError(statusCode int, code, message, details string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message, Details: details}
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return e.Code + ": " + e.Message
	}
	return e.Code + ": " + e.Message + " (" + e.Details + ")"
}

// RespondWithError writes err and stops the handler chain.
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{"error": err})
}

// RespondValidationFailed answers 400 VALIDATION_FAILED with details.
func RespondValidationFailed(c *gin.Context, details string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, "Input validation failed", details))
}

// Generic codes, shared by middleware and handlers.
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
)

// Reservation and catalog codes, one per failure kind so clients can switch on them.
const (
	ErrCodeInvalidTimeFormat         = "INVALID_TIME_FORMAT"
	ErrCodePastDate                  = "PAST_DATE"
	ErrCodePastTime                  = "PAST_TIME"
	ErrCodeSlotAlreadyBooked         = "SLOT_ALREADY_BOOKED"
	ErrCodeClientDoubleBooked        = "CLIENT_DOUBLE_BOOKED"
	ErrCodeCourtDoubleBooked         = "COURT_DOUBLE_BOOKED"
	ErrCodeFutureYear                = "FUTURE_YEAR"
	ErrCodeInvalidSportConfiguration = "INVALID_SPORT_CONFIGURATION"
	ErrCodeInsufficientStock         = "INSUFFICIENT_STOCK"
)
