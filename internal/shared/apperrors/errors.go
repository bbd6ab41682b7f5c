package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Conflict codes surfaced to callers so they can re-query authoritative
// state before letting the user choose again.
const (
	CodeAlreadyBooked         = "ALREADY_BOOKED"
	CodeAlreadySelected       = "ALREADY_SELECTED"
	CodeSeatNoLongerAvailable = "SEAT_NO_LONGER_AVAILABLE"
	CodeUsageExceeded         = "USAGE_EXCEEDED"
	CodeSoldOut               = "SOLD_OUT"
	CodePriceChanged          = "PRICE_CHANGED"
)

// ValidationError marks malformed input. Recoverable locally, never retried.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	return e.Message
}

// NewValidation creates a ValidationError, optionally naming the offending
// fields or keys.
func NewValidation(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// ConflictError marks a race lost against another session (seat already
// taken, promo uses exhausted). Never retried automatically.
type ConflictError struct {
	Code    string
	Message string
	Refs    []string
}

func (e *ConflictError) Error() string {
	if len(e.Refs) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Refs, ", "))
	}
	return e.Message
}

// NewConflict creates a ConflictError with a machine-readable code and the
// entity references that lost the race.
func NewConflict(code, message string, refs ...string) *ConflictError {
	return &ConflictError{Code: code, Message: message, Refs: refs}
}

// NotFoundError marks an unknown entity. Terminal for the operation.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StateError marks a transition attempted from an invalid state. Indicates
// a caller bug or stale UI state; surfaced, not retried.
type StateError struct {
	Message string
	Current string
}

func (e *StateError) Error() string {
	if e.Current == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (current state: %s)", e.Message, e.Current)
}

func NewState(message, current string) *StateError {
	return &StateError{Message: message, Current: current}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError, optionally matching
// a specific code.
func IsConflict(err error, codes ...string) bool {
	var ce *ConflictError
	if !errors.As(err, &ce) {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, code := range codes {
		if ce.Code == code {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsState reports whether err is a StateError.
func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

// HTTPStatus maps a taxonomy error to the status code controllers should
// respond with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsState(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
