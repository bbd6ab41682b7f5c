package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "unmapped categories: standard, balcony",
		NewValidation("unmapped categories", "standard", "balcony").Error())
	assert.Equal(t, "seat already booked: A-2",
		NewConflict(CodeAlreadyBooked, "seat already booked", "A-2").Error())
	assert.Equal(t, "chart not found: abc", NewNotFound("chart", "abc").Error())
	assert.Equal(t, "cannot map categories (current state: select_chart)",
		NewState("cannot map categories", "select_chart").Error())
}

func TestMatchersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("block seats: %w", NewConflict(CodeAlreadyBooked, "seat already booked", "A-2"))

	assert.True(t, IsConflict(wrapped))
	assert.True(t, IsConflict(wrapped, CodeAlreadyBooked))
	assert.False(t, IsConflict(wrapped, CodeUsageExceeded))
	assert.False(t, IsValidation(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidation("bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFound("seat", "A-1")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewConflict(CodeUsageExceeded, "promo exhausted")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(NewState("bad transition", "complete")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}
