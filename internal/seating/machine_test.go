package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"boxoffice/internal/shared/apperrors"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateSelectChart, StateCreateChart, true},
		{StateSelectChart, StateMapCategories, true},
		{StateSelectChart, StateComplete, true},
		{StateSelectChart, StateDesignChart, false},
		{StateCreateChart, StateDesignChart, true},
		{StateCreateChart, StateSelectChart, true},
		{StateCreateChart, StateComplete, false},
		{StateDesignChart, StateMapCategories, true},
		{StateDesignChart, StateComplete, false},
		{StateMapCategories, StateComplete, true},
		{StateMapCategories, StateSelectChart, true},
		{StateMapCategories, StateCreateChart, false},
		{StateComplete, StateSelectChart, true},
		{StateComplete, StateMapCategories, false},
		{StateComplete, StateComplete, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, canTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestGuardTransitionReturnsStateError(t *testing.T) {
	err := guardTransition(StateComplete, StateMapCategories)
	assert.Error(t, err)
	assert.True(t, apperrors.IsState(err))

	assert.NoError(t, guardTransition(StateMapCategories, StateComplete))
}
