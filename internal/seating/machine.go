package seating

import (
	"boxoffice/internal/shared/apperrors"
)

// transitions is the allowed edge set of the configuration lifecycle.
var transitions = map[State][]State{
	StateSelectChart:   {StateCreateChart, StateMapCategories, StateComplete},
	StateCreateChart:   {StateDesignChart, StateSelectChart},
	StateDesignChart:   {StateMapCategories, StateSelectChart},
	StateMapCategories: {StateComplete, StateSelectChart},
	StateComplete:      {StateSelectChart},
}

// canTransition reports whether from -> to is a legal edge.
func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// guardTransition returns a StateError for an illegal edge.
func guardTransition(from, to State) error {
	if !canTransition(from, to) {
		return apperrors.NewState("invalid seating configuration transition to "+string(to), string(from))
	}
	return nil
}
