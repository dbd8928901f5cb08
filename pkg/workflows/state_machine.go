package workflows

// StateMachine enforces status transitions for a single entity kind.
// S is the entity's status type (a typed string).
type StateMachine[S comparable] struct {
	allowedTransitions map[S][]S
}

// NewStateMachine creates a new state machine with allowed transitions.
// A status that maps to an empty slice is terminal.
func NewStateMachine[S comparable](allowed map[S][]S) *StateMachine[S] {
	return &StateMachine[S]{allowedTransitions: allowed}
}

// CanTransition checks if a status transition is allowed.
func (sm *StateMachine[S]) CanTransition(from, to S) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status.
func (sm *StateMachine[S]) GetAllowedTransitions(from S) []S {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []S{}
	}
	return allowed
}

// IsTerminal reports whether no transition leaves the given status.
func (sm *StateMachine[S]) IsTerminal(from S) bool {
	allowed, exists := sm.allowedTransitions[from]
	return exists && len(allowed) == 0
}

// IsKnown reports whether the status appears in the transition table at all.
func (sm *StateMachine[S]) IsKnown(s S) bool {
	_, exists := sm.allowedTransitions[s]
	return exists
}
