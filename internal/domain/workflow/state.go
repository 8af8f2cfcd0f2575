package workflow

// State represents a workflow state in the order/repair lifecycle
type State string

const (
	StateDraft     State = "draft"
	StatePending   State = "pending"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
	StatePaid      State = "paid"
	StateCompleted State = "completed"
)

// OrderStates lists every state an order can be in.
func OrderStates() []State {
	return []State{StateDraft, StatePending, StateApproved, StateRejected, StatePaid}
}

// RepairStates lists every state a repair can be in.
func RepairStates() []State {
	return []State{StateDraft, StatePending, StateApproved, StateRejected, StateCompleted}
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return s == StatePaid || s == StateCompleted
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state. This must not
// depend on package-level variables: the order and repair builders call it
// from their own initializers, before variable initialization is complete.
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StatePending, StateApproved, StateRejected, StatePaid, StateCompleted:
		return true
	}
	return false
}
