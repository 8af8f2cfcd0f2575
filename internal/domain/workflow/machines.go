package workflow

// orderBuilder holds the order transition table. Draft and the terminal
// paid state permit no actor-initiated transitions; draft deletion is not a
// state transition.
var orderBuilder = func() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StateDraft).
		Permit(TriggerSubmit, StatePending)

	b.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateRejected).
		Permit(TriggerSubmit, StatePending)

	b.Configure(StateApproved).
		Permit(TriggerMarkPaid, StatePaid)

	return b
}()

var repairBuilder = func() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StateDraft).
		Permit(TriggerSubmit, StatePending)

	b.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateRejected).
		Permit(TriggerSubmit, StatePending)

	b.Configure(StateApproved).
		Permit(TriggerComplete, StateCompleted)

	return b
}()

// NewOrderMachine returns an order state machine positioned at the given state.
func NewOrderMachine(current State) StateMachine {
	return orderBuilder.Build(current)
}

// NewRepairMachine returns a repair state machine positioned at the given state.
func NewRepairMachine(current State) StateMachine {
	return repairBuilder.Build(current)
}
