package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateDraft, false},
		{StatePending, false},
		{StateApproved, false},
		{StateRejected, false},
		{StatePaid, true},
		{StateCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"draft", StateDraft, true},
		{"paid", StatePaid, true},
		{"completed", StateCompleted, true},
		{"invalid state", State("shipped"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	state := StateDraft
	if got := state.String(); got != "draft" {
		t.Errorf("State.String() = %v, want %v", got, "draft")
	}
}

func TestTrigger_String(t *testing.T) {
	trigger := TriggerMarkPaid
	if got := trigger.String(); got != "MARK_PAID" {
		t.Errorf("Trigger.String() = %v, want %v", got, "MARK_PAID")
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StateDraft)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	// Configure same state again should return same config
	config2 := builder.Configure(StateDraft)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrInvalidState) {
			t.Errorf("Configure() panic = %v, want ErrInvalidState", err)
		}
	}()

	builder.Configure(State("shipped"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrInvalidState) {
			t.Errorf("Build() panic = %v, want ErrInvalidState", err)
		}
	}()

	builder.Build(State("shipped"))
}

// The order and repair builders are package variables, so constructing a
// machine for every lifecycle state proves their initializers ran cleanly.
func TestNewMachines_AllStates(t *testing.T) {
	for _, s := range OrderStates() {
		if got := NewOrderMachine(s).State(); got != s {
			t.Errorf("NewOrderMachine(%s).State() = %s", s, got)
		}
	}
	for _, s := range RepairStates() {
		if got := NewRepairMachine(s).State(); got != s {
			t.Errorf("NewRepairMachine(%s).State() = %s", s, got)
		}
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateDraft).
		PermitIf(TriggerSubmit, StatePending, func(ctx context.Context) bool {
			return false
		})

	machine := builder.Build(StateDraft)

	err := machine.Fire(context.Background(), TriggerSubmit)
	if err == nil {
		t.Fatal("Fire() should fail when guard fails")
	}

	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}

	if machine.State() != StateDraft {
		t.Errorf("State should remain %v after failed Fire(), got %v", StateDraft, machine.State())
	}
}

func TestStateMachine_Immutability(t *testing.T) {
	machine1 := NewOrderMachine(StateDraft)
	machine2 := NewOrderMachine(StateDraft)

	if err := machine1.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	// machine2 should remain in initial state
	if machine2.State() != StateDraft {
		t.Errorf("machine2 state = %v, want %v (machines should be independent)", machine2.State(), StateDraft)
	}

	if machine1.State() != StatePending {
		t.Errorf("machine1 state = %v, want %v", machine1.State(), StatePending)
	}
}

func TestOrderMachine_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		to      State
		wantErr error
	}{
		{"submit draft", StateDraft, TriggerSubmit, StatePending, nil},
		{"approve pending", StatePending, TriggerApprove, StateApproved, nil},
		{"reject pending", StatePending, TriggerReject, StateRejected, nil},
		{"resubmit rejected", StateRejected, TriggerSubmit, StatePending, nil},
		{"pay approved", StateApproved, TriggerMarkPaid, StatePaid, nil},
		{"approve draft", StateDraft, TriggerApprove, StateDraft, ErrInvalidTransition},
		{"reject draft", StateDraft, TriggerReject, StateDraft, ErrInvalidTransition},
		{"pay draft", StateDraft, TriggerMarkPaid, StateDraft, ErrInvalidTransition},
		{"submit pending", StatePending, TriggerSubmit, StatePending, ErrInvalidTransition},
		{"pay pending", StatePending, TriggerMarkPaid, StatePending, ErrInvalidTransition},
		{"reject rejected", StateRejected, TriggerReject, StateRejected, ErrInvalidTransition},
		{"approve rejected", StateRejected, TriggerApprove, StateRejected, ErrInvalidTransition},
		{"approve approved", StateApproved, TriggerApprove, StateApproved, ErrInvalidTransition},
		{"submit approved", StateApproved, TriggerSubmit, StateApproved, ErrInvalidTransition},
		{"complete approved order", StateApproved, TriggerComplete, StateApproved, ErrInvalidTransition},
		{"submit paid", StatePaid, TriggerSubmit, StatePaid, ErrInvalidTransition},
		{"pay paid", StatePaid, TriggerMarkPaid, StatePaid, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewOrderMachine(tt.from)

			err := machine.Fire(context.Background(), tt.trigger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Fire(%v) error = %v, want %v", tt.trigger, err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("Fire(%v) failed: %v", tt.trigger, err)
			}

			if machine.State() != tt.to {
				t.Errorf("State after Fire(%v) = %v, want %v", tt.trigger, machine.State(), tt.to)
			}
		})
	}
}

func TestRepairMachine_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		to      State
		wantErr error
	}{
		{"submit draft", StateDraft, TriggerSubmit, StatePending, nil},
		{"approve pending", StatePending, TriggerApprove, StateApproved, nil},
		{"reject pending", StatePending, TriggerReject, StateRejected, nil},
		{"resubmit rejected", StateRejected, TriggerSubmit, StatePending, nil},
		{"complete approved", StateApproved, TriggerComplete, StateCompleted, nil},
		{"pay approved repair", StateApproved, TriggerMarkPaid, StateApproved, ErrInvalidTransition},
		{"complete draft", StateDraft, TriggerComplete, StateDraft, ErrInvalidTransition},
		{"complete pending", StatePending, TriggerComplete, StatePending, ErrInvalidTransition},
		{"complete completed", StateCompleted, TriggerComplete, StateCompleted, ErrInvalidTransition},
		{"submit completed", StateCompleted, TriggerSubmit, StateCompleted, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewRepairMachine(tt.from)

			err := machine.Fire(context.Background(), tt.trigger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Fire(%v) error = %v, want %v", tt.trigger, err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("Fire(%v) failed: %v", tt.trigger, err)
			}

			if machine.State() != tt.to {
				t.Errorf("State after Fire(%v) = %v, want %v", tt.trigger, machine.State(), tt.to)
			}
		})
	}
}

func TestOrderMachine_FullLifecycle(t *testing.T) {
	machine := NewOrderMachine(StateDraft)

	steps := []struct {
		trigger       Trigger
		expectedState State
	}{
		{TriggerSubmit, StatePending},
		{TriggerReject, StateRejected},
		{TriggerSubmit, StatePending},
		{TriggerApprove, StateApproved},
		{TriggerMarkPaid, StatePaid},
	}

	for i, step := range steps {
		if err := machine.Fire(context.Background(), step.trigger); err != nil {
			t.Errorf("Step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}

		if machine.State() != step.expectedState {
			t.Errorf("Step %d: State after Fire(%v) = %v, want %v", i, step.trigger, machine.State(), step.expectedState)
		}
	}

	if !machine.State().IsTerminal() {
		t.Error("Final state should be terminal")
	}

	triggers := machine.PermittedTriggers()
	if len(triggers) != 0 {
		t.Errorf("Terminal state should have 0 permitted triggers, got %d", len(triggers))
	}
}

func TestRepairMachine_FullLifecycle(t *testing.T) {
	machine := NewRepairMachine(StateDraft)

	steps := []struct {
		trigger       Trigger
		expectedState State
	}{
		{TriggerSubmit, StatePending},
		{TriggerApprove, StateApproved},
		{TriggerComplete, StateCompleted},
	}

	for i, step := range steps {
		if err := machine.Fire(context.Background(), step.trigger); err != nil {
			t.Errorf("Step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}

		if machine.State() != step.expectedState {
			t.Errorf("Step %d: State after Fire(%v) = %v, want %v", i, step.trigger, machine.State(), step.expectedState)
		}
	}

	if !machine.State().IsTerminal() {
		t.Error("Final state should be terminal")
	}
}

func TestOrderMachine_PermittedTriggers(t *testing.T) {
	machine := NewOrderMachine(StatePending)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 {
		t.Errorf("PermittedTriggers() returned %d triggers, want 2", len(triggers))
	}

	hasApprove := false
	hasReject := false
	for _, trigger := range triggers {
		if trigger == TriggerApprove {
			hasApprove = true
		}
		if trigger == TriggerReject {
			hasReject = true
		}
	}

	if !hasApprove || !hasReject {
		t.Errorf("PermittedTriggers() = %v, want both TriggerApprove and TriggerReject", triggers)
	}
}
