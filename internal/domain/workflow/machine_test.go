package workflow

import (
	"errors"
	"testing"
)

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name      string
		from      State
		trigger   Trigger
		want      State
		wantError bool
	}{
		{
			name:    "submit from draft",
			from:    StateDraft,
			trigger: TriggerSubmit,
			want:    StatePending,
		},
		{
			name:    "advance stays pending",
			from:    StatePending,
			trigger: TriggerAdvance,
			want:    StatePending,
		},
		{
			name:    "refer stays pending",
			from:    StatePending,
			trigger: TriggerRefer,
			want:    StatePending,
		},
		{
			name:    "approve terminates",
			from:    StatePending,
			trigger: TriggerApprove,
			want:    StateApproved,
		},
		{
			name:    "reject terminates",
			from:    StatePending,
			trigger: TriggerReject,
			want:    StateRejected,
		},
		{
			name:      "cannot approve a draft",
			from:      StateDraft,
			trigger:   TriggerApprove,
			wantError: true,
		},
		{
			name:      "cannot submit twice",
			from:      StatePending,
			trigger:   TriggerSubmit,
			wantError: true,
		},
		{
			name:      "approved is terminal",
			from:      StateApproved,
			trigger:   TriggerReject,
			wantError: true,
		},
		{
			name:      "rejected is terminal",
			from:      StateRejected,
			trigger:   TriggerSubmit,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMachine(tt.from)
			if err != nil {
				t.Fatalf("NewMachine(%s) error: %v", tt.from, err)
			}

			if got := m.CanFire(tt.trigger); got == tt.wantError {
				t.Errorf("CanFire(%s) = %v, want %v", tt.trigger, got, !tt.wantError)
			}

			err = m.Fire(tt.trigger)
			if tt.wantError {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire(%s) error = %v, want ErrInvalidTransition", tt.trigger, err)
				}
				if m.State() != tt.from {
					t.Errorf("state moved to %s on failed transition", m.State())
				}
				return
			}
			if err != nil {
				t.Fatalf("Fire(%s) error: %v", tt.trigger, err)
			}
			if m.State() != tt.want {
				t.Errorf("state = %s, want %s", m.State(), tt.want)
			}
		})
	}
}

func TestNewMachineRejectsUnknownState(t *testing.T) {
	_, err := NewMachine(State("LIMBO"))
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("NewMachine error = %v, want ErrInvalidState", err)
	}
}

func TestTerminalStates(t *testing.T) {
	tests := []struct {
		state    State
		terminal bool
	}{
		{StateDraft, false},
		{StatePending, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.state, got, tt.terminal)
		}
	}
}

func TestPermittedTriggers(t *testing.T) {
	m, err := NewMachine(StateApproved)
	if err != nil {
		t.Fatalf("NewMachine error: %v", err)
	}
	if got := m.PermittedTriggers(); len(got) != 0 {
		t.Errorf("PermittedTriggers() from terminal state = %v, want none", got)
	}

	m, _ = NewMachine(StatePending)
	if got := m.PermittedTriggers(); len(got) != 3 {
		t.Errorf("PermittedTriggers() from pending = %v, want 3 triggers", got)
	}
}
