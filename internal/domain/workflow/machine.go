package workflow

import "fmt"

// transitionKey identifies one edge of the lifecycle graph.
type transitionKey struct {
	from    State
	trigger Trigger
}

// transitions is the fixed lifecycle of an approval document. Referring
// and advancing both land back on PENDING: the step changes, the
// lifecycle state does not.
var transitions = map[transitionKey]State{
	{StateDraft, TriggerSubmit}:    StatePending,
	{StatePending, TriggerAdvance}: StatePending,
	{StatePending, TriggerRefer}:   StatePending,
	{StatePending, TriggerApprove}: StateApproved,
	{StatePending, TriggerReject}:  StateRejected,
}

// Machine tracks a single document's lifecycle state and validates
// transitions against the fixed graph above.
type Machine struct {
	current State
}

// NewMachine creates a machine positioned at the given state.
func NewMachine(initial State) (*Machine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initial)
	}
	return &Machine{current: initial}, nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current state.
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := transitions[transitionKey{m.current, trigger}]
	return ok
}

// Fire executes the trigger, moving to the target state if the edge exists.
func (m *Machine) Fire(trigger Trigger) error {
	next, ok := transitions[transitionKey{m.current, trigger}]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = next
	return nil
}

// PermittedTriggers returns all triggers that can fire in the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	var out []Trigger
	for key := range transitions {
		if key.from == m.current {
			out = append(out, key.trigger)
		}
	}
	return out
}
