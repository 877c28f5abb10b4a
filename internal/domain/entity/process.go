package entity

import "time"

// ProcessDefinition is a named, ordered template of approval steps.
// Definitions are reference data: read-only at workflow execution time.
type ProcessDefinition struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Steps     []*ProcessStep `json:"steps"`
	CreatedAt time.Time      `json:"created_at"`
}

// FirstStep returns the entry step (minimum order). Steps are kept sorted
// ascending by the repository, so this is the head of the slice.
func (p *ProcessDefinition) FirstStep() *ProcessStep {
	if len(p.Steps) == 0 {
		return nil
	}
	return p.Steps[0]
}

// NextStep returns the step with the smallest order strictly greater than
// the given order, or nil when the process is exhausted.
func (p *ProcessDefinition) NextStep(order int) *ProcessStep {
	for _, s := range p.Steps {
		if s.StepOrder > order {
			return s
		}
	}
	return nil
}

// StepByID looks up a step within the definition.
func (p *ProcessDefinition) StepByID(id int64) *ProcessStep {
	for _, s := range p.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ProcessStep is one stage within a process definition. StepOrder values
// are unique within a definition and strictly increasing; the sequence may
// be sparse.
type ProcessStep struct {
	ID          int64  `json:"id"`
	ProcessID   int64  `json:"process_id"`
	StepOrder   int    `json:"step_order"`
	Description string `json:"description"`
}

// StepApprover maps (step, requester) to the user responsible for acting
// on that step. This is externally maintained reference data.
type StepApprover struct {
	ID          int64 `json:"id"`
	StepID      int64 `json:"step_id"`
	RequesterID int64 `json:"requester_id"`
	ApproverID  int64 `json:"approver_id"`
}
