package workflow

// Trigger is an event that can move a document between lifecycle states.
type Trigger string

const (
	// TriggerSubmit moves a draft into the approval pipeline.
	TriggerSubmit Trigger = "SUBMIT"

	// TriggerAdvance records an approval with a later step remaining;
	// the document stays pending on the next step.
	TriggerAdvance Trigger = "ADVANCE"

	// TriggerApprove records the final step's approval.
	TriggerApprove Trigger = "APPROVE"

	// TriggerReject ends the workflow at the current step.
	TriggerReject Trigger = "REJECT"

	// TriggerRefer re-delegates the current step without advancing order.
	TriggerRefer Trigger = "REFER"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
