package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a lifecycle transition is not allowed
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not part of the lifecycle
	ErrInvalidState = errors.New("invalid state")

	// ErrProcessNotFound is returned when no process definition matches the
	// requested title, or the definition has no steps. Submission is a hard
	// stop until the definition is configured.
	ErrProcessNotFound = errors.New("process definition not found")

	// ErrProcessMisconfigured is returned when a definition's steps repeat
	// an order value. Duplicate order has no defined behavior, so it is
	// rejected at lookup time.
	ErrProcessMisconfigured = errors.New("process definition misconfigured")

	// ErrAssigneeNotFound is returned when the step-approver table has no
	// mapping for a (step, requester) pair. Same severity as a missing
	// process: a blocking configuration error, not retryable.
	ErrAssigneeNotFound = errors.New("no approver configured for step")

	// ErrUnauthorizedActor is returned when a decision comes from a user
	// other than the transaction's assignee or delegate.
	ErrUnauthorizedActor = errors.New("user is not authorized to act on this transaction")

	// ErrAlreadyResolved is returned when a decision targets a transaction
	// that is no longer pending. The document already progressed; callers
	// surface this as informational, not fatal.
	ErrAlreadyResolved = errors.New("transaction already resolved")

	// ErrDuplicateRequest is returned when an open document with the same
	// composite key (fiscal period, department, cost center, sub cost
	// center) already exists for the type.
	ErrDuplicateRequest = errors.New("duplicate request for fiscal period")

	// ErrDocumentNotFound is returned when the referenced document does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrTransactionNotFound is returned when the referenced transaction does not exist
	ErrTransactionNotFound = errors.New("approval transaction not found")
)
