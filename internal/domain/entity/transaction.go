package entity

import "time"

// ApprovalTransaction records one step's approval attempt for a document.
// The ledger is append-only: rows are never deleted, only their status
// moves out of PENDING exactly once.
type ApprovalTransaction struct {
	ID         int64 `json:"id"`
	DocumentID int64 `json:"document_id"`
	StepID     int64 `json:"step_id"`

	// StepOrder is copied from the step at creation time so history reads
	// need no join against the definition.
	StepOrder int `json:"step_order"`

	RequesterID int64  `json:"requester_id"`
	AssignedTo  int64  `json:"assigned_to"`
	ReferredTo  *int64 `json:"referred_to,omitempty"`

	Status    string `json:"status"`
	DecidedBy *int64 `json:"decided_by,omitempty"`
	Comment   string `json:"comment,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// IsPending reports whether the transaction still awaits a decision.
func (t *ApprovalTransaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// Actor returns the user currently responsible for the transaction: the
// delegate when one is set, otherwise the assignee.
func (t *ApprovalTransaction) Actor() int64 {
	if t.ReferredTo != nil {
		return *t.ReferredTo
	}
	return t.AssignedTo
}

// CanBeDecidedBy reports whether the given user may resolve the
// transaction.
func (t *ApprovalTransaction) CanBeDecidedBy(userID int64) bool {
	if t.AssignedTo == userID {
		return true
	}
	return t.ReferredTo != nil && *t.ReferredTo == userID
}
