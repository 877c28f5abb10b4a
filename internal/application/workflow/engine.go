package workflow

import (
	"context"

	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// Engine orchestrates a document's approval lifecycle: submission into the
// first step, sequential advancement on approval, rejection, and
// re-delegation. All status changes on documents flow through here.
type Engine interface {
	// Submit routes a draft into its type's approval process: duplicate
	// check, process lookup, assignee resolution, then first transaction +
	// task + PENDING status in one database transaction. Lookups happen
	// before any write, so a configuration failure leaves the draft
	// untouched.
	Submit(ctx context.Context, documentID, requesterID int64) (*entity.ApprovalTransaction, error)

	// Decide applies an assignee's decision to a pending transaction and
	// advances, terminates, or re-delegates the workflow accordingly.
	// referredTo is required for DecisionRefer and ignored otherwise.
	Decide(ctx context.Context, transactionID int64, decision string, actorID int64, comment string, referredTo int64) (*DecisionResult, error)

	// History returns the document's ordered approval transactions.
	History(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error)
}

// DecisionResult describes the workflow's position after a decision.
type DecisionResult struct {
	// Resolved is the transaction the decision was applied to.
	Resolved *entity.ApprovalTransaction `json:"resolved"`

	// Next is the newly created pending transaction: the following step
	// after an approval that did not finish the process, or the delegate's
	// transaction after a referral. Nil on terminal decisions.
	Next *entity.ApprovalTransaction `json:"next,omitempty"`

	// DocumentStatus is the document's status after the decision.
	DocumentStatus string `json:"document_status"`
}
