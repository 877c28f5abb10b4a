package port

import (
	"context"

	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// DocumentFilter narrows document listings. Zero values mean "any".
type DocumentFilter struct {
	Type        string
	Status      string
	RequesterID int64
	Limit       int
	Offset      int
}

// DuplicateKey is the hierarchical-uniqueness composite key checked on
// submit.
type DuplicateKey struct {
	Type           string
	FiscalPeriodID int64
	DepartmentID   int64
	CostCenterID   int64
	SubCostCenter  string
	ExcludeID      int64
}

// DocumentRepository defines persistence operations for Document
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)

	// FindOpenDuplicate returns a non-terminal document matching the
	// composite key, or nil when none exists.
	FindOpenDuplicate(ctx context.Context, key DuplicateKey) (*entity.Document, error)

	IncrementAttachmentCount(ctx context.Context, id int64) error
}

// ProcessRepository defines read operations over process reference data
type ProcessRepository interface {
	// GetByTitle returns the definition with steps ordered ascending by
	// step_order, or nil when no process carries the title.
	GetByTitle(ctx context.Context, title string) (*entity.ProcessDefinition, error)

	// GetApprover returns the configured approver for a (step, requester)
	// pair, or nil when no mapping exists.
	GetApprover(ctx context.Context, stepID, requesterID int64) (*entity.StepApprover, error)
}

// TransactionRepository defines persistence operations for the approval
// transaction ledger
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.ApprovalTransaction) error
	GetByID(ctx context.Context, id int64) (*entity.ApprovalTransaction, error)

	// GetByDocumentID returns the document's full history ordered by
	// step_order then id. Each call is a fresh read.
	GetByDocumentID(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error)

	// GetPendingForDocument returns the single pending transaction for a
	// document, or nil.
	GetPendingForDocument(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error)

	// Resolve sets status, decided_by, comment and decided_at on a row
	// that is still PENDING. Returns false when the row was already
	// resolved, which is the storage-level idempotency guard.
	Resolve(ctx context.Context, id int64, status string, decidedBy int64, comment string) (bool, error)
}

// TaskRepository defines persistence operations for Task
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	GetByTransactionID(ctx context.Context, transactionID int64) (*entity.Task, error)
	ListByAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error)
	MarkRead(ctx context.Context, id int64) error
}

// AttachmentRepository defines persistence operations for Attachment
type AttachmentRepository interface {
	Create(ctx context.Context, att *entity.Attachment) error
	GetByID(ctx context.Context, id int64) (*entity.Attachment, error)
	GetByDocumentID(ctx context.Context, documentID int64) ([]*entity.Attachment, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
