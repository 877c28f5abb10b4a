package service

import (
	"context"
	"fmt"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/domain/workflow"
)

// LedgerService manages the approval transaction ledger: one row per
// (document, step) attempt, append-only with a single status move.
type LedgerService interface {
	// CreateTransaction inserts a PENDING transaction for the step. The
	// caller (the orchestrator) guarantees no other transaction is pending
	// for the document.
	CreateTransaction(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error)

	// ResolveTransaction applies a decision. Fails with
	// workflow.ErrUnauthorizedActor when the actor is neither assignee nor
	// delegate, and workflow.ErrAlreadyResolved when the row is no longer
	// pending.
	ResolveTransaction(ctx context.Context, transactionID int64, decision string, actorID int64, comment string) (*entity.ApprovalTransaction, error)

	// GetTransaction retrieves a single ledger row.
	GetTransaction(ctx context.Context, transactionID int64) (*entity.ApprovalTransaction, error)

	// ListForDocument returns the document's history ordered by step order.
	ListForDocument(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error)

	// GetPendingForDocument returns the active transaction, or nil.
	GetPendingForDocument(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error)
}

type ledgerServiceImpl struct {
	txRepo port.TransactionRepository
	logger Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(txRepo port.TransactionRepository, logger Logger) LedgerService {
	return &ledgerServiceImpl{
		txRepo: txRepo,
		logger: logger,
	}
}

// CreateTransaction inserts a PENDING transaction with order copied from the step.
func (s *ledgerServiceImpl) CreateTransaction(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error) {
	tx := &entity.ApprovalTransaction{
		DocumentID:  documentID,
		StepID:      step.ID,
		StepOrder:   step.StepOrder,
		RequesterID: requesterID,
		AssignedTo:  assigneeID,
		Status:      entity.TransactionStatusPending,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to create approval transaction",
			"error", err, "document_id", documentID, "step_id", step.ID)
		return nil, fmt.Errorf("create approval transaction: %w", err)
	}

	s.logger.Info("Approval transaction created",
		"transaction_id", tx.ID,
		"document_id", documentID,
		"step_order", step.StepOrder,
		"assigned_to", assigneeID)

	return tx, nil
}

// ResolveTransaction applies a decision to a pending transaction.
func (s *ledgerServiceImpl) ResolveTransaction(ctx context.Context, transactionID int64, decision string, actorID int64, comment string) (*entity.ApprovalTransaction, error) {
	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		s.logger.Error("Failed to get approval transaction", "error", err, "transaction_id", transactionID)
		return nil, fmt.Errorf("get approval transaction: %w", err)
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: id %d", workflow.ErrTransactionNotFound, transactionID)
	}

	if !tx.CanBeDecidedBy(actorID) {
		s.logger.Error("Unauthorized decision attempt",
			"transaction_id", transactionID,
			"actor_id", actorID,
			"assigned_to", tx.AssignedTo)
		return nil, fmt.Errorf("%w: user %d on transaction %d",
			workflow.ErrUnauthorizedActor, actorID, transactionID)
	}

	if !tx.IsPending() {
		return nil, fmt.Errorf("%w: transaction %d is %s",
			workflow.ErrAlreadyResolved, transactionID, tx.Status)
	}

	// The conditional update is the real idempotency guard: a race between
	// two decisions leaves exactly one winner.
	applied, err := s.txRepo.Resolve(ctx, transactionID, decision, actorID, comment)
	if err != nil {
		s.logger.Error("Failed to resolve approval transaction",
			"error", err, "transaction_id", transactionID, "decision", decision)
		return nil, fmt.Errorf("resolve approval transaction: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: transaction %d", workflow.ErrAlreadyResolved, transactionID)
	}

	s.logger.Info("Approval transaction resolved",
		"transaction_id", transactionID,
		"decision", decision,
		"decided_by", actorID)

	return s.txRepo.GetByID(ctx, transactionID)
}

// GetTransaction retrieves a ledger row by ID.
func (s *ledgerServiceImpl) GetTransaction(ctx context.Context, transactionID int64) (*entity.ApprovalTransaction, error) {
	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		s.logger.Error("Failed to get approval transaction", "error", err, "transaction_id", transactionID)
		return nil, fmt.Errorf("get approval transaction: %w", err)
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: id %d", workflow.ErrTransactionNotFound, transactionID)
	}
	return tx, nil
}

// ListForDocument returns the document's approval history.
func (s *ledgerServiceImpl) ListForDocument(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error) {
	txs, err := s.txRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		s.logger.Error("Failed to list approval transactions", "error", err, "document_id", documentID)
		return nil, fmt.Errorf("list approval transactions: %w", err)
	}
	return txs, nil
}

// GetPendingForDocument returns the document's active transaction, or nil.
func (s *ledgerServiceImpl) GetPendingForDocument(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error) {
	tx, err := s.txRepo.GetPendingForDocument(ctx, documentID)
	if err != nil {
		s.logger.Error("Failed to get pending transaction", "error", err, "document_id", documentID)
		return nil, fmt.Errorf("get pending transaction: %w", err)
	}
	return tx, nil
}
