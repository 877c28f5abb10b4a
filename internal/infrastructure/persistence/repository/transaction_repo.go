package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/infrastructure/persistence/sqlite"
)

const transactionColumns = `
	id, document_id, step_id, step_order, requester_id,
	assigned_to, referred_to, status, decided_by, comment,
	created_at, decided_at`

// TransactionRepository implements port.TransactionRepository: the
// append-only approval transaction ledger.
type TransactionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB, logger *zap.Logger) port.TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new ledger row
func (r *TransactionRepository) Create(ctx context.Context, tx *entity.ApprovalTransaction) error {
	query := `
		INSERT INTO approval_transactions (
			document_id, step_id, step_order, requester_id,
			assigned_to, referred_to, status, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var referredTo sql.NullInt64
	if tx.ReferredTo != nil {
		referredTo = sql.NullInt64{Int64: *tx.ReferredTo, Valid: true}
	}
	var comment sql.NullString
	if tx.Comment != "" {
		comment = sql.NullString{String: tx.Comment, Valid: true}
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		tx.DocumentID,
		tx.StepID,
		tx.StepOrder,
		tx.RequesterID,
		tx.AssignedTo,
		referredTo,
		tx.Status,
		comment,
	)
	if err != nil {
		r.logger.Error("Failed to create approval transaction",
			zap.Int64("document_id", tx.DocumentID),
			zap.Int64("step_id", tx.StepID),
			zap.Error(err))
		return fmt.Errorf("failed to create approval transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	tx.ID = id
	return nil
}

// GetByID retrieves a ledger row by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*entity.ApprovalTransaction, error) {
	query := `SELECT` + transactionColumns + ` FROM approval_transactions WHERE id = ?`

	tx, err := r.scanTransaction(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get approval transaction",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get approval transaction: %w", err)
	}

	return tx, nil
}

// GetByDocumentID retrieves a document's history ordered by step order
func (r *TransactionRepository) GetByDocumentID(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM approval_transactions
		WHERE document_id = ?
		ORDER BY step_order, id`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, documentID)
	if err != nil {
		r.logger.Error("Failed to get approval transactions",
			zap.Int64("document_id", documentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get approval transactions: %w", err)
	}
	defer rows.Close()

	return r.scanTransactions(rows)
}

// GetPendingForDocument retrieves the document's single pending row, or nil
func (r *TransactionRepository) GetPendingForDocument(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM approval_transactions
		WHERE document_id = ? AND status = 'PENDING'`

	tx, err := r.scanTransaction(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, documentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get pending transaction",
			zap.Int64("document_id", documentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get pending transaction: %w", err)
	}

	return tx, nil
}

// Resolve moves a row out of PENDING. The status predicate makes the
// operation idempotent under races: only one caller observes a row count
// of one.
func (r *TransactionRepository) Resolve(ctx context.Context, id int64, status string, decidedBy int64, comment string) (bool, error) {
	query := `
		UPDATE approval_transactions
		SET status = ?, decided_by = ?, comment = ?, decided_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'PENDING'
	`

	var commentVal sql.NullString
	if comment != "" {
		commentVal = sql.NullString{String: comment, Valid: true}
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, status, decidedBy, commentVal, id)
	if err != nil {
		r.logger.Error("Failed to resolve approval transaction",
			zap.Int64("id", id),
			zap.String("status", status),
			zap.Error(err))
		return false, fmt.Errorf("failed to resolve approval transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *TransactionRepository) scanTransaction(row rowScanner) (*entity.ApprovalTransaction, error) {
	var tx entity.ApprovalTransaction
	var referredTo, decidedBy sql.NullInt64
	var comment sql.NullString
	var decidedAt sql.NullTime

	err := row.Scan(
		&tx.ID,
		&tx.DocumentID,
		&tx.StepID,
		&tx.StepOrder,
		&tx.RequesterID,
		&tx.AssignedTo,
		&referredTo,
		&tx.Status,
		&decidedBy,
		&comment,
		&tx.CreatedAt,
		&decidedAt,
	)
	if err != nil {
		return nil, err
	}

	if referredTo.Valid {
		tx.ReferredTo = &referredTo.Int64
	}
	if decidedBy.Valid {
		tx.DecidedBy = &decidedBy.Int64
	}
	if comment.Valid {
		tx.Comment = comment.String
	}
	if decidedAt.Valid {
		tx.DecidedAt = &decidedAt.Time
	}

	return &tx, nil
}

func (r *TransactionRepository) scanTransactions(rows *sql.Rows) ([]*entity.ApprovalTransaction, error) {
	var txs []*entity.ApprovalTransaction

	for rows.Next() {
		tx, err := r.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

// Verify interface compliance
var _ port.TransactionRepository = (*TransactionRepository)(nil)
