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

const documentColumns = `
	id, type, reference, status, requester_id,
	department_id, cost_center_id, sub_cost_center, fiscal_period_id, supplier_id,
	amount, justification, attachment_count, created_at, updated_at`

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (
			type, reference, status, requester_id,
			department_id, cost_center_id, sub_cost_center, fiscal_period_id, supplier_id,
			amount, justification, attachment_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var supplierID sql.NullInt64
	if doc.SupplierID != nil {
		supplierID = sql.NullInt64{Int64: *doc.SupplierID, Valid: true}
	}
	var subCostCenter, justification sql.NullString
	if doc.SubCostCenter != "" {
		subCostCenter = sql.NullString{String: doc.SubCostCenter, Valid: true}
	}
	if doc.Justification != "" {
		justification = sql.NullString{String: doc.Justification, Valid: true}
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		doc.Type,
		doc.Reference,
		doc.Status,
		doc.RequesterID,
		doc.DepartmentID,
		doc.CostCenterID,
		subCostCenter,
		doc.FiscalPeriodID,
		supplierID,
		doc.Amount,
		justification,
		doc.AttachmentCount,
	)
	if err != nil {
		r.logger.Error("Failed to create document",
			zap.String("type", doc.Type),
			zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves a document by its ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	query := `SELECT` + documentColumns + ` FROM documents WHERE id = ?`

	doc, err := r.scanDocument(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document by ID",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// Update rewrites a document's writable fields
func (r *DocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents
		SET department_id = ?, cost_center_id = ?, sub_cost_center = ?,
			fiscal_period_id = ?, supplier_id = ?,
			amount = ?, justification = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	var supplierID sql.NullInt64
	if doc.SupplierID != nil {
		supplierID = sql.NullInt64{Int64: *doc.SupplierID, Valid: true}
	}
	var subCostCenter, justification sql.NullString
	if doc.SubCostCenter != "" {
		subCostCenter = sql.NullString{String: doc.SubCostCenter, Valid: true}
	}
	if doc.Justification != "" {
		justification = sql.NullString{String: doc.Justification, Valid: true}
	}

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		doc.DepartmentID,
		doc.CostCenterID,
		subCostCenter,
		doc.FiscalPeriodID,
		supplierID,
		doc.Amount,
		justification,
		doc.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update document",
			zap.Int64("id", doc.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update document: %w", err)
	}

	return nil
}

// UpdateStatus updates a document's status
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update document status",
			zap.Int64("id", id),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update document status: %w", err)
	}

	return nil
}

// List retrieves documents matching the filter, newest first
func (r *DocumentRepository) List(ctx context.Context, filter port.DocumentFilter) ([]*entity.Document, error) {
	query := `SELECT` + documentColumns + ` FROM documents WHERE 1=1`
	var args []interface{}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.RequesterID > 0 {
		query += ` AND requester_id = ?`
		args = append(args, filter.RequesterID)
	}

	query += ` ORDER BY id DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list documents", zap.Error(err))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	return r.scanDocuments(rows)
}

// FindOpenDuplicate returns a non-terminal document occupying the same
// composite key, or nil
func (r *DocumentRepository) FindOpenDuplicate(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
	query := `SELECT` + documentColumns + `
		FROM documents
		WHERE type = ?
		  AND fiscal_period_id = ?
		  AND department_id = ?
		  AND cost_center_id = ?
		  AND COALESCE(sub_cost_center, '') = ?
		  AND status NOT IN ('APPROVED', 'REJECTED', 'APPROVED_FOR_PAYMENT')
		  AND id != ?
		LIMIT 1`

	doc, err := r.scanDocument(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query,
		key.Type,
		key.FiscalPeriodID,
		key.DepartmentID,
		key.CostCenterID,
		key.SubCostCenter,
		key.ExcludeID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to check for duplicate document",
			zap.String("type", key.Type),
			zap.Error(err))
		return nil, fmt.Errorf("failed to check for duplicate document: %w", err)
	}

	return doc, nil
}

// IncrementAttachmentCount bumps the document's attachment counter
func (r *DocumentRepository) IncrementAttachmentCount(ctx context.Context, id int64) error {
	query := `UPDATE documents SET attachment_count = attachment_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to increment attachment count",
			zap.Int64("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to increment attachment count: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *DocumentRepository) scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var subCostCenter, justification sql.NullString
	var supplierID sql.NullInt64

	err := row.Scan(
		&doc.ID,
		&doc.Type,
		&doc.Reference,
		&doc.Status,
		&doc.RequesterID,
		&doc.DepartmentID,
		&doc.CostCenterID,
		&subCostCenter,
		&doc.FiscalPeriodID,
		&supplierID,
		&doc.Amount,
		&justification,
		&doc.AttachmentCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if subCostCenter.Valid {
		doc.SubCostCenter = subCostCenter.String
	}
	if justification.Valid {
		doc.Justification = justification.String
	}
	if supplierID.Valid {
		doc.SupplierID = &supplierID.Int64
	}

	return &doc, nil
}

func (r *DocumentRepository) scanDocuments(rows *sql.Rows) ([]*entity.Document, error) {
	var docs []*entity.Document

	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
