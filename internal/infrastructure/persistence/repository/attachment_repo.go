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

// AttachmentRepository implements port.AttachmentRepository
type AttachmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *sql.DB, logger *zap.Logger) port.AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new attachment record
func (r *AttachmentRepository) Create(ctx context.Context, att *entity.Attachment) error {
	query := `
		INSERT INTO attachments (
			document_id, file_name, stored_path, size, content_type, uploaded_by
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var contentType sql.NullString
	if att.ContentType != "" {
		contentType = sql.NullString{String: att.ContentType, Valid: true}
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		att.DocumentID,
		att.FileName,
		att.StoredPath,
		att.Size,
		contentType,
		att.UploadedBy,
	)
	if err != nil {
		r.logger.Error("Failed to create attachment",
			zap.Int64("document_id", att.DocumentID),
			zap.String("file_name", att.FileName),
			zap.Error(err))
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	att.ID = id
	return nil
}

// GetByID retrieves an attachment by its ID
func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*entity.Attachment, error) {
	query := `
		SELECT id, document_id, file_name, stored_path, size, content_type, uploaded_by, created_at
		FROM attachments
		WHERE id = ?
	`

	att, err := r.scanAttachment(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get attachment",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return att, nil
}

// GetByDocumentID retrieves a document's attachments
func (r *AttachmentRepository) GetByDocumentID(ctx context.Context, documentID int64) ([]*entity.Attachment, error) {
	query := `
		SELECT id, document_id, file_name, stored_path, size, content_type, uploaded_by, created_at
		FROM attachments
		WHERE document_id = ?
		ORDER BY id
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, documentID)
	if err != nil {
		r.logger.Error("Failed to get attachments",
			zap.Int64("document_id", documentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	var atts []*entity.Attachment
	for rows.Next() {
		att, err := r.scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		atts = append(atts, att)
	}

	return atts, rows.Err()
}

func (r *AttachmentRepository) scanAttachment(row rowScanner) (*entity.Attachment, error) {
	var att entity.Attachment
	var contentType sql.NullString

	err := row.Scan(
		&att.ID,
		&att.DocumentID,
		&att.FileName,
		&att.StoredPath,
		&att.Size,
		&contentType,
		&att.UploadedBy,
		&att.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contentType.Valid {
		att.ContentType = contentType.String
	}

	return &att, nil
}

// Verify interface compliance
var _ port.AttachmentRepository = (*AttachmentRepository)(nil)
