package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/domain/workflow"
)

// AttachmentService stores uploaded files and records their references
// against documents.
type AttachmentService interface {
	// Upload stores the content and records the attachment. The stored
	// path is uuid-prefixed under a per-document folder so original names
	// cannot collide or escape the base directory.
	Upload(ctx context.Context, documentID, uploadedBy int64, fileName, contentType string, content []byte) (*entity.Attachment, error)

	// Download returns the attachment record and its bytes.
	Download(ctx context.Context, attachmentID int64) (*entity.Attachment, []byte, error)

	// ListForDocument returns a document's attachment references.
	ListForDocument(ctx context.Context, documentID int64) ([]*entity.Attachment, error)
}

type attachmentServiceImpl struct {
	attRepo   port.AttachmentRepository
	docRepo   port.DocumentRepository
	storage   port.FileStorage
	txManager port.TransactionManager
	logger    Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attRepo port.AttachmentRepository,
	docRepo port.DocumentRepository,
	storage port.FileStorage,
	txManager port.TransactionManager,
	logger Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attRepo:   attRepo,
		docRepo:   docRepo,
		storage:   storage,
		txManager: txManager,
		logger:    logger,
	}
}

// Upload stores the file and records the reference.
func (s *attachmentServiceImpl) Upload(ctx context.Context, documentID, uploadedBy int64, fileName, contentType string, content []byte) (*entity.Attachment, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: id %d", workflow.ErrDocumentNotFound, documentID)
	}

	storedPath := filepath.Join(
		fmt.Sprintf("documents/%d", documentID),
		uuid.New().String()+"_"+filepath.Base(fileName),
	)

	if err := s.storage.Save(ctx, storedPath, content); err != nil {
		s.logger.Error("Failed to store attachment",
			"error", err, "document_id", documentID, "file_name", fileName)
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	att := &entity.Attachment{
		DocumentID:  documentID,
		FileName:    filepath.Base(fileName),
		StoredPath:  storedPath,
		Size:        int64(len(content)),
		ContentType: contentType,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attRepo.Create(txCtx, att); err != nil {
			return fmt.Errorf("create attachment record: %w", err)
		}
		if err := s.docRepo.IncrementAttachmentCount(txCtx, documentID); err != nil {
			return fmt.Errorf("increment attachment count: %w", err)
		}
		return nil
	})
	if err != nil {
		// The record is the source of truth; remove the orphaned file.
		if delErr := s.storage.Delete(ctx, storedPath); delErr != nil {
			s.logger.Error("Failed to remove orphaned attachment file",
				"error", delErr, "path", storedPath)
		}
		s.logger.Error("Failed to record attachment",
			"error", err, "document_id", documentID)
		return nil, err
	}

	s.logger.Info("Attachment uploaded",
		"attachment_id", att.ID,
		"document_id", documentID,
		"file_name", att.FileName,
		"size", att.Size)

	return att, nil
}

// Download returns the attachment record and content.
func (s *attachmentServiceImpl) Download(ctx context.Context, attachmentID int64) (*entity.Attachment, []byte, error) {
	att, err := s.attRepo.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get attachment: %w", err)
	}
	if att == nil {
		return nil, nil, fmt.Errorf("attachment not found: id %d", attachmentID)
	}

	content, err := s.storage.Read(ctx, att.StoredPath)
	if err != nil {
		s.logger.Error("Failed to read attachment content",
			"error", err, "attachment_id", attachmentID, "path", att.StoredPath)
		return nil, nil, fmt.Errorf("read attachment content: %w", err)
	}

	return att, content, nil
}

// ListForDocument returns a document's attachments.
func (s *attachmentServiceImpl) ListForDocument(ctx context.Context, documentID int64) ([]*entity.Attachment, error) {
	atts, err := s.attRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		s.logger.Error("Failed to list attachments", "error", err, "document_id", documentID)
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return atts, nil
}
