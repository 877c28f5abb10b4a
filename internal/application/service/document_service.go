package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/domain/workflow"
	"github.com/tkhalil/erpflow/pkg/utils"
)

// ValidationError carries field-level messages back to the caller without
// any write having happened.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CreateDocumentInput is the writable surface of a draft document.
type CreateDocumentInput struct {
	Type           string
	RequesterID    int64
	DepartmentID   int64
	CostCenterID   int64
	SubCostCenter  string
	FiscalPeriodID int64
	SupplierID     *int64
	Amount         string
	Justification  string
}

// DocumentService manages documents outside the approval pipeline: drafts
// and reads. Status is never writable here; only the workflow engine moves
// it.
type DocumentService interface {
	Create(ctx context.Context, in CreateDocumentInput) (*entity.Document, error)
	Get(ctx context.Context, id int64) (*entity.Document, error)
	// UpdateDraft rewrites a draft's fields. Fails with
	// workflow.ErrInvalidTransition when the document left DRAFT.
	UpdateDraft(ctx context.Context, id int64, in CreateDocumentInput) (*entity.Document, error)
	List(ctx context.Context, filter port.DocumentFilter) ([]*entity.Document, error)
}

type documentServiceImpl struct {
	docRepo port.DocumentRepository
	types   map[string]entity.DocumentTypeConfig
	logger  Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(docRepo port.DocumentRepository, types map[string]entity.DocumentTypeConfig, logger Logger) DocumentService {
	return &documentServiceImpl{
		docRepo: docRepo,
		types:   types,
		logger:  logger,
	}
}

func (s *documentServiceImpl) validate(in CreateDocumentInput) error {
	fields := make(map[string]string)
	if _, ok := s.types[in.Type]; !ok {
		fields["type"] = "unknown document type"
	}
	if in.RequesterID <= 0 {
		fields["requester_id"] = "required"
	}
	if in.DepartmentID <= 0 {
		fields["department_id"] = "required"
	}
	if in.CostCenterID <= 0 {
		fields["cost_center_id"] = "required"
	}
	if in.FiscalPeriodID <= 0 {
		fields["fiscal_period_id"] = "required"
	}
	if err := utils.ValidateAmount(in.Amount); err != nil {
		fields["amount"] = err.Error()
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create persists a new draft.
func (s *documentServiceImpl) Create(ctx context.Context, in CreateDocumentInput) (*entity.Document, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &entity.Document{
		Type:           in.Type,
		Status:         entity.DocumentStatusDraft,
		RequesterID:    in.RequesterID,
		DepartmentID:   in.DepartmentID,
		CostCenterID:   in.CostCenterID,
		SubCostCenter:  in.SubCostCenter,
		FiscalPeriodID: in.FiscalPeriodID,
		SupplierID:     in.SupplierID,
		Amount:         in.Amount,
		Justification:  in.Justification,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	doc.Reference = buildReference(in.Type, now)

	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to create document", "error", err, "type", in.Type)
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("Document created",
		"document_id", doc.ID,
		"type", doc.Type,
		"reference", doc.Reference)

	return doc, nil
}

// Get retrieves a document by ID.
func (s *documentServiceImpl) Get(ctx context.Context, id int64) (*entity.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "document_id", id)
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: id %d", workflow.ErrDocumentNotFound, id)
	}
	return doc, nil
}

// UpdateDraft rewrites a draft's writable fields.
func (s *documentServiceImpl) UpdateDraft(ctx context.Context, id int64, in CreateDocumentInput) (*entity.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, fmt.Errorf("%w: document %d is %s, only drafts are editable",
			workflow.ErrInvalidTransition, id, doc.Status)
	}

	in.Type = doc.Type // type is fixed at creation
	in.RequesterID = doc.RequesterID
	if err := s.validate(in); err != nil {
		return nil, err
	}

	doc.DepartmentID = in.DepartmentID
	doc.CostCenterID = in.CostCenterID
	doc.SubCostCenter = in.SubCostCenter
	doc.FiscalPeriodID = in.FiscalPeriodID
	doc.SupplierID = in.SupplierID
	doc.Amount = in.Amount
	doc.Justification = in.Justification

	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to update document", "error", err, "document_id", id)
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.logger.Info("Document updated", "document_id", id)
	return doc, nil
}

// List returns documents matching the filter.
func (s *documentServiceImpl) List(ctx context.Context, filter port.DocumentFilter) ([]*entity.Document, error) {
	docs, err := s.docRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err)
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// buildReference derives a human-readable document number, e.g.
// "BR-20260901-143205".
func buildReference(docType string, t time.Time) string {
	prefix := "DOC"
	switch docType {
	case entity.DocumentTypeBudgetRequest:
		prefix = "BR"
	case entity.DocumentTypePurchaseOrder:
		prefix = "PO"
	case entity.DocumentTypeRFQ:
		prefix = "RFQ"
	case entity.DocumentTypePaymentOrder:
		prefix = "PAY"
	}
	return fmt.Sprintf("%s-%s", prefix, t.Format("20060102-150405"))
}
