package service

import (
	"context"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// Function-field mocks: tests set only the methods they expect.

type mockProcessRepo struct {
	getByTitle  func(ctx context.Context, title string) (*entity.ProcessDefinition, error)
	getApprover func(ctx context.Context, stepID, requesterID int64) (*entity.StepApprover, error)
}

func (m *mockProcessRepo) GetByTitle(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
	return m.getByTitle(ctx, title)
}

func (m *mockProcessRepo) GetApprover(ctx context.Context, stepID, requesterID int64) (*entity.StepApprover, error) {
	return m.getApprover(ctx, stepID, requesterID)
}

type mockTransactionRepo struct {
	create                func(ctx context.Context, tx *entity.ApprovalTransaction) error
	getByID               func(ctx context.Context, id int64) (*entity.ApprovalTransaction, error)
	getByDocumentID       func(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error)
	getPendingForDocument func(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error)
	resolve               func(ctx context.Context, id int64, status string, decidedBy int64, comment string) (bool, error)
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *entity.ApprovalTransaction) error {
	return m.create(ctx, tx)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id int64) (*entity.ApprovalTransaction, error) {
	return m.getByID(ctx, id)
}

func (m *mockTransactionRepo) GetByDocumentID(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error) {
	return m.getByDocumentID(ctx, documentID)
}

func (m *mockTransactionRepo) GetPendingForDocument(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error) {
	return m.getPendingForDocument(ctx, documentID)
}

func (m *mockTransactionRepo) Resolve(ctx context.Context, id int64, status string, decidedBy int64, comment string) (bool, error) {
	return m.resolve(ctx, id, status, decidedBy, comment)
}

type mockTaskRepo struct {
	create             func(ctx context.Context, task *entity.Task) error
	getByID            func(ctx context.Context, id int64) (*entity.Task, error)
	getByTransactionID func(ctx context.Context, transactionID int64) (*entity.Task, error)
	listByAssignee     func(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error)
	markRead           func(ctx context.Context, id int64) error
}

func (m *mockTaskRepo) Create(ctx context.Context, task *entity.Task) error {
	return m.create(ctx, task)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	return m.getByID(ctx, id)
}

func (m *mockTaskRepo) GetByTransactionID(ctx context.Context, transactionID int64) (*entity.Task, error) {
	return m.getByTransactionID(ctx, transactionID)
}

func (m *mockTaskRepo) ListByAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error) {
	return m.listByAssignee(ctx, assigneeID, limit, offset)
}

func (m *mockTaskRepo) MarkRead(ctx context.Context, id int64) error {
	return m.markRead(ctx, id)
}

type mockDocumentRepo struct {
	create                   func(ctx context.Context, doc *entity.Document) error
	getByID                  func(ctx context.Context, id int64) (*entity.Document, error)
	update                   func(ctx context.Context, doc *entity.Document) error
	updateStatus             func(ctx context.Context, id int64, status string) error
	list                     func(ctx context.Context, filter port.DocumentFilter) ([]*entity.Document, error)
	findOpenDuplicate        func(ctx context.Context, key port.DuplicateKey) (*entity.Document, error)
	incrementAttachmentCount func(ctx context.Context, id int64) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	return m.create(ctx, doc)
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	return m.getByID(ctx, id)
}

func (m *mockDocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	return m.update(ctx, doc)
}

func (m *mockDocumentRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.updateStatus(ctx, id, status)
}

func (m *mockDocumentRepo) List(ctx context.Context, filter port.DocumentFilter) ([]*entity.Document, error) {
	return m.list(ctx, filter)
}

func (m *mockDocumentRepo) FindOpenDuplicate(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
	return m.findOpenDuplicate(ctx, key)
}

func (m *mockDocumentRepo) IncrementAttachmentCount(ctx context.Context, id int64) error {
	return m.incrementAttachmentCount(ctx, id)
}

type mockAttachmentRepo struct {
	create          func(ctx context.Context, att *entity.Attachment) error
	getByID         func(ctx context.Context, id int64) (*entity.Attachment, error)
	getByDocumentID func(ctx context.Context, documentID int64) ([]*entity.Attachment, error)
}

func (m *mockAttachmentRepo) Create(ctx context.Context, att *entity.Attachment) error {
	return m.create(ctx, att)
}

func (m *mockAttachmentRepo) GetByID(ctx context.Context, id int64) (*entity.Attachment, error) {
	return m.getByID(ctx, id)
}

func (m *mockAttachmentRepo) GetByDocumentID(ctx context.Context, documentID int64) ([]*entity.Attachment, error) {
	return m.getByDocumentID(ctx, documentID)
}

type mockFileStorage struct {
	save   func(ctx context.Context, path string, content []byte) error
	read   func(ctx context.Context, path string) ([]byte, error)
	exists func(ctx context.Context, path string) bool
	delete func(ctx context.Context, path string) error
}

func (m *mockFileStorage) Save(ctx context.Context, path string, content []byte) error {
	return m.save(ctx, path, content)
}

func (m *mockFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	return m.read(ctx, path)
}

func (m *mockFileStorage) Exists(ctx context.Context, path string) bool {
	if m.exists == nil {
		return false
	}
	return m.exists(ctx, path)
}

func (m *mockFileStorage) Delete(ctx context.Context, path string) error {
	if m.delete == nil {
		return nil
	}
	return m.delete(ctx, path)
}

// passthroughTxManager runs the function without a real database
type passthroughTxManager struct{}

func (passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockNotifier struct {
	notify func(ctx context.Context, task *entity.Task, doc *entity.Document) error
}

func (m *mockNotifier) NotifyAssignment(ctx context.Context, task *entity.Task, doc *entity.Document) error {
	if m.notify == nil {
		return nil
	}
	return m.notify(ctx, task, doc)
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
