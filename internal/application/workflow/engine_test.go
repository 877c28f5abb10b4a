package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	domainwf "github.com/tkhalil/erpflow/internal/domain/workflow"
)

// Function-field mocks for the engine's collaborators.

type mockDocRepo struct {
	getByID           func(ctx context.Context, id int64) (*entity.Document, error)
	updateStatus      func(ctx context.Context, id int64, status string) error
	findOpenDuplicate func(ctx context.Context, key port.DuplicateKey) (*entity.Document, error)
}

func (m *mockDocRepo) Create(ctx context.Context, doc *entity.Document) error { panic("unexpected") }
func (m *mockDocRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	return m.getByID(ctx, id)
}
func (m *mockDocRepo) Update(ctx context.Context, doc *entity.Document) error { panic("unexpected") }
func (m *mockDocRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.updateStatus(ctx, id, status)
}
func (m *mockDocRepo) List(ctx context.Context, filter port.DocumentFilter) ([]*entity.Document, error) {
	panic("unexpected")
}
func (m *mockDocRepo) FindOpenDuplicate(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
	return m.findOpenDuplicate(ctx, key)
}
func (m *mockDocRepo) IncrementAttachmentCount(ctx context.Context, id int64) error {
	panic("unexpected")
}

type mockProcesses struct {
	findByTitle     func(ctx context.Context, title string) (*entity.ProcessDefinition, error)
	resolveAssignee func(ctx context.Context, stepID, requesterID int64) (int64, error)
}

func (m *mockProcesses) FindByTitle(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
	return m.findByTitle(ctx, title)
}
func (m *mockProcesses) ResolveAssignee(ctx context.Context, stepID, requesterID int64) (int64, error) {
	return m.resolveAssignee(ctx, stepID, requesterID)
}

type mockLedger struct {
	createTransaction  func(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error)
	resolveTransaction func(ctx context.Context, transactionID int64, decision string, actorID int64, comment string) (*entity.ApprovalTransaction, error)
	getTransaction     func(ctx context.Context, transactionID int64) (*entity.ApprovalTransaction, error)
	listForDocument    func(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error)
}

func (m *mockLedger) CreateTransaction(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error) {
	return m.createTransaction(ctx, documentID, step, requesterID, assigneeID)
}
func (m *mockLedger) ResolveTransaction(ctx context.Context, transactionID int64, decision string, actorID int64, comment string) (*entity.ApprovalTransaction, error) {
	return m.resolveTransaction(ctx, transactionID, decision, actorID, comment)
}
func (m *mockLedger) GetTransaction(ctx context.Context, transactionID int64) (*entity.ApprovalTransaction, error) {
	return m.getTransaction(ctx, transactionID)
}
func (m *mockLedger) ListForDocument(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error) {
	return m.listForDocument(ctx, documentID)
}
func (m *mockLedger) GetPendingForDocument(ctx context.Context, documentID int64) (*entity.ApprovalTransaction, error) {
	panic("unexpected")
}

type mockTasks struct {
	created []*entity.Task
}

func (m *mockTasks) CreateForTransaction(ctx context.Context, tx *entity.ApprovalTransaction, step *entity.ProcessStep, doc *entity.Document) (*entity.Task, error) {
	task := &entity.Task{
		ID:            int64(len(m.created) + 1),
		TransactionID: tx.ID,
		DocumentID:    tx.DocumentID,
		StepID:        step.ID,
		AssignedFrom:  tx.RequesterID,
		AssignedTo:    tx.AssignedTo,
	}
	m.created = append(m.created, task)
	return task, nil
}
func (m *mockTasks) ListForAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error) {
	panic("unexpected")
}
func (m *mockTasks) MarkRead(ctx context.Context, taskID int64) error { panic("unexpected") }

// passthroughTxManager runs the function without a real database
type passthroughTxManager struct{}

func (passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func budgetProcess() *entity.ProcessDefinition {
	return &entity.ProcessDefinition{
		ID:    1,
		Title: "Budget Request Approval",
		Steps: []*entity.ProcessStep{
			{ID: 10, ProcessID: 1, StepOrder: 1, Description: "Department head review"},
			{ID: 11, ProcessID: 1, StepOrder: 2, Description: "Finance review"},
		},
	}
}

func draftBudgetRequest() *entity.Document {
	return &entity.Document{
		ID: 5, Type: entity.DocumentTypeBudgetRequest,
		Reference: "BR-20260901-100000",
		Status:    entity.DocumentStatusDraft,
		RequesterID: 100, DepartmentID: 1, CostCenterID: 2,
		FiscalPeriodID: 2026, Amount: "1500.00",
	}
}

func TestEngine_Submit(t *testing.T) {
	t.Run("routes draft into first step", func(t *testing.T) {
		doc := draftBudgetRequest()
		statusUpdates := []string{}
		nextTxID := int64(0)

		docRepo := &mockDocRepo{
			getByID: func(ctx context.Context, id int64) (*entity.Document, error) { return doc, nil },
			updateStatus: func(ctx context.Context, id int64, status string) error {
				statusUpdates = append(statusUpdates, status)
				return nil
			},
			findOpenDuplicate: func(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
				return nil, nil
			},
		}
		processes := &mockProcesses{
			findByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				assert.Equal(t, "Budget Request Approval", title)
				return budgetProcess(), nil
			},
			resolveAssignee: func(ctx context.Context, stepID, requesterID int64) (int64, error) {
				assert.Equal(t, int64(10), stepID)
				return 200, nil
			},
		}
		ledger := &mockLedger{
			createTransaction: func(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error) {
				nextTxID++
				return &entity.ApprovalTransaction{
					ID: nextTxID, DocumentID: documentID, StepID: step.ID,
					StepOrder: step.StepOrder, RequesterID: requesterID,
					AssignedTo: assigneeID, Status: entity.TransactionStatusPending,
				}, nil
			},
		}
		tasks := &mockTasks{}

		engine := NewEngine(docRepo, processes, ledger, tasks, passthroughTxManager{},
			entity.DefaultDocumentTypes, nopLogger{})

		tx, err := engine.Submit(context.Background(), 5, 100)

		require.NoError(t, err)
		assert.Equal(t, 1, tx.StepOrder)
		assert.Equal(t, int64(200), tx.AssignedTo)
		assert.Equal(t, []string{entity.DocumentStatusPending}, statusUpdates)
		require.Len(t, tasks.created, 1)
		assert.Equal(t, int64(200), tasks.created[0].AssignedTo)
	})

	t.Run("duplicate open request blocks submission", func(t *testing.T) {
		doc := draftBudgetRequest()
		docRepo := &mockDocRepo{
			getByID: func(ctx context.Context, id int64) (*entity.Document, error) { return doc, nil },
			findOpenDuplicate: func(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
				assert.Equal(t, doc.Type, key.Type)
				assert.Equal(t, doc.FiscalPeriodID, key.FiscalPeriodID)
				return &entity.Document{ID: 4, Reference: "BR-20260815-090000", Status: entity.DocumentStatusPending}, nil
			},
			updateStatus: func(ctx context.Context, id int64, status string) error {
				t.Fatal("no status change expected")
				return nil
			},
		}

		engine := NewEngine(docRepo, &mockProcesses{}, &mockLedger{}, &mockTasks{},
			passthroughTxManager{}, entity.DefaultDocumentTypes, nopLogger{})

		_, err := engine.Submit(context.Background(), 5, 100)

		assert.ErrorIs(t, err, domainwf.ErrDuplicateRequest)
	})

	t.Run("purchase order skips duplicate check", func(t *testing.T) {
		doc := draftBudgetRequest()
		doc.Type = entity.DocumentTypePurchaseOrder
		docRepo := &mockDocRepo{
			getByID: func(ctx context.Context, id int64) (*entity.Document, error) { return doc, nil },
			findOpenDuplicate: func(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
				t.Fatal("duplicate check not expected for purchase orders")
				return nil, nil
			},
			updateStatus: func(ctx context.Context, id int64, status string) error { return nil },
		}
		processes := &mockProcesses{
			findByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return budgetProcess(), nil
			},
			resolveAssignee: func(ctx context.Context, stepID, requesterID int64) (int64, error) {
				return 200, nil
			},
		}
		ledger := &mockLedger{
			createTransaction: func(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error) {
				return &entity.ApprovalTransaction{ID: 1, DocumentID: documentID, StepID: step.ID, StepOrder: step.StepOrder, RequesterID: requesterID, AssignedTo: assigneeID, Status: entity.TransactionStatusPending}, nil
			},
		}

		engine := NewEngine(docRepo, processes, ledger, &mockTasks{},
			passthroughTxManager{}, entity.DefaultDocumentTypes, nopLogger{})

		_, err := engine.Submit(context.Background(), 5, 100)

		require.NoError(t, err)
	})

	t.Run("already submitted document", func(t *testing.T) {
		doc := draftBudgetRequest()
		doc.Status = entity.DocumentStatusPending
		docRepo := &mockDocRepo{
			getByID: func(ctx context.Context, id int64) (*entity.Document, error) { return doc, nil },
		}

		engine := NewEngine(docRepo, &mockProcesses{}, &mockLedger{}, &mockTasks{},
			passthroughTxManager{}, entity.DefaultDocumentTypes, nopLogger{})

		_, err := engine.Submit(context.Background(), 5, 100)

		assert.ErrorIs(t, err, domainwf.ErrInvalidTransition)
	})

	t.Run("missing approver mapping leaves draft untouched", func(t *testing.T) {
		doc := draftBudgetRequest()
		docRepo := &mockDocRepo{
			getByID: func(ctx context.Context, id int64) (*entity.Document, error) { return doc, nil },
			findOpenDuplicate: func(ctx context.Context, key port.DuplicateKey) (*entity.Document, error) {
				return nil, nil
			},
			updateStatus: func(ctx context.Context, id int64, status string) error {
				t.Fatal("no status change expected")
				return nil
			},
		}
		processes := &mockProcesses{
			findByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return budgetProcess(), nil
			},
			resolveAssignee: func(ctx context.Context, stepID, requesterID int64) (int64, error) {
				return 0, domainwf.ErrAssigneeNotFound
			},
		}

		engine := NewEngine(docRepo, processes, &mockLedger{}, &mockTasks{},
			passthroughTxManager{}, entity.DefaultDocumentTypes, nopLogger{})

		_, err := engine.Submit(context.Background(), 5, 100)

		assert.ErrorIs(t, err, domainwf.ErrAssigneeNotFound)
	})
}

func TestEngine_Decide(t *testing.T) {
	pendingDoc := func() *entity.Document {
		doc := draftBudgetRequest()
		doc.Status = entity.DocumentStatusPending
		return doc
	}
	firstStepTx := func() *entity.ApprovalTransaction {
		return &entity.ApprovalTransaction{
			ID: 1, DocumentID: 5, StepID: 10, StepOrder: 1,
			RequesterID: 100, AssignedTo: 200,
			Status: entity.TransactionStatusPending,
		}
	}

	newEngine := func(doc *entity.Document, tx *entity.ApprovalTransaction, statusUpdates *[]string, tasks *mockTasks) Engine {
		docRepo := &mockDocRepo{
			getByID: func(ctx context.Context, id int64) (*entity.Document, error) { return doc, nil },
			updateStatus: func(ctx context.Context, id int64, status string) error {
				*statusUpdates = append(*statusUpdates, status)
				return nil
			},
		}
		processes := &mockProcesses{
			findByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return budgetProcess(), nil
			},
			resolveAssignee: func(ctx context.Context, stepID, requesterID int64) (int64, error) {
				return 300, nil
			},
		}
		nextID := tx.ID
		ledger := &mockLedger{
			getTransaction: func(ctx context.Context, transactionID int64) (*entity.ApprovalTransaction, error) {
				return tx, nil
			},
			resolveTransaction: func(ctx context.Context, transactionID int64, decision string, actorID int64, comment string) (*entity.ApprovalTransaction, error) {
				resolved := *tx
				resolved.Status = decision
				resolved.DecidedBy = &actorID
				resolved.Comment = comment
				return &resolved, nil
			},
			createTransaction: func(ctx context.Context, documentID int64, step *entity.ProcessStep, requesterID, assigneeID int64) (*entity.ApprovalTransaction, error) {
				nextID++
				return &entity.ApprovalTransaction{
					ID: nextID, DocumentID: documentID, StepID: step.ID,
					StepOrder: step.StepOrder, RequesterID: requesterID,
					AssignedTo: assigneeID, Status: entity.TransactionStatusPending,
				}, nil
			},
		}
		return NewEngine(docRepo, processes, ledger, tasks, passthroughTxManager{},
			entity.DefaultDocumentTypes, nopLogger{})
	}

	t.Run("approval advances to the next step", func(t *testing.T) {
		statusUpdates := []string{}
		tasks := &mockTasks{}
		engine := newEngine(pendingDoc(), firstStepTx(), &statusUpdates, tasks)

		result, err := engine.Decide(context.Background(), 1, entity.DecisionApprove, 200, "ok", 0)

		require.NoError(t, err)
		require.NotNil(t, result.Next)
		assert.Greater(t, result.Next.StepOrder, result.Resolved.StepOrder)
		assert.Equal(t, int64(300), result.Next.AssignedTo)
		assert.Equal(t, entity.DocumentStatusPending, result.DocumentStatus)
		assert.Empty(t, statusUpdates, "document stays pending mid-process")
		require.Len(t, tasks.created, 1)
	})

	t.Run("final approval terminates the workflow", func(t *testing.T) {
		statusUpdates := []string{}
		tx := firstStepTx()
		tx.StepID = 11
		tx.StepOrder = 2
		engine := newEngine(pendingDoc(), tx, &statusUpdates, &mockTasks{})

		result, err := engine.Decide(context.Background(), 1, entity.DecisionApprove, 200, "", 0)

		require.NoError(t, err)
		assert.Nil(t, result.Next)
		assert.Equal(t, entity.DocumentStatusApproved, result.DocumentStatus)
		assert.Equal(t, []string{entity.DocumentStatusApproved}, statusUpdates)
	})

	t.Run("payment order approval lands on its own terminal status", func(t *testing.T) {
		statusUpdates := []string{}
		doc := pendingDoc()
		doc.Type = entity.DocumentTypePaymentOrder
		tx := firstStepTx()
		tx.StepID = 11
		tx.StepOrder = 2
		engine := newEngine(doc, tx, &statusUpdates, &mockTasks{})

		result, err := engine.Decide(context.Background(), 1, entity.DecisionApprove, 200, "", 0)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED_FOR_PAYMENT", result.DocumentStatus)
	})

	t.Run("rejection terminates immediately", func(t *testing.T) {
		statusUpdates := []string{}
		engine := newEngine(pendingDoc(), firstStepTx(), &statusUpdates, &mockTasks{})

		result, err := engine.Decide(context.Background(), 1, entity.DecisionReject, 200, "missing budget line", 0)

		require.NoError(t, err)
		assert.Nil(t, result.Next)
		assert.Equal(t, entity.DocumentStatusRejected, result.DocumentStatus)
		assert.Equal(t, []string{entity.DocumentStatusRejected}, statusUpdates)
	})

	t.Run("referral re-delegates the same step", func(t *testing.T) {
		statusUpdates := []string{}
		tasks := &mockTasks{}
		engine := newEngine(pendingDoc(), firstStepTx(), &statusUpdates, tasks)

		result, err := engine.Decide(context.Background(), 1, entity.DecisionRefer, 200, "please review", 400)

		require.NoError(t, err)
		require.NotNil(t, result.Next)
		assert.Equal(t, result.Resolved.StepOrder, result.Next.StepOrder)
		assert.Equal(t, int64(400), result.Next.AssignedTo)
		assert.Equal(t, entity.DocumentStatusPending, result.DocumentStatus)
		require.Len(t, tasks.created, 1)
		assert.Equal(t, int64(400), tasks.created[0].AssignedTo)
	})

	t.Run("referral requires a delegate", func(t *testing.T) {
		statusUpdates := []string{}
		engine := newEngine(pendingDoc(), firstStepTx(), &statusUpdates, &mockTasks{})

		_, err := engine.Decide(context.Background(), 1, entity.DecisionRefer, 200, "", 0)

		assert.Error(t, err)
	})

	t.Run("decision on a finished document", func(t *testing.T) {
		statusUpdates := []string{}
		doc := pendingDoc()
		doc.Status = entity.DocumentStatusApproved
		engine := newEngine(doc, firstStepTx(), &statusUpdates, &mockTasks{})

		_, err := engine.Decide(context.Background(), 1, entity.DecisionApprove, 200, "", 0)

		assert.ErrorIs(t, err, domainwf.ErrAlreadyResolved)
	})

	t.Run("unknown decision value", func(t *testing.T) {
		statusUpdates := []string{}
		engine := newEngine(pendingDoc(), firstStepTx(), &statusUpdates, &mockTasks{})

		_, err := engine.Decide(context.Background(), 1, "ESCALATED", 200, "", 0)

		assert.Error(t, err)
	})
}

func TestEngine_History(t *testing.T) {
	doc := draftBudgetRequest()
	docRepo := &mockDocRepo{
		getByID: func(ctx context.Context, id int64) (*entity.Document, error) {
			if id == doc.ID {
				return doc, nil
			}
			return nil, nil
		},
	}
	ledger := &mockLedger{
		listForDocument: func(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error) {
			return []*entity.ApprovalTransaction{
				{ID: 1, DocumentID: documentID, StepOrder: 1, Status: entity.TransactionStatusApproved},
				{ID: 2, DocumentID: documentID, StepOrder: 2, Status: entity.TransactionStatusPending},
			}, nil
		},
	}

	engine := NewEngine(docRepo, &mockProcesses{}, ledger, &mockTasks{},
		passthroughTxManager{}, entity.DefaultDocumentTypes, nopLogger{})

	t.Run("returns ordered transactions", func(t *testing.T) {
		txs, err := engine.History(context.Background(), 5)

		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.LessOrEqual(t, txs[0].StepOrder, txs[1].StepOrder)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := engine.History(context.Background(), 99)

		assert.ErrorIs(t, err, domainwf.ErrDocumentNotFound)
	})
}
