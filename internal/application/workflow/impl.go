package workflow

import (
	"context"
	"fmt"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/application/service"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	domainwf "github.com/tkhalil/erpflow/internal/domain/workflow"
)

type engineImpl struct {
	docRepo   port.DocumentRepository
	processes service.ProcessService
	ledger    service.LedgerService
	tasks     service.TaskService
	txManager port.TransactionManager
	types     map[string]entity.DocumentTypeConfig
	logger    service.Logger
}

// NewEngine creates the workflow engine.
func NewEngine(
	docRepo port.DocumentRepository,
	processes service.ProcessService,
	ledger service.LedgerService,
	tasks service.TaskService,
	txManager port.TransactionManager,
	types map[string]entity.DocumentTypeConfig,
	logger service.Logger,
) Engine {
	return &engineImpl{
		docRepo:   docRepo,
		processes: processes,
		ledger:    ledger,
		tasks:     tasks,
		txManager: txManager,
		types:     types,
		logger:    logger,
	}
}

// Submit routes a draft into the first step of its approval process.
func (e *engineImpl) Submit(ctx context.Context, documentID, requesterID int64) (*entity.ApprovalTransaction, error) {
	doc, err := e.getDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	machine, err := domainwf.NewMachine(e.lifecycleState(doc))
	if err != nil {
		return nil, err
	}
	if !machine.CanFire(domainwf.TriggerSubmit) {
		return nil, fmt.Errorf("%w: cannot submit document %d in status %s",
			domainwf.ErrInvalidTransition, documentID, doc.Status)
	}

	cfg, ok := e.types[doc.Type]
	if !ok {
		return nil, fmt.Errorf("%w: no process bound to document type %q",
			domainwf.ErrProcessNotFound, doc.Type)
	}

	if cfg.UniquePerPeriod {
		if err := e.checkDuplicate(ctx, doc); err != nil {
			return nil, err
		}
	}

	// Both lookups precede any write: a configuration failure aborts the
	// submission with the document still in DRAFT.
	def, err := e.processes.FindByTitle(ctx, cfg.ProcessTitle)
	if err != nil {
		return nil, err
	}
	first := def.FirstStep()

	assigneeID, err := e.processes.ResolveAssignee(ctx, first.ID, requesterID)
	if err != nil {
		return nil, err
	}

	var created *entity.ApprovalTransaction
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = e.ledger.CreateTransaction(txCtx, doc.ID, first, requesterID, assigneeID)
		if txErr != nil {
			return txErr
		}
		if _, err := e.tasks.CreateForTransaction(txCtx, created, first, doc); err != nil {
			return err
		}
		return e.docRepo.UpdateStatus(txCtx, doc.ID, cfg.StatusFor(entity.DocumentStatusPending))
	})
	if err != nil {
		e.logger.Error("Submission failed", "error", err, "document_id", documentID)
		return nil, err
	}

	e.logger.Info("Document submitted",
		"document_id", documentID,
		"process", cfg.ProcessTitle,
		"first_step_order", first.StepOrder,
		"assigned_to", assigneeID)

	return created, nil
}

// Decide applies a decision and moves the workflow.
func (e *engineImpl) Decide(ctx context.Context, transactionID int64, decision string, actorID int64, comment string, referredTo int64) (*DecisionResult, error) {
	if !entity.ValidDecision(decision) {
		return nil, fmt.Errorf("invalid decision %q", decision)
	}
	if decision == entity.DecisionRefer && referredTo <= 0 {
		return nil, fmt.Errorf("referred_to is required for a referral")
	}

	tx, err := e.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	doc, err := e.getDocument(ctx, tx.DocumentID)
	if err != nil {
		return nil, err
	}

	cfg, ok := e.types[doc.Type]
	if !ok {
		return nil, fmt.Errorf("%w: no process bound to document type %q",
			domainwf.ErrProcessNotFound, doc.Type)
	}

	machine, err := domainwf.NewMachine(e.lifecycleState(doc))
	if err != nil {
		return nil, err
	}
	if machine.State().IsTerminal() {
		// Terminal stability: the ledger row must already be resolved too,
		// so report it the same way a repeated decision would be.
		return nil, fmt.Errorf("%w: document %d is %s",
			domainwf.ErrAlreadyResolved, doc.ID, doc.Status)
	}

	result := &DecisionResult{}
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		resolved, err := e.ledger.ResolveTransaction(txCtx, transactionID, decision, actorID, comment)
		if err != nil {
			return err
		}
		result.Resolved = resolved

		switch decision {
		case entity.DecisionApprove:
			return e.advance(txCtx, machine, doc, cfg, resolved, result)
		case entity.DecisionReject:
			if err := machine.Fire(domainwf.TriggerReject); err != nil {
				return err
			}
			result.DocumentStatus = cfg.StatusFor(entity.DocumentStatusRejected)
			return e.docRepo.UpdateStatus(txCtx, doc.ID, result.DocumentStatus)
		case entity.DecisionRefer:
			return e.refer(txCtx, machine, doc, cfg, resolved, referredTo, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Decision applied",
		"transaction_id", transactionID,
		"decision", decision,
		"decided_by", actorID,
		"document_status", result.DocumentStatus)

	return result, nil
}

// advance resolves the approval's consequences: the next step when one
// exists, otherwise the terminal approved status.
func (e *engineImpl) advance(ctx context.Context, machine *domainwf.Machine, doc *entity.Document, cfg entity.DocumentTypeConfig, resolved *entity.ApprovalTransaction, result *DecisionResult) error {
	def, err := e.processes.FindByTitle(ctx, cfg.ProcessTitle)
	if err != nil {
		return err
	}

	next := def.NextStep(resolved.StepOrder)
	if next == nil {
		if err := machine.Fire(domainwf.TriggerApprove); err != nil {
			return err
		}
		result.DocumentStatus = cfg.StatusFor(entity.DocumentStatusApproved)
		return e.docRepo.UpdateStatus(ctx, doc.ID, result.DocumentStatus)
	}

	if err := machine.Fire(domainwf.TriggerAdvance); err != nil {
		return err
	}

	assigneeID, err := e.processes.ResolveAssignee(ctx, next.ID, resolved.RequesterID)
	if err != nil {
		return err
	}

	nextTx, err := e.ledger.CreateTransaction(ctx, doc.ID, next, resolved.RequesterID, assigneeID)
	if err != nil {
		return err
	}
	if _, err := e.tasks.CreateForTransaction(ctx, nextTx, next, doc); err != nil {
		return err
	}

	result.Next = nextTx
	result.DocumentStatus = cfg.StatusFor(entity.DocumentStatusPending)
	return nil
}

// refer re-delegates the current step to another user at the same order.
func (e *engineImpl) refer(ctx context.Context, machine *domainwf.Machine, doc *entity.Document, cfg entity.DocumentTypeConfig, resolved *entity.ApprovalTransaction, referredTo int64, result *DecisionResult) error {
	if err := machine.Fire(domainwf.TriggerRefer); err != nil {
		return err
	}

	def, err := e.processes.FindByTitle(ctx, cfg.ProcessTitle)
	if err != nil {
		return err
	}
	step := def.StepByID(resolved.StepID)
	if step == nil {
		return fmt.Errorf("%w: step %d no longer in process %q",
			domainwf.ErrProcessMisconfigured, resolved.StepID, cfg.ProcessTitle)
	}

	delegateTx, err := e.ledger.CreateTransaction(ctx, doc.ID, step, resolved.RequesterID, referredTo)
	if err != nil {
		return err
	}
	if _, err := e.tasks.CreateForTransaction(ctx, delegateTx, step, doc); err != nil {
		return err
	}

	result.Next = delegateTx
	result.DocumentStatus = cfg.StatusFor(entity.DocumentStatusPending)
	return nil
}

// History returns the document's ordered approval transactions.
func (e *engineImpl) History(ctx context.Context, documentID int64) ([]*entity.ApprovalTransaction, error) {
	if _, err := e.getDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return e.ledger.ListForDocument(ctx, documentID)
}

// checkDuplicate blocks submission when another open document occupies the
// same composite key.
func (e *engineImpl) checkDuplicate(ctx context.Context, doc *entity.Document) error {
	dup, err := e.docRepo.FindOpenDuplicate(ctx, port.DuplicateKey{
		Type:           doc.Type,
		FiscalPeriodID: doc.FiscalPeriodID,
		DepartmentID:   doc.DepartmentID,
		CostCenterID:   doc.CostCenterID,
		SubCostCenter:  doc.SubCostCenter,
		ExcludeID:      doc.ID,
	})
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if dup != nil {
		return fmt.Errorf("%w: %s already open for fiscal period %d, department %d, cost center %d",
			domainwf.ErrDuplicateRequest, dup.Reference, dup.FiscalPeriodID, dup.DepartmentID, dup.CostCenterID)
	}
	return nil
}

func (e *engineImpl) getDocument(ctx context.Context, id int64) (*entity.Document, error) {
	doc, err := e.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: id %d", domainwf.ErrDocumentNotFound, id)
	}
	return doc, nil
}

// lifecycleState maps a document's (possibly type-specific) status string
// onto the shared lifecycle.
func (e *engineImpl) lifecycleState(doc *entity.Document) domainwf.State {
	cfg, ok := e.types[doc.Type]
	if !ok {
		return domainwf.State(doc.Status)
	}
	switch doc.Status {
	case cfg.StatusFor(entity.DocumentStatusPending):
		return domainwf.StatePending
	case cfg.StatusFor(entity.DocumentStatusApproved):
		return domainwf.StateApproved
	case cfg.StatusFor(entity.DocumentStatusRejected):
		return domainwf.StateRejected
	}
	return domainwf.State(doc.Status)
}
