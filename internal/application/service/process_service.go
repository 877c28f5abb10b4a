package service

import (
	"context"
	"fmt"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ProcessService resolves process definitions and step approvers. Both are
// reference data; a miss on either is a blocking configuration error.
type ProcessService interface {
	// FindByTitle returns the definition with steps ordered ascending.
	// Fails with workflow.ErrProcessNotFound when the title is unknown or
	// the definition has zero steps, and with
	// workflow.ErrProcessMisconfigured on duplicate step order values.
	FindByTitle(ctx context.Context, title string) (*entity.ProcessDefinition, error)

	// ResolveAssignee returns the user responsible for acting on the step
	// when the workflow was initiated by the given requester. Fails with
	// workflow.ErrAssigneeNotFound when no mapping exists.
	ResolveAssignee(ctx context.Context, stepID, requesterID int64) (int64, error)
}

type processServiceImpl struct {
	processRepo port.ProcessRepository
	logger      Logger
}

// NewProcessService creates a new ProcessService
func NewProcessService(processRepo port.ProcessRepository, logger Logger) ProcessService {
	return &processServiceImpl{
		processRepo: processRepo,
		logger:      logger,
	}
}

// FindByTitle looks up a process definition and validates its step ordering.
func (s *processServiceImpl) FindByTitle(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
	def, err := s.processRepo.GetByTitle(ctx, title)
	if err != nil {
		s.logger.Error("Failed to look up process definition", "error", err, "title", title)
		return nil, fmt.Errorf("get process by title: %w", err)
	}
	if def == nil || len(def.Steps) == 0 {
		s.logger.Error("Process definition missing or empty", "title", title)
		return nil, fmt.Errorf("%w: %q", workflow.ErrProcessNotFound, title)
	}

	seen := make(map[int]bool, len(def.Steps))
	for _, step := range def.Steps {
		if seen[step.StepOrder] {
			s.logger.Error("Duplicate step order in process definition",
				"title", title, "order", step.StepOrder)
			return nil, fmt.Errorf("%w: duplicate step order %d in %q",
				workflow.ErrProcessMisconfigured, step.StepOrder, title)
		}
		seen[step.StepOrder] = true
	}

	return def, nil
}

// ResolveAssignee consults the step-approver table for the concrete user.
func (s *processServiceImpl) ResolveAssignee(ctx context.Context, stepID, requesterID int64) (int64, error) {
	mapping, err := s.processRepo.GetApprover(ctx, stepID, requesterID)
	if err != nil {
		s.logger.Error("Failed to look up step approver",
			"error", err, "step_id", stepID, "requester_id", requesterID)
		return 0, fmt.Errorf("get step approver: %w", err)
	}
	if mapping == nil {
		s.logger.Error("No approver configured",
			"step_id", stepID, "requester_id", requesterID)
		return 0, fmt.Errorf("%w: step %d, requester %d",
			workflow.ErrAssigneeNotFound, stepID, requesterID)
	}

	return mapping.ApproverID, nil
}
