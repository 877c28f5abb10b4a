package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// TaskService manages the work items surfaced on approvers' task lists.
// A task is created alongside every pending transaction and kept as a
// historical record after the decision.
type TaskService interface {
	// CreateForTransaction persists the work item for a newly pending
	// transaction and notifies the assignee. The notification is best
	// effort; a delivery failure is logged and swallowed.
	CreateForTransaction(ctx context.Context, tx *entity.ApprovalTransaction, step *entity.ProcessStep, doc *entity.Document) (*entity.Task, error)

	// ListForAssignee returns a user's tasks, newest first.
	ListForAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error)

	// MarkRead acknowledges a task on the assignee's list.
	MarkRead(ctx context.Context, taskID int64) error
}

type taskServiceImpl struct {
	taskRepo port.TaskRepository
	notifier port.Notifier
	deadline time.Duration
	logger   Logger
}

// NewTaskService creates a new TaskService. deadline is the window granted
// to an assignee before a task is considered overdue.
func NewTaskService(taskRepo port.TaskRepository, notifier port.Notifier, deadline time.Duration, logger Logger) TaskService {
	return &taskServiceImpl{
		taskRepo: taskRepo,
		notifier: notifier,
		deadline: deadline,
		logger:   logger,
	}
}

// CreateForTransaction persists the task and notifies the assignee.
func (s *taskServiceImpl) CreateForTransaction(ctx context.Context, tx *entity.ApprovalTransaction, step *entity.ProcessStep, doc *entity.Document) (*entity.Task, error) {
	now := time.Now()
	task := &entity.Task{
		TransactionID: tx.ID,
		DocumentID:    tx.DocumentID,
		ProcessID:     step.ProcessID,
		StepID:        step.ID,
		AssignedFrom:  tx.RequesterID,
		AssignedTo:    tx.AssignedTo,
		Urgency:       entity.TaskUrgencyNormal,
		AssignedAt:    now,
	}
	if s.deadline > 0 {
		due := now.Add(s.deadline)
		task.Deadline = &due
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task",
			"error", err,
			"transaction_id", tx.ID,
			"assigned_to", tx.AssignedTo)
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("Task created",
		"task_id", task.ID,
		"transaction_id", tx.ID,
		"assigned_to", tx.AssignedTo)

	if s.notifier != nil {
		if err := s.notifier.NotifyAssignment(ctx, task, doc); err != nil {
			// The task row is the source of truth; a missed message must
			// not roll back the workflow.
			s.logger.Error("Failed to notify assignee",
				"error", err,
				"task_id", task.ID,
				"assigned_to", task.AssignedTo)
		}
	}

	return task, nil
}

// ListForAssignee returns a user's task list.
func (s *taskServiceImpl) ListForAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(ctx, assigneeID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list tasks", "error", err, "assignee_id", assigneeID)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// MarkRead acknowledges a task.
func (s *taskServiceImpl) MarkRead(ctx context.Context, taskID int64) error {
	if err := s.taskRepo.MarkRead(ctx, taskID); err != nil {
		s.logger.Error("Failed to mark task read", "error", err, "task_id", taskID)
		return fmt.Errorf("mark task read: %w", err)
	}
	return nil
}
