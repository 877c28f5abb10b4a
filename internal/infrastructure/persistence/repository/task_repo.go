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

const taskColumns = `
	id, transaction_id, document_id, process_id, step_id,
	assigned_from, assigned_to, urgency, assigned_at, deadline,
	read_status, created_at, updated_at`

// TaskRepository implements port.TaskRepository
type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) port.TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	query := `
		INSERT INTO tasks (
			transaction_id, document_id, process_id, step_id,
			assigned_from, assigned_to, urgency, assigned_at, deadline, read_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var deadline sql.NullTime
	if task.Deadline != nil {
		deadline = sql.NullTime{Time: *task.Deadline, Valid: true}
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		task.TransactionID,
		task.DocumentID,
		task.ProcessID,
		task.StepID,
		task.AssignedFrom,
		task.AssignedTo,
		task.Urgency,
		task.AssignedAt,
		deadline,
		task.Read,
	)
	if err != nil {
		r.logger.Error("Failed to create task",
			zap.Int64("transaction_id", task.TransactionID),
			zap.Int64("assigned_to", task.AssignedTo),
			zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = id
	return nil
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	query := `SELECT` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := r.scanTask(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task",
			zap.Int64("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// GetByTransactionID retrieves the task tied to a transaction
func (r *TaskRepository) GetByTransactionID(ctx context.Context, transactionID int64) (*entity.Task, error) {
	query := `SELECT` + taskColumns + ` FROM tasks WHERE transaction_id = ?`

	task, err := r.scanTask(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, transactionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task by transaction",
			zap.Int64("transaction_id", transactionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListByAssignee retrieves a user's tasks, newest first
func (r *TaskRepository) ListByAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*entity.Task, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT` + taskColumns + `
		FROM tasks
		WHERE assigned_to = ?
		ORDER BY assigned_at DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, assigneeID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list tasks",
			zap.Int64("assignee_id", assigneeID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		task, err := r.scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// MarkRead acknowledges a task
func (r *TaskRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE tasks SET read_status = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark task read",
			zap.Int64("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to mark task read: %w", err)
	}

	return nil
}

func (r *TaskRepository) scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var deadline sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.TransactionID,
		&task.DocumentID,
		&task.ProcessID,
		&task.StepID,
		&task.AssignedFrom,
		&task.AssignedTo,
		&task.Urgency,
		&task.AssignedAt,
		&deadline,
		&task.Read,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		task.Deadline = &deadline.Time
	}

	return &task, nil
}

// Verify interface compliance
var _ port.TaskRepository = (*TaskRepository)(nil)
