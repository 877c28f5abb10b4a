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

// ProcessRepository implements port.ProcessRepository over the process
// reference tables. Definitions are read-only at workflow execution time.
type ProcessRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProcessRepository creates a new process repository
func NewProcessRepository(db *sql.DB, logger *zap.Logger) port.ProcessRepository {
	return &ProcessRepository{
		db:     db,
		logger: logger,
	}
}

// GetByTitle retrieves a definition with its steps ordered ascending
func (r *ProcessRepository) GetByTitle(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
	query := `SELECT id, title, created_at FROM processes WHERE title = ?`

	var def entity.ProcessDefinition
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, title).Scan(
		&def.ID,
		&def.Title,
		&def.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get process by title",
			zap.String("title", title),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get process: %w", err)
	}

	steps, err := r.getSteps(ctx, def.ID)
	if err != nil {
		return nil, err
	}
	def.Steps = steps

	return &def, nil
}

// GetApprover retrieves the approver mapping for a (step, requester) pair
func (r *ProcessRepository) GetApprover(ctx context.Context, stepID, requesterID int64) (*entity.StepApprover, error) {
	query := `
		SELECT id, step_id, requester_id, approver_id
		FROM step_approvers
		WHERE step_id = ? AND requester_id = ?
	`

	var m entity.StepApprover
	err := sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, stepID, requesterID).Scan(
		&m.ID,
		&m.StepID,
		&m.RequesterID,
		&m.ApproverID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get step approver",
			zap.Int64("step_id", stepID),
			zap.Int64("requester_id", requesterID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get step approver: %w", err)
	}

	return &m, nil
}

func (r *ProcessRepository) getSteps(ctx context.Context, processID int64) ([]*entity.ProcessStep, error) {
	query := `
		SELECT id, process_id, step_order, description
		FROM process_steps
		WHERE process_id = ?
		ORDER BY step_order
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, processID)
	if err != nil {
		r.logger.Error("Failed to get process steps",
			zap.Int64("process_id", processID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get process steps: %w", err)
	}
	defer rows.Close()

	var steps []*entity.ProcessStep
	for rows.Next() {
		var step entity.ProcessStep
		var description sql.NullString
		if err := rows.Scan(&step.ID, &step.ProcessID, &step.StepOrder, &description); err != nil {
			return nil, fmt.Errorf("failed to scan process step: %w", err)
		}
		if description.Valid {
			step.Description = description.String
		}
		steps = append(steps, &step)
	}

	return steps, rows.Err()
}

// Verify interface compliance
var _ port.ProcessRepository = (*ProcessRepository)(nil)
