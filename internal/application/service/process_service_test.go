package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkhalil/erpflow/internal/domain/entity"
	"github.com/tkhalil/erpflow/internal/domain/workflow"
)

func twoStepDefinition() *entity.ProcessDefinition {
	return &entity.ProcessDefinition{
		ID:    1,
		Title: "Budget Request Approval",
		Steps: []*entity.ProcessStep{
			{ID: 10, ProcessID: 1, StepOrder: 1, Description: "Department head review"},
			{ID: 11, ProcessID: 1, StepOrder: 2, Description: "Finance review"},
		},
	}
}

func TestProcessService_FindByTitle(t *testing.T) {
	t.Run("returns definition with ordered steps", func(t *testing.T) {
		repo := &mockProcessRepo{
			getByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return twoStepDefinition(), nil
			},
		}
		svc := NewProcessService(repo, nopLogger{})

		def, err := svc.FindByTitle(context.Background(), "Budget Request Approval")

		require.NoError(t, err)
		require.Len(t, def.Steps, 2)
		assert.Equal(t, 1, def.FirstStep().StepOrder)
	})

	t.Run("unknown title", func(t *testing.T) {
		repo := &mockProcessRepo{
			getByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return nil, nil
			},
		}
		svc := NewProcessService(repo, nopLogger{})

		_, err := svc.FindByTitle(context.Background(), "No Such Process")

		assert.ErrorIs(t, err, workflow.ErrProcessNotFound)
	})

	t.Run("definition without steps", func(t *testing.T) {
		repo := &mockProcessRepo{
			getByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return &entity.ProcessDefinition{ID: 2, Title: title}, nil
			},
		}
		svc := NewProcessService(repo, nopLogger{})

		_, err := svc.FindByTitle(context.Background(), "Empty Process")

		assert.ErrorIs(t, err, workflow.ErrProcessNotFound)
	})

	t.Run("duplicate step order", func(t *testing.T) {
		repo := &mockProcessRepo{
			getByTitle: func(ctx context.Context, title string) (*entity.ProcessDefinition, error) {
				return &entity.ProcessDefinition{
					ID:    3,
					Title: title,
					Steps: []*entity.ProcessStep{
						{ID: 20, StepOrder: 1},
						{ID: 21, StepOrder: 1},
					},
				}, nil
			},
		}
		svc := NewProcessService(repo, nopLogger{})

		_, err := svc.FindByTitle(context.Background(), "Broken Process")

		assert.ErrorIs(t, err, workflow.ErrProcessMisconfigured)
	})
}

func TestProcessService_ResolveAssignee(t *testing.T) {
	t.Run("returns mapped approver", func(t *testing.T) {
		repo := &mockProcessRepo{
			getApprover: func(ctx context.Context, stepID, requesterID int64) (*entity.StepApprover, error) {
				assert.Equal(t, int64(10), stepID)
				assert.Equal(t, int64(100), requesterID)
				return &entity.StepApprover{ID: 1, StepID: stepID, RequesterID: requesterID, ApproverID: 200}, nil
			},
		}
		svc := NewProcessService(repo, nopLogger{})

		approver, err := svc.ResolveAssignee(context.Background(), 10, 100)

		require.NoError(t, err)
		assert.Equal(t, int64(200), approver)
	})

	t.Run("no mapping configured", func(t *testing.T) {
		repo := &mockProcessRepo{
			getApprover: func(ctx context.Context, stepID, requesterID int64) (*entity.StepApprover, error) {
				return nil, nil
			},
		}
		svc := NewProcessService(repo, nopLogger{})

		_, err := svc.ResolveAssignee(context.Background(), 10, 999)

		assert.ErrorIs(t, err, workflow.ErrAssigneeNotFound)
	})
}
