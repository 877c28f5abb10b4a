package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkhalil/erpflow/internal/domain/entity"
)

func TestTaskService_CreateForTransaction(t *testing.T) {
	tx := &entity.ApprovalTransaction{
		ID: 1, DocumentID: 5, StepID: 10, StepOrder: 1,
		RequesterID: 100, AssignedTo: 200,
		Status: entity.TransactionStatusPending,
	}
	step := &entity.ProcessStep{ID: 10, ProcessID: 1, StepOrder: 1}
	doc := &entity.Document{ID: 5, Type: entity.DocumentTypeBudgetRequest, Reference: "BR-20260901-100000"}

	t.Run("persists task with deadline and notifies", func(t *testing.T) {
		var created *entity.Task
		notified := false
		repo := &mockTaskRepo{
			create: func(ctx context.Context, task *entity.Task) error {
				task.ID = 7
				created = task
				return nil
			},
		}
		notifier := &mockNotifier{
			notify: func(ctx context.Context, task *entity.Task, d *entity.Document) error {
				notified = true
				assert.Equal(t, int64(7), task.ID)
				assert.Equal(t, doc.Reference, d.Reference)
				return nil
			},
		}
		svc := NewTaskService(repo, notifier, 72*time.Hour, nopLogger{})

		task, err := svc.CreateForTransaction(context.Background(), tx, step, doc)

		require.NoError(t, err)
		assert.True(t, notified)
		assert.Equal(t, int64(200), created.AssignedTo)
		assert.Equal(t, int64(100), created.AssignedFrom)
		assert.Equal(t, entity.TaskUrgencyNormal, task.Urgency)
		require.NotNil(t, task.Deadline)
		assert.WithinDuration(t, time.Now().Add(72*time.Hour), *task.Deadline, time.Minute)
	})

	t.Run("notification failure does not fail the task", func(t *testing.T) {
		repo := &mockTaskRepo{
			create: func(ctx context.Context, task *entity.Task) error {
				task.ID = 8
				return nil
			},
		}
		notifier := &mockNotifier{
			notify: func(ctx context.Context, task *entity.Task, d *entity.Document) error {
				return errors.New("messaging channel down")
			},
		}
		svc := NewTaskService(repo, notifier, time.Hour, nopLogger{})

		task, err := svc.CreateForTransaction(context.Background(), tx, step, doc)

		require.NoError(t, err)
		assert.Equal(t, int64(8), task.ID)
	})

	t.Run("zero deadline window leaves deadline unset", func(t *testing.T) {
		repo := &mockTaskRepo{
			create: func(ctx context.Context, task *entity.Task) error { return nil },
		}
		svc := NewTaskService(repo, &mockNotifier{}, 0, nopLogger{})

		task, err := svc.CreateForTransaction(context.Background(), tx, step, doc)

		require.NoError(t, err)
		assert.Nil(t, task.Deadline)
	})
}

func TestTaskService_MarkRead(t *testing.T) {
	var markedID int64
	repo := &mockTaskRepo{
		markRead: func(ctx context.Context, id int64) error {
			markedID = id
			return nil
		},
	}
	svc := NewTaskService(repo, &mockNotifier{}, time.Hour, nopLogger{})

	err := svc.MarkRead(context.Background(), 33)

	require.NoError(t, err)
	assert.Equal(t, int64(33), markedID)
}
