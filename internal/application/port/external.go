package port

import (
	"context"

	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// Notifier delivers a work-item notification to an assignee. Delivery is
// best effort: a failed notification never fails the workflow operation
// that produced the task.
type Notifier interface {
	NotifyAssignment(ctx context.Context, task *entity.Task, doc *entity.Document) error
}
