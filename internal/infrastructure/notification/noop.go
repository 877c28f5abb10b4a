package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// NoopNotifier satisfies port.Notifier when no messaging channel is
// configured. Assignments are still visible through the task inbox.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a notifier that only logs
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

// NotifyAssignment logs the assignment and returns nil
func (n *NoopNotifier) NotifyAssignment(ctx context.Context, task *entity.Task, doc *entity.Document) error {
	n.logger.Debug("Notification channel disabled, skipping assignment message",
		zap.Int64("task_id", task.ID),
		zap.Int64("assigned_to", task.AssignedTo))
	return nil
}

// Verify interface compliance
var _ port.Notifier = (*NoopNotifier)(nil)
