package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/tkhalil/erpflow/internal/application/port"
	"github.com/tkhalil/erpflow/internal/domain/entity"
)

// Messenger delivers task assignment notifications over Lark IM. It
// implements port.Notifier; callers treat failures as best effort.
type Messenger struct {
	client        *Client
	receiveIDType string
	logger        *zap.Logger
}

// NewMessenger creates a new Lark messenger. receiveIDType selects how
// assignee IDs map onto Lark receivers ("user_id" unless the tenant uses
// open IDs).
func NewMessenger(client *Client, receiveIDType string, logger *zap.Logger) *Messenger {
	if receiveIDType == "" {
		receiveIDType = "user_id"
	}
	return &Messenger{
		client:        client,
		receiveIDType: receiveIDType,
		logger:        logger,
	}
}

// NotifyAssignment sends a text message to the task's assignee
func (m *Messenger) NotifyAssignment(ctx context.Context, task *entity.Task, doc *entity.Document) error {
	text := fmt.Sprintf("New approval task: %s %s requires your decision.", doc.Type, doc.Reference)
	if task.Deadline != nil {
		text += fmt.Sprintf(" Due by %s.", task.Deadline.Format("2006-01-02 15:04"))
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode message content: %w", err)
	}

	receiveID := strconv.FormatInt(task.AssignedTo, 10)
	messageID, err := m.sendMessage(ctx, receiveID, "text", string(content))
	if err != nil {
		return err
	}

	m.logger.Info("Assignment notification sent",
		zap.Int64("task_id", task.ID),
		zap.Int64("assigned_to", task.AssignedTo),
		zap.String("message_id", messageID))

	return nil
}

func (m *Messenger) sendMessage(ctx context.Context, receiveID, msgType, content string) (string, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(m.receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := m.client.client.Im.Message.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("receive_id", receiveID),
			zap.Error(err))
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		m.logger.Error("API returned failure",
			zap.String("receive_id", receiveID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return "", fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}

	return messageID, nil
}

// Verify interface compliance
var _ port.Notifier = (*Messenger)(nil)
