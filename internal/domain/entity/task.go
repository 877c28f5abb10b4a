package entity

import "time"

// Task is the work item surfaced on an approver's list when a transaction
// becomes pending. Tasks are historical records: they are acknowledged,
// never deleted.
type Task struct {
	ID            int64 `json:"id"`
	TransactionID int64 `json:"transaction_id"`
	DocumentID    int64 `json:"document_id"`
	ProcessID     int64 `json:"process_id"`
	StepID        int64 `json:"step_id"`

	AssignedFrom int64 `json:"assigned_from"`
	AssignedTo   int64 `json:"assigned_to"`

	Urgency    string     `json:"urgency"`
	AssignedAt time.Time  `json:"assigned_at"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Read       bool       `json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task urgency levels
const (
	TaskUrgencyNormal = "NORMAL"
	TaskUrgencyHigh   = "HIGH"
)
