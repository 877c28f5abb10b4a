package entity

import "time"

// Document is a business record routed through approval: a budget request,
// purchase order, RFQ, or payment order. The workflow engine owns every
// status change after submission; handlers may only mutate drafts.
type Document struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Status    string `json:"status"`

	RequesterID int64 `json:"requester_id"`

	// Organizational keys. Together with FiscalPeriodID they form the
	// hierarchical-uniqueness composite key for types that enforce it.
	DepartmentID   int64  `json:"department_id"`
	CostCenterID   int64  `json:"cost_center_id"`
	SubCostCenter  string `json:"sub_cost_center,omitempty"`
	FiscalPeriodID int64  `json:"fiscal_period_id"`
	SupplierID     *int64 `json:"supplier_id,omitempty"`

	// Amount is a decimal string carried through untouched; the service
	// applies no currency rounding.
	Amount        string `json:"amount"`
	Justification string `json:"justification,omitempty"`

	AttachmentCount int `json:"attachment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDraft reports whether the document can still be edited and submitted.
func (d *Document) IsDraft() bool {
	return d.Status == DocumentStatusDraft
}

// DocumentTypeConfig describes how one document type binds to the workflow:
// which process routes it, which status labels it uses, and whether the
// hierarchical-uniqueness check applies on submit.
type DocumentTypeConfig struct {
	Type            string
	ProcessTitle    string
	PendingStatus   string
	ApprovedStatus  string
	RejectedStatus  string
	UniquePerPeriod bool
}

// StatusFor maps a terminal or in-flight workflow outcome to the type's
// status vocabulary, falling back to the shared defaults.
func (c DocumentTypeConfig) StatusFor(outcome string) string {
	switch outcome {
	case DocumentStatusPending:
		if c.PendingStatus != "" {
			return c.PendingStatus
		}
	case DocumentStatusApproved:
		if c.ApprovedStatus != "" {
			return c.ApprovedStatus
		}
	case DocumentStatusRejected:
		if c.RejectedStatus != "" {
			return c.RejectedStatus
		}
	}
	return outcome
}
