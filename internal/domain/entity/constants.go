package entity

// Document type tags
const (
	DocumentTypeBudgetRequest = "BUDGET_REQUEST"
	DocumentTypePurchaseOrder = "PURCHASE_ORDER"
	DocumentTypeRFQ           = "RFQ"
	DocumentTypePaymentOrder  = "PAYMENT_ORDER"
)

// Shared document status vocabulary. Per-type overrides live in
// DocumentTypeConfig (e.g. payment orders report PARTIALLY_PAID).
const (
	DocumentStatusDraft    = "DRAFT"
	DocumentStatusPending  = "PENDING"
	DocumentStatusApproved = "APPROVED"
	DocumentStatusRejected = "REJECTED"
)

// Approval transaction statuses
const (
	TransactionStatusPending  = "PENDING"
	TransactionStatusApproved = "APPROVED"
	TransactionStatusRejected = "REJECTED"
	TransactionStatusReferred = "REFERRED"
)

// Decisions an actor can apply to a pending transaction
const (
	DecisionApprove = "APPROVED"
	DecisionReject  = "REJECTED"
	DecisionRefer   = "REFERRED"
)

// ValidDecision reports whether the string is an accepted decision value.
func ValidDecision(d string) bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionRefer:
		return true
	}
	return false
}

// DefaultDocumentTypes is the built-in registry binding each document type
// to its approval process. Maintained here rather than in the database
// because the set of document types is fixed at compile time.
var DefaultDocumentTypes = map[string]DocumentTypeConfig{
	DocumentTypeBudgetRequest: {
		Type:            DocumentTypeBudgetRequest,
		ProcessTitle:    "Budget Request Approval",
		UniquePerPeriod: true,
	},
	DocumentTypePurchaseOrder: {
		Type:         DocumentTypePurchaseOrder,
		ProcessTitle: "Purchase Order Approval",
	},
	DocumentTypeRFQ: {
		Type:         DocumentTypeRFQ,
		ProcessTitle: "RFQ Approval",
	},
	DocumentTypePaymentOrder: {
		Type:           DocumentTypePaymentOrder,
		ProcessTitle:   "Payment Order Approval",
		ApprovedStatus: "APPROVED_FOR_PAYMENT",
	},
}
