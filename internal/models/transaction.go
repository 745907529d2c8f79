package models

import "time"

type TransactionType string

const (
	TxAccess    TransactionType = "Access"
	TxHire      TransactionType = "Hire"
	TxTimesheet TransactionType = "Timesheet"
)

type TransactionStatus string

const (
	TxCompleted TransactionStatus = "Completed"
	TxPending   TransactionStatus = "Pending"
	TxFailed    TransactionStatus = "Failed"
)

type RefundStatus string

const (
	RefundRequested RefundStatus = "Requested"
	RefundApproved  RefundStatus = "Approved"
	RefundRejected  RefundStatus = "Rejected"
)

var RefundReasons = map[string]bool{
	"No Show":          true,
	"Poor Performance": true,
	"Other":            true,
}

// Transaction — append-only payment log entry. Only refund fields change later.
type Transaction struct {
	ID               int64             `json:"id"`
	ClientID         int               `json:"client_id"`
	EmployeeID       *int              `json:"employee_id,omitempty"`
	Date             time.Time         `json:"date"`
	Description      string            `json:"description"`
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
	Status           TransactionStatus `json:"status"`
	Type             TransactionType   `json:"type"`
	Reference        string            `json:"reference"`
	ConfirmationCode string            `json:"payment_confirmation_code,omitempty"`
	RefundStatus     *RefundStatus     `json:"refund_status,omitempty"`
	RefundReason     string            `json:"refund_reason,omitempty"`
	RefundComments   string            `json:"refund_comments,omitempty"`
}
