package models

import "time"

// ExpenseStatus enumerates the workflow states an expense can be in.
// No transition rules are enforced: any value can be set at any time.
type ExpenseStatus string

const (
	StatusAssigned ExpenseStatus = "assigned"
	StatusPaid     ExpenseStatus = "paid"
	StatusRefunded ExpenseStatus = "refunded"
	StatusApproved ExpenseStatus = "approved"
	StatusClaimed  ExpenseStatus = "claimed"
	StatusDenied   ExpenseStatus = "denied"
)

// Valid reports whether s is one of the known statuses.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case StatusAssigned, StatusPaid, StatusRefunded, StatusApproved, StatusClaimed, StatusDenied:
		return true
	}
	return false
}

// Expense is a single amount paid by one group member on behalf of the group.
// The payer must be a member of the owning group at creation time and at any
// later payer reassignment.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group.
	GroupID string `json:"group_id"`

	// PayerID is the member who paid.
	PayerID string `json:"payer_id"`

	// Amount is strictly positive and currency-agnostic.
	Amount float64 `json:"amount"`

	// Note is optional free text.
	Note *string `json:"note,omitempty"`

	// Status is the workflow state, defaulting to "assigned".
	Status ExpenseStatus `json:"status"`

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseDetail is the API-facing view of an expense with the payer resolved.
type ExpenseDetail struct {
	ID         string        `json:"id"`
	GroupID    string        `json:"group_id"`
	PayerID    string        `json:"payer_id"`
	PayerName  string        `json:"payer_name"`
	PayerEmail string        `json:"payer_email"`
	Amount     float64       `json:"amount"`
	Note       *string       `json:"note,omitempty"`
	Status     ExpenseStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
