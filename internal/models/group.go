package models

import "time"

// Group is the stored aggregate: the member ID set plus the expense ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is unique among all groups, compared case-insensitively.
	Name string `json:"name"`

	// OwnerID is the user who created the group. The owner is always a member.
	OwnerID string `json:"owner_id"`

	// Description is optional free text.
	Description *string `json:"description,omitempty"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"created_at"`

	// MemberIDs are the user IDs belonging to this group. Membership only
	// grows: there is no remove operation.
	MemberIDs []string `json:"members"`

	// Expenses is the group's ledger, most recent first.
	Expenses []Expense `json:"expenses"`
}

// GroupSummary is the listing view of a group.
type GroupSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"owner_id"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

// GroupMember is a member entry inside a GroupDetail.
type GroupMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MemberBalance is one member's derived position for a group.
// Positive Balance means the member owes the group; negative means the
// group owes the member.
type MemberBalance struct {
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Paid    float64 `json:"paid"`
	Owed    float64 `json:"owed"`
	Balance float64 `json:"balance"`
}

// GroupDetail is the full group view: members, ledger and computed balances.
// Balances are recomputed from scratch on every read.
type GroupDetail struct {
	GroupSummary

	Members      []GroupMember   `json:"members"`
	Expenses     []ExpenseDetail `json:"expenses"`
	TotalExpense float64         `json:"total_expense"`
	Balances     []MemberBalance `json:"balances"`
}
