// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/tallyhq/tally/internal/models"
)

// UserUpdate is a partial update of a user's mutable fields. Nil fields are
// left unchanged.
type UserUpdate struct {
	Name      *string
	Age       *int
	Gender    *string
	Address   *string
	Bio       *string
	AvatarURL *string
}

// ExpenseUpdate is a partial update of an expense. Nil fields are left
// unchanged. PayerID membership is validated by the service layer before
// this reaches a store.
type ExpenseUpdate struct {
	PayerID *string
	Amount  *float64
	Note    *string
	Status  *models.ExpenseStatus
}

// Store is the contract both storage backends implement. The backend is
// chosen once at process start and injected into the services; the services
// are written against this interface only.
//
// Stores return the apperr error kinds for expected conditions (not found,
// duplicates) and wrap everything else as apperr.ErrStorageUnavailable.
// Inserts backfill ID and CreatedAt when unset.
type Store interface {
	// FindUserByID returns apperr.ErrUserNotFound if the id is unknown.
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	// FindUserByEmail matches case-insensitively and returns
	// apperr.ErrUserNotFound if no user has the email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// InsertUser fails with apperr.ErrDuplicateEmail if the email is already
	// present (case-insensitive).
	InsertUser(ctx context.Context, user *models.User) error

	// UpdateUserFields applies the non-nil fields of update and fails with
	// apperr.ErrUserNotFound if the id is unknown. Writing a value equal to
	// the stored one is a valid no-op.
	UpdateUserFields(ctx context.Context, id string, update UserUpdate) error

	// ListUsers returns all users ordered by creation time, most recent first.
	ListUsers(ctx context.Context) ([]models.User, error)

	// FindGroupByID returns the full aggregate (member ids and ledger) or
	// apperr.ErrGroupNotFound.
	FindGroupByID(ctx context.Context, id string) (*models.Group, error)

	// FindGroupByName matches case-insensitively; used for uniqueness checks.
	FindGroupByName(ctx context.Context, name string) (*models.Group, error)

	// InsertGroup persists the group and one membership row per entry in
	// MemberIDs, atomically where the backend supports it. Fails with
	// apperr.ErrDuplicateGroupName on a case-insensitive name clash.
	InsertGroup(ctx context.Context, group *models.Group) error

	// ListGroupsForMember returns the groups the user belongs to, ordered by
	// name ascending (case-insensitive). The returned aggregates carry
	// member ids but not the ledger.
	ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error)

	// AddMember is idempotent: adding an existing member is a no-op.
	// Fails with apperr.ErrGroupNotFound if the group is unknown.
	AddMember(ctx context.Context, groupID, userID string) error

	// InsertExpense records a new expense at the front of the group's ledger.
	InsertExpense(ctx context.Context, groupID string, expense *models.Expense) error

	// UpdateExpense applies the non-nil fields of update and fails with
	// apperr.ErrExpenseNotFound if the expense does not belong to the group.
	UpdateExpense(ctx context.Context, groupID, expenseID string, update ExpenseUpdate) error

	// DeleteExpense fails with apperr.ErrExpenseNotFound if the expense does
	// not belong to the group.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// ListExpensesForGroup returns the group's ledger, most recent first.
	ListExpensesForGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
