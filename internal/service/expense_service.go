package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// ExpenseInput carries the fields for adding an expense. Status defaults to
// "assigned" when empty.
type ExpenseInput struct {
	PayerEmail string
	Amount     float64
	Note       *string
	Status     models.ExpenseStatus
}

// ExpenseUpdateInput is a partial expense update; nil fields are untouched.
// A payer change re-validates group membership.
type ExpenseUpdateInput struct {
	PayerEmail *string
	Amount     *float64
	Note       *string
	Status     *models.ExpenseStatus
}

// ExpenseService handles the group expense ledger. Every mutation returns
// the freshly recomputed GroupDetail so the client never needs a second
// fetch.
type ExpenseService struct {
	store  storage.Store
	groups *GroupService
}

// NewExpenseService creates an ExpenseService with the given storage backend
// and group service.
func NewExpenseService(store storage.Store, groups *GroupService) *ExpenseService {
	return &ExpenseService{store: store, groups: groups}
}

// Add records a new expense paid by the member with the given email. The
// payer must belong to the group.
func (s *ExpenseService) Add(ctx context.Context, groupID string, input ExpenseInput) (*models.GroupDetail, error) {
	group, err := s.store.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	payer, err := s.store.FindUserByEmail(ctx, input.PayerEmail)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(group.MemberIDs, payer.ID) {
		slog.WarnContext(ctx, "expense rejected: payer not a member",
			"group_id", groupID, "payer_id", payer.ID)
		return nil, apperr.ErrGroupMembership
	}

	status := input.Status
	if status == "" {
		status = models.StatusAssigned
	}
	expense := &models.Expense{
		GroupID: groupID,
		PayerID: payer.ID,
		Amount:  input.Amount,
		Note:    input.Note,
		Status:  status,
	}
	if err := s.store.InsertExpense(ctx, groupID, expense); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "expense added",
		"group_id", groupID, "expense_id", expense.ID, "amount", expense.Amount)
	return s.groups.Get(ctx, groupID)
}

// Update applies the provided fields to an existing expense. A payer email
// in the update is re-validated exactly like Add.
func (s *ExpenseService) Update(ctx context.Context, groupID, expenseID string, input ExpenseUpdateInput) (*models.GroupDetail, error) {
	group, err := s.store.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(group.Expenses, func(e models.Expense) bool { return e.ID == expenseID }) {
		return nil, apperr.ErrExpenseNotFound
	}

	update := storage.ExpenseUpdate{
		Amount: input.Amount,
		Note:   input.Note,
		Status: input.Status,
	}
	if input.PayerEmail != nil {
		payer, err := s.store.FindUserByEmail(ctx, *input.PayerEmail)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(group.MemberIDs, payer.ID) {
			slog.WarnContext(ctx, "payer reassignment rejected: not a member",
				"group_id", groupID, "payer_id", payer.ID)
			return nil, apperr.ErrGroupMembership
		}
		update.PayerID = &payer.ID
	}

	if err := s.store.UpdateExpense(ctx, groupID, expenseID, update); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "expense updated", "group_id", groupID, "expense_id", expenseID)
	return s.groups.Get(ctx, groupID)
}

// Delete removes the expense from the group's ledger.
func (s *ExpenseService) Delete(ctx context.Context, groupID, expenseID string) (*models.GroupDetail, error) {
	if _, err := s.store.FindGroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpense(ctx, groupID, expenseID); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "expense deleted", "group_id", groupID, "expense_id", expenseID)
	return s.groups.Get(ctx, groupID)
}
