package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
)

func balanceFor(t *testing.T, detail *models.GroupDetail, userID string) models.MemberBalance {
	t.Helper()
	for _, b := range detail.Balances {
		if b.UserID == userID {
			return b
		}
	}
	t.Fatalf("no balance entry for user %s", userID)
	return models.MemberBalance{}
}

func TestAddExpenseRecomputesBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	casey := env.signup(t, "Casey", "casey@example.com")
	alex := env.signup(t, "Alex", "alex@example.com")
	group := env.createGroup(t, casey.ID, "Trip")
	_, err := env.groups.AddMember(ctx, group.ID, casey.ID, "alex@example.com")
	require.NoError(t, err)

	detail, err := env.expenses.Add(ctx, group.ID, ExpenseInput{
		PayerEmail: "casey@example.com",
		Amount:     42.75,
	})
	require.NoError(t, err)

	assert.Equal(t, 42.75, detail.TotalExpense)
	require.Len(t, detail.Expenses, 1)
	assert.Equal(t, "Casey", detail.Expenses[0].PayerName)
	assert.Equal(t, models.StatusAssigned, detail.Expenses[0].Status)

	caseyBal := balanceFor(t, detail, casey.ID)
	assert.Equal(t, 42.75, caseyBal.Paid)
	assert.Equal(t, 21.38, caseyBal.Owed)
	assert.Equal(t, -21.37, caseyBal.Balance)

	alexBal := balanceFor(t, detail, alex.ID)
	assert.Equal(t, 0.0, alexBal.Paid)
	assert.Equal(t, 21.38, alexBal.Owed)
	assert.Equal(t, 21.38, alexBal.Balance)
}

func TestAddExpensePayerMustBeMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "Owner", "owner@example.com")
	env.signup(t, "Stranger", "stranger@example.com")
	group := env.createGroup(t, owner.ID, "Trip")

	_, err := env.expenses.Add(ctx, group.ID, ExpenseInput{
		PayerEmail: "stranger@example.com",
		Amount:     10,
	})
	assert.ErrorIs(t, err, apperr.ErrGroupMembership)

	// The rejected expense must not appear in the ledger.
	detail, err := env.groups.Get(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Expenses)
	assert.Zero(t, detail.TotalExpense)
}

func TestAddExpenseUnknownGroup(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Owner", "owner@example.com")

	_, err := env.expenses.Add(context.Background(), "missing", ExpenseInput{
		PayerEmail: "owner@example.com",
		Amount:     10,
	})
	assert.ErrorIs(t, err, apperr.ErrGroupNotFound)
}

func TestUpdateExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "Owner", "owner@example.com")
	group := env.createGroup(t, owner.ID, "Trip")

	detail, err := env.expenses.Add(ctx, group.ID, ExpenseInput{
		PayerEmail: "owner@example.com",
		Amount:     10,
	})
	require.NoError(t, err)
	expenseID := detail.Expenses[0].ID

	amount := 25.0
	status := models.StatusPaid
	detail, err = env.expenses.Update(ctx, group.ID, expenseID, ExpenseUpdateInput{
		Amount: &amount,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, detail.Expenses[0].Amount)
	assert.Equal(t, models.StatusPaid, detail.Expenses[0].Status)
	assert.Equal(t, 25.0, detail.TotalExpense)

	_, err = env.expenses.Update(ctx, group.ID, "missing", ExpenseUpdateInput{Amount: &amount})
	assert.ErrorIs(t, err, apperr.ErrExpenseNotFound)
}

func TestUpdateExpensePayerReassignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "Owner", "owner@example.com")
	friend := env.signup(t, "Friend", "friend@example.com")
	env.signup(t, "Stranger", "stranger@example.com")
	group := env.createGroup(t, owner.ID, "Trip")
	_, err := env.groups.AddMember(ctx, group.ID, owner.ID, "friend@example.com")
	require.NoError(t, err)

	detail, err := env.expenses.Add(ctx, group.ID, ExpenseInput{
		PayerEmail: "owner@example.com",
		Amount:     10,
	})
	require.NoError(t, err)
	expenseID := detail.Expenses[0].ID

	friendEmail := "friend@example.com"
	detail, err = env.expenses.Update(ctx, group.ID, expenseID, ExpenseUpdateInput{
		PayerEmail: &friendEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, friend.ID, detail.Expenses[0].PayerID)
	assert.Equal(t, "Friend", detail.Expenses[0].PayerName)

	strangerEmail := "stranger@example.com"
	_, err = env.expenses.Update(ctx, group.ID, expenseID, ExpenseUpdateInput{
		PayerEmail: &strangerEmail,
	})
	assert.ErrorIs(t, err, apperr.ErrGroupMembership)
}

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "Owner", "owner@example.com")
	group := env.createGroup(t, owner.ID, "Trip")

	detail, err := env.expenses.Add(ctx, group.ID, ExpenseInput{
		PayerEmail: "owner@example.com",
		Amount:     10,
	})
	require.NoError(t, err)
	expenseID := detail.Expenses[0].ID

	detail, err = env.expenses.Delete(ctx, group.ID, expenseID)
	require.NoError(t, err)
	assert.Empty(t, detail.Expenses)
	assert.Zero(t, detail.TotalExpense)
	ownerBal := balanceFor(t, detail, owner.ID)
	assert.Zero(t, ownerBal.Paid)
	assert.Zero(t, ownerBal.Owed)
	assert.Zero(t, ownerBal.Balance)

	_, err = env.expenses.Delete(ctx, group.ID, expenseID)
	assert.ErrorIs(t, err, apperr.ErrExpenseNotFound)
}
