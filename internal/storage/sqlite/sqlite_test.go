package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func insertUser(t *testing.T, store *Store, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordDigest: "salt$digest", Role: "user"}
	require.NoError(t, store.InsertUser(context.Background(), user))
	return user
}

func TestInsertUserBackfillsIDAndCreatedAt(t *testing.T) {
	store := newStore(t)
	user := insertUser(t, store, "Alex Doe", "alex@example.com")

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := store.FindUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", found.Name)
	assert.Equal(t, "salt$digest", found.PasswordDigest)
}

func TestInsertUserDuplicateEmailCaseInsensitive(t *testing.T) {
	store := newStore(t)
	insertUser(t, store, "Alex Doe", "alex@example.com")

	dup := &models.User{Name: "Other", Email: "ALEX@Example.COM", PasswordDigest: "x$y", Role: "user"}
	err := store.InsertUser(context.Background(), dup)
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
}

func TestFindUserByEmailCaseInsensitive(t *testing.T) {
	store := newStore(t)
	user := insertUser(t, store, "Alex Doe", "alex@example.com")

	found, err := store.FindUserByEmail(context.Background(), "Alex@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = store.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestUpdateUserFields(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	user := insertUser(t, store, "Alex Doe", "alex@example.com")

	age := 30
	bio := "hello"
	err := store.UpdateUserFields(ctx, user.ID, storage.UserUpdate{Age: &age, Bio: &bio})
	require.NoError(t, err)

	found, err := store.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Age)
	assert.Equal(t, 30, *found.Age)
	require.NotNil(t, found.Bio)
	assert.Equal(t, "hello", *found.Bio)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Alex Doe", found.Name)
	assert.Nil(t, found.Gender)

	err = store.UpdateUserFields(ctx, "missing", storage.UserUpdate{Age: &age})
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestListUsersNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := &models.User{
			Name: "U", Email: email, PasswordDigest: "x$y", Role: "user",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.InsertUser(ctx, user))
	}

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c@example.com", users[0].Email)
	assert.Equal(t, "a@example.com", users[2].Email)
}

func TestInsertGroupAndFind(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))
	assert.NotEmpty(t, group.ID)

	found, err := store.FindGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", found.Name)
	assert.Equal(t, []string{owner.ID}, found.MemberIDs)

	byName, err := store.FindGroupByName(ctx, "tRiP")
	require.NoError(t, err)
	assert.Equal(t, group.ID, byName.ID)

	dup := &models.Group{Name: "TRIP", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	assert.ErrorIs(t, store.InsertGroup(ctx, dup), apperr.ErrDuplicateGroupName)
}

func TestListGroupsForMemberSortedByName(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")
	other := insertUser(t, store, "Other", "other@example.com")

	for _, name := range []string{"zeta", "Alpha", "mid"} {
		group := &models.Group{Name: name, OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
		require.NoError(t, store.InsertGroup(ctx, group))
	}

	groups, err := store.ListGroupsForMember(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Alpha", groups[0].Name)
	assert.Equal(t, "mid", groups[1].Name)
	assert.Equal(t, "zeta", groups[2].Name)

	groups, err = store.ListGroupsForMember(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestAddMemberIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")
	friend := insertUser(t, store, "Friend", "friend@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))

	require.NoError(t, store.AddMember(ctx, group.ID, friend.ID))
	require.NoError(t, store.AddMember(ctx, group.ID, friend.ID))

	found, err := store.FindGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, found.MemberIDs, 2)

	assert.ErrorIs(t, store.AddMember(ctx, "missing", friend.ID), apperr.ErrGroupNotFound)
}

func TestExpenseLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))

	expense := &models.Expense{PayerID: owner.ID, Amount: 12.50}
	require.NoError(t, store.InsertExpense(ctx, group.ID, expense))
	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, models.StatusAssigned, expense.Status)

	newAmount := 20.0
	status := models.StatusPaid
	err := store.UpdateExpense(ctx, group.ID, expense.ID, storage.ExpenseUpdate{
		Amount: &newAmount,
		Status: &status,
	})
	require.NoError(t, err)

	expenses, err := store.ListExpensesForGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 20.0, expenses[0].Amount)
	assert.Equal(t, models.StatusPaid, expenses[0].Status)

	err = store.UpdateExpense(ctx, group.ID, "missing", storage.ExpenseUpdate{Amount: &newAmount})
	assert.ErrorIs(t, err, apperr.ErrExpenseNotFound)

	require.NoError(t, store.DeleteExpense(ctx, group.ID, expense.ID))
	assert.ErrorIs(t, store.DeleteExpense(ctx, group.ID, expense.ID), apperr.ErrExpenseNotFound)
}

func TestListExpensesNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))

	base := time.Now().Add(-time.Hour)
	for i, amount := range []float64{1, 2, 3} {
		expense := &models.Expense{
			PayerID:   owner.ID,
			Amount:    amount,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.InsertExpense(ctx, group.ID, expense))
	}

	expenses, err := store.ListExpensesForGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, 3.0, expenses[0].Amount)
	assert.Equal(t, 1.0, expenses[2].Amount)
}

func TestInsertExpenseUnknownGroup(t *testing.T) {
	store := newStore(t)
	expense := &models.Expense{PayerID: "p", Amount: 1}
	err := store.InsertExpense(context.Background(), "missing", expense)
	assert.ErrorIs(t, err, apperr.ErrGroupNotFound)
}
