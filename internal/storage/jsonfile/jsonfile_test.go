package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "users.json"), filepath.Join(dir, "groups.json"))
	require.NoError(t, err)
	return store, dir
}

func insertUser(t *testing.T, store *Store, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordDigest: "salt$digest", Role: "user"}
	require.NoError(t, store.InsertUser(context.Background(), user))
	return user
}

func TestUsersSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	groupsPath := filepath.Join(dir, "groups.json")

	store, err := New(usersPath, groupsPath)
	require.NoError(t, err)
	user := insertUser(t, store, "Alex Doe", "alex@example.com")
	require.NoError(t, store.Close())

	reopened, err := New(usersPath, groupsPath)
	require.NoError(t, err)
	found, err := reopened.FindUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", found.Name)
	assert.Equal(t, "salt$digest", found.PasswordDigest)
}

func TestInsertUserDuplicateEmailCaseInsensitive(t *testing.T) {
	store, _ := newStore(t)
	insertUser(t, store, "Alex Doe", "alex@example.com")

	dup := &models.User{Name: "Other", Email: "ALEX@Example.COM", PasswordDigest: "x$y", Role: "user"}
	assert.ErrorIs(t, store.InsertUser(context.Background(), dup), apperr.ErrDuplicateEmail)
}

func TestFindUserByEmailCaseInsensitive(t *testing.T) {
	store, _ := newStore(t)
	user := insertUser(t, store, "Alex Doe", "alex@example.com")

	found, err := store.FindUserByEmail(context.Background(), "ALEX@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = store.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestUpdateUserFieldsPartial(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	user := insertUser(t, store, "Alex Doe", "alex@example.com")

	bio := "hello"
	require.NoError(t, store.UpdateUserFields(ctx, user.ID, storage.UserUpdate{Bio: &bio}))

	found, err := store.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Bio)
	assert.Equal(t, "hello", *found.Bio)
	assert.Equal(t, "Alex Doe", found.Name)
	assert.Nil(t, found.Age)

	assert.ErrorIs(t,
		store.UpdateUserFields(ctx, "missing", storage.UserUpdate{Bio: &bio}),
		apperr.ErrUserNotFound)
}

func TestCorruptUsersFileTreatedAsEmpty(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMissingFilesTreatedAsEmpty(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	groups, err := store.ListGroupsForMember(ctx, "anyone")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupLifecycle(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")
	friend := insertUser(t, store, "Friend", "friend@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))
	assert.NotEmpty(t, group.ID)

	dup := &models.Group{Name: "tRiP", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	assert.ErrorIs(t, store.InsertGroup(ctx, dup), apperr.ErrDuplicateGroupName)

	require.NoError(t, store.AddMember(ctx, group.ID, friend.ID))
	require.NoError(t, store.AddMember(ctx, group.ID, friend.ID))

	found, err := store.FindGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, found.MemberIDs, 2)

	byName, err := store.FindGroupByName(ctx, "TRIP")
	require.NoError(t, err)
	assert.Equal(t, group.ID, byName.ID)

	assert.ErrorIs(t, store.AddMember(ctx, "missing", friend.ID), apperr.ErrGroupNotFound)
}

func TestListGroupsForMemberSortedByName(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")

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
}

func TestExpensesNewestFirst(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))

	for _, amount := range []float64{1, 2, 3} {
		expense := &models.Expense{PayerID: owner.ID, Amount: amount}
		require.NoError(t, store.InsertExpense(ctx, group.ID, expense))
		assert.Equal(t, models.StatusAssigned, expense.Status)
	}

	expenses, err := store.ListExpensesForGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, 3.0, expenses[0].Amount)
	assert.Equal(t, 1.0, expenses[2].Amount)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	owner := insertUser(t, store, "Owner", "owner@example.com")

	group := &models.Group{Name: "Trip", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	require.NoError(t, store.InsertGroup(ctx, group))

	expense := &models.Expense{PayerID: owner.ID, Amount: 10}
	require.NoError(t, store.InsertExpense(ctx, group.ID, expense))

	note := "dinner"
	status := models.StatusPaid
	err := store.UpdateExpense(ctx, group.ID, expense.ID, storage.ExpenseUpdate{
		Note:   &note,
		Status: &status,
	})
	require.NoError(t, err)

	expenses, err := store.ListExpensesForGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.NotNil(t, expenses[0].Note)
	assert.Equal(t, "dinner", *expenses[0].Note)
	assert.Equal(t, models.StatusPaid, expenses[0].Status)
	assert.Equal(t, 10.0, expenses[0].Amount)

	amount := 5.0
	err = store.UpdateExpense(ctx, group.ID, "missing", storage.ExpenseUpdate{Amount: &amount})
	assert.ErrorIs(t, err, apperr.ErrExpenseNotFound)

	require.NoError(t, store.DeleteExpense(ctx, group.ID, expense.ID))
	assert.ErrorIs(t, store.DeleteExpense(ctx, group.ID, expense.ID), apperr.ErrExpenseNotFound)
}
