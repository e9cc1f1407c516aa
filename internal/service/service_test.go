package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/notify"
	"github.com/tallyhq/tally/internal/storage/jsonfile"
)

type testEnv struct {
	users    *UserService
	groups   *GroupService
	expenses *ExpenseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := jsonfile.New(filepath.Join(dir, "users.json"), filepath.Join(dir, "groups.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	users := NewUserService(store, notify.NewLogNotifier())
	groups := NewGroupService(store)
	return &testEnv{
		users:    users,
		groups:   groups,
		expenses: NewExpenseService(store, groups),
	}
}

func (e *testEnv) signup(t *testing.T, name, email string) *models.UserProfile {
	t.Helper()
	profile, err := e.users.Signup(context.Background(), name, email, "password1")
	require.NoError(t, err)
	return profile
}

func (e *testEnv) createGroup(t *testing.T, ownerID, name string) *models.GroupDetail {
	t.Helper()
	detail, err := e.groups.Create(context.Background(), ownerID, name, nil)
	require.NoError(t, err)
	return detail
}
