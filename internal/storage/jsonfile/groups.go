package jsonfile

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// InsertGroup appends a new group record with its member list.
func (s *Store) InsertGroup(ctx context.Context, group *models.Group) error {
	groups, err := s.loadGroups()
	if err != nil {
		return err
	}
	for _, record := range groups {
		if strings.EqualFold(record.Name, group.Name) {
			return apperr.ErrDuplicateGroupName
		}
	}

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	groups = append(groups, groupRecord{
		ID:          group.ID,
		Name:        group.Name,
		OwnerID:     group.OwnerID,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
		Members:     append([]string(nil), group.MemberIDs...),
		Expenses:    []expenseRecord{},
	})
	return s.saveGroups(groups)
}

// FindGroupByID returns the full aggregate: member IDs and the ledger.
func (s *Store) FindGroupByID(ctx context.Context, id string) (*models.Group, error) {
	groups, err := s.loadGroups()
	if err != nil {
		return nil, err
	}
	for _, record := range groups {
		if record.ID == id {
			group := groupFromRecord(record)
			return &group, nil
		}
	}
	return nil, apperr.ErrGroupNotFound
}

// FindGroupByName matches case-insensitively; used for uniqueness checks.
func (s *Store) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	groups, err := s.loadGroups()
	if err != nil {
		return nil, err
	}
	for _, record := range groups {
		if strings.EqualFold(record.Name, name) {
			group := groupFromRecord(record)
			return &group, nil
		}
	}
	return nil, apperr.ErrGroupNotFound
}

// ListGroupsForMember returns the groups the user belongs to, ordered by
// name ascending (case-insensitive).
func (s *Store) ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error) {
	records, err := s.loadGroups()
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	for _, record := range records {
		for _, memberID := range record.Members {
			if memberID == userID {
				group := groupFromRecord(record)
				group.Expenses = nil // listings carry members only
				groups = append(groups, group)
				break
			}
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
	return groups, nil
}

// AddMember enrolls the user; adding an existing member is a no-op.
func (s *Store) AddMember(ctx context.Context, groupID, userID string) error {
	groups, err := s.loadGroups()
	if err != nil {
		return err
	}
	index := s.groupIndex(groups, groupID)
	if index < 0 {
		return apperr.ErrGroupNotFound
	}
	for _, memberID := range groups[index].Members {
		if memberID == userID {
			return nil
		}
	}
	groups[index].Members = append(groups[index].Members, userID)
	return s.saveGroups(groups)
}

// InsertExpense records a new expense at the front of the group's ledger.
func (s *Store) InsertExpense(ctx context.Context, groupID string, expense *models.Expense) error {
	groups, err := s.loadGroups()
	if err != nil {
		return err
	}
	index := s.groupIndex(groups, groupID)
	if index < 0 {
		return apperr.ErrGroupNotFound
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	if expense.Status == "" {
		expense.Status = models.StatusAssigned
	}
	expense.GroupID = groupID

	ledger := groups[index].Expenses
	groups[index].Expenses = append([]expenseRecord{recordFromExpense(*expense)}, ledger...)
	return s.saveGroups(groups)
}

// UpdateExpense applies the non-nil fields of update to the expense.
func (s *Store) UpdateExpense(ctx context.Context, groupID, expenseID string, update storage.ExpenseUpdate) error {
	groups, err := s.loadGroups()
	if err != nil {
		return err
	}
	index := s.groupIndex(groups, groupID)
	if index < 0 {
		return apperr.ErrGroupNotFound
	}

	var record *expenseRecord
	for i := range groups[index].Expenses {
		if groups[index].Expenses[i].ID == expenseID {
			record = &groups[index].Expenses[i]
			break
		}
	}
	if record == nil {
		return apperr.ErrExpenseNotFound
	}

	if update.PayerID != nil {
		record.PayerID = *update.PayerID
	}
	if update.Amount != nil {
		record.Amount = *update.Amount
	}
	if update.Note != nil {
		record.Note = update.Note
	}
	if update.Status != nil {
		record.Status = string(*update.Status)
	}
	return s.saveGroups(groups)
}

// DeleteExpense removes the expense from the group's ledger.
func (s *Store) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	groups, err := s.loadGroups()
	if err != nil {
		return err
	}
	index := s.groupIndex(groups, groupID)
	if index < 0 {
		return apperr.ErrGroupNotFound
	}

	ledger := groups[index].Expenses
	for i, record := range ledger {
		if record.ID == expenseID {
			groups[index].Expenses = append(ledger[:i], ledger[i+1:]...)
			return s.saveGroups(groups)
		}
	}
	return apperr.ErrExpenseNotFound
}

// ListExpensesForGroup returns the group's ledger in stored order, which is
// most recent first because inserts go to the front.
func (s *Store) ListExpensesForGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	groups, err := s.loadGroups()
	if err != nil {
		return nil, err
	}
	index := s.groupIndex(groups, groupID)
	if index < 0 {
		return nil, apperr.ErrGroupNotFound
	}
	expenses := make([]models.Expense, 0, len(groups[index].Expenses))
	for _, record := range groups[index].Expenses {
		expenses = append(expenses, expenseFromRecord(record))
	}
	return expenses, nil
}

func (s *Store) groupIndex(groups []groupRecord, groupID string) int {
	for i, record := range groups {
		if record.ID == groupID {
			return i
		}
	}
	return -1
}
