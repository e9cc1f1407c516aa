package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

const expenseColumns = "id, group_id, payer_id, amount, note, status, created_at"

// InsertExpense records a new expense for the group.
func (s *Store) InsertExpense(ctx context.Context, groupID string, expense *models.Expense) error {
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrGroupNotFound
	}
	if err != nil {
		return apperr.Storage(err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.PayerID, expense.Amount,
		expense.Note, string(expense.Status), toNanos(expense.CreatedAt),
	); err != nil {
		return apperr.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// UpdateExpense applies the non-nil fields of update to the expense.
func (s *Store) UpdateExpense(ctx context.Context, groupID, expenseID string, update storage.ExpenseUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM expenses WHERE id = ? AND group_id = ?", expenseID, groupID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrExpenseNotFound
	}
	if err != nil {
		return apperr.Storage(err)
	}

	var sets []string
	var args []any
	if update.PayerID != nil {
		sets = append(sets, "payer_id = ?")
		args = append(args, *update.PayerID)
	}
	if update.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *update.Amount)
	}
	if update.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *update.Note)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*update.Status))
	}

	if len(sets) > 0 {
		args = append(args, expenseID, groupID)
		if _, err := tx.ExecContext(ctx,
			"UPDATE expenses SET "+strings.Join(sets, ", ")+" WHERE id = ? AND group_id = ?",
			args...,
		); err != nil {
			return apperr.Storage(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteExpense removes the expense from the group's ledger.
func (s *Store) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?", expenseID, groupID)
	if err != nil {
		return apperr.Storage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if n == 0 {
		return apperr.ErrExpenseNotFound
	}
	return nil
}

// ListExpensesForGroup returns the group's ledger, most recent first.
func (s *Store) ListExpensesForGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at DESC",
		groupID,
	)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var (
			expense   models.Expense
			note      sql.NullString
			status    string
			createdAt int64
		)
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID,
			&expense.Amount, &note, &status, &createdAt); err != nil {
			return nil, apperr.Storage(err)
		}
		expense.Note = nullableString(note)
		expense.Status = models.ExpenseStatus(status)
		expense.CreatedAt = fromNanos(createdAt)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return expenses, nil
}
