package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
)

const groupColumns = "id, name, owner_id, description, created_at"

// InsertGroup persists the group row and one membership row per member ID in
// a single transaction; a partial insert is never observable.
func (s *Store) InsertGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.OwnerID, group.Description, toNanos(group.CreatedAt),
	)
	if isUniqueViolation(err, "groups.name") {
		return apperr.ErrDuplicateGroupName
	}
	if err != nil {
		return apperr.Storage(err)
	}

	for _, userID := range group.MemberIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, userID,
		); err != nil {
			return apperr.Storage(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// FindGroupByID returns the full aggregate: member IDs and the ledger.
func (s *Store) FindGroupByID(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id = ?", id)
	return s.loadGroup(ctx, row)
}

// FindGroupByName matches case-insensitively; used for uniqueness checks.
func (s *Store) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE name = ? COLLATE NOCASE", name)
	return s.loadGroup(ctx, row)
}

// ListGroupsForMember returns the groups the user belongs to, ordered by name
// ascending (case-insensitive). Member IDs are attached per group; the
// ledger is not loaded for listings.
func (s *Store) ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.owner_id, g.description, g.created_at
		FROM groups g
		INNER JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.name COLLATE NOCASE ASC`,
		userID,
	)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}

	for i := range groups {
		memberIDs, err := s.memberIDs(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].MemberIDs = memberIDs
	}
	return groups, nil
}

// AddMember enrolls the user; adding an existing member is a no-op.
func (s *Store) AddMember(ctx context.Context, groupID, userID string) error {
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
		"INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	); err != nil {
		return apperr.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *Store) loadGroup(ctx context.Context, row rowScanner) (*models.Group, error) {
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrGroupNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}

	group.MemberIDs, err = s.memberIDs(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Expenses, err = s.ListExpensesForGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Store) memberIDs(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY rowid", groupID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Storage(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return ids, nil
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var (
		group       models.Group
		description sql.NullString
		createdAt   int64
	)
	if err := row.Scan(&group.ID, &group.Name, &group.OwnerID, &description, &createdAt); err != nil {
		return nil, err
	}
	group.Description = nullableString(description)
	group.CreatedAt = fromNanos(createdAt)
	return &group, nil
}
