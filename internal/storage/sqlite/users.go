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

const userColumns = "id, name, email, password_digest, role, age, gender, address, bio, avatar_url, created_at"

// InsertUser persists a new user, generating ID and CreatedAt if unset.
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Role == "" {
		user.Role = "user"
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordDigest, user.Role,
		user.Age, user.Gender, user.Address, user.Bio, user.AvatarURL,
		toNanos(user.CreatedAt),
	)
	if isUniqueViolation(err, "users.email") {
		return apperr.ErrDuplicateEmail
	}
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// FindUserByID retrieves a user by ID.
func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return user, nil
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? COLLATE NOCASE", email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return user, nil
}

// UpdateUserFields applies the non-nil fields of update to the user row.
func (s *Store) UpdateUserFields(ctx context.Context, id string, update storage.UserUpdate) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Age != nil {
		add("age", *update.Age)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}
	if update.Address != nil {
		add("address", *update.Address)
	}
	if update.Bio != nil {
		add("bio", *update.Bio)
	}
	if update.AvatarURL != nil {
		add("avatar_url", *update.AvatarURL)
	}

	if len(sets) == 0 {
		return s.userExists(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return apperr.Storage(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.userExists(ctx, id)
	}
	return nil
}

// ListUsers returns all users ordered by creation time, most recent first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return users, nil
}

func (s *Store) userExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrUserNotFound
	}
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user      models.User
		age       sql.NullInt64
		gender    sql.NullString
		address   sql.NullString
		bio       sql.NullString
		avatarURL sql.NullString
		createdAt int64
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordDigest,
		&user.Role, &age, &gender, &address, &bio, &avatarURL, &createdAt)
	if err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	user.Gender = nullableString(gender)
	user.Address = nullableString(address)
	user.Bio = nullableString(bio)
	user.AvatarURL = nullableString(avatarURL)
	user.CreatedAt = fromNanos(createdAt)
	return &user, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
