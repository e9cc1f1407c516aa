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

// InsertUser appends a new user record, generating ID and CreatedAt if unset.
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	for _, record := range users {
		if strings.EqualFold(record.Email, user.Email) {
			return apperr.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Role == "" {
		user.Role = "user"
	}

	users = append(users, recordFromUser(*user))
	return s.saveUsers(users)
}

// FindUserByID retrieves a user by ID.
func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, record := range users {
		if record.ID == id {
			user := userFromRecord(record)
			return &user, nil
		}
	}
	return nil, apperr.ErrUserNotFound
}

// FindUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, record := range users {
		if strings.EqualFold(record.Email, email) {
			user := userFromRecord(record)
			return &user, nil
		}
	}
	return nil, apperr.ErrUserNotFound
}

// UpdateUserFields applies the non-nil fields of update to the user record
// and rewrites the collection.
func (s *Store) UpdateUserFields(ctx context.Context, id string, update storage.UserUpdate) error {
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	index := -1
	for i, record := range users {
		if record.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return apperr.ErrUserNotFound
	}

	record := &users[index]
	if update.Name != nil {
		record.Name = *update.Name
	}
	if update.Age != nil {
		record.Age = update.Age
	}
	if update.Gender != nil {
		record.Gender = update.Gender
	}
	if update.Address != nil {
		record.Address = update.Address
	}
	if update.Bio != nil {
		record.Bio = update.Bio
	}
	if update.AvatarURL != nil {
		record.AvatarURL = update.AvatarURL
	}
	return s.saveUsers(users)
}

// ListUsers returns all users ordered by creation time, most recent first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	records, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(records))
	for _, record := range records {
		users = append(users, userFromRecord(record))
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}
