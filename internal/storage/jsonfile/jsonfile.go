// Package jsonfile provides the flat-file implementation of storage.Store,
// intended for single-process local development.
//
// The two collections (users, groups with embedded expenses) are each one
// JSON document on disk. Every mutating call reads the entire collection,
// mutates it in memory and writes it back whole. There is no locking against
// concurrent writers: concurrent mutations can race on the shared documents
// and silently lose writes. A missing, empty or unparsable file is treated
// as an empty collection.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store over two JSON documents.
type Store struct {
	usersPath  string
	groupsPath string
}

// New creates a Store over the given document paths, creating parent
// directories as needed. The files themselves are created lazily on first
// write.
func New(usersPath, groupsPath string) (*Store, error) {
	for _, path := range []string{usersPath, groupsPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &Store{usersPath: usersPath, groupsPath: groupsPath}, nil
}

// Close is a no-op; the store holds no open resources between calls.
func (s *Store) Close() error {
	return nil
}

// userRecord is the persisted shape of a user. Unlike models.User it
// serializes the password digest.
type userRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"password_hash"`
	Role           string    `json:"role"`
	Age            *int      `json:"age"`
	Gender         *string   `json:"gender"`
	Address        *string   `json:"address"`
	Bio            *string   `json:"bio"`
	AvatarURL      *string   `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type expenseRecord struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	PayerID   string    `json:"payer_id"`
	Amount    float64   `json:"amount"`
	Note      *string   `json:"note"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// groupRecord embeds the member ID list and the expense ledger, newest
// expense first.
type groupRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	OwnerID     string          `json:"owner_id"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	Members     []string        `json:"members"`
	Expenses    []expenseRecord `json:"expenses"`
}

// loadCollection reads a whole JSON document into out. Missing, empty and
// corrupt files all yield the empty collection; the leniency is deliberate
// so a broken local file never wedges development.
func loadCollection[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

// saveCollection writes the whole document back. Not atomic: a failure
// mid-write can corrupt the collection, an accepted risk of this mode.
func saveCollection[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperr.Storage(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *Store) loadUsers() ([]userRecord, error) {
	return loadCollection[userRecord](s.usersPath)
}

func (s *Store) saveUsers(users []userRecord) error {
	return saveCollection(s.usersPath, users)
}

func (s *Store) loadGroups() ([]groupRecord, error) {
	return loadCollection[groupRecord](s.groupsPath)
}

func (s *Store) saveGroups(groups []groupRecord) error {
	return saveCollection(s.groupsPath, groups)
}

func userFromRecord(r userRecord) models.User {
	role := r.Role
	if role == "" {
		role = "user"
	}
	return models.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		PasswordDigest: r.PasswordDigest,
		Role:           role,
		Age:            r.Age,
		Gender:         r.Gender,
		Address:        r.Address,
		Bio:            r.Bio,
		AvatarURL:      r.AvatarURL,
		CreatedAt:      r.CreatedAt,
	}
}

func recordFromUser(u models.User) userRecord {
	return userRecord{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordDigest: u.PasswordDigest,
		Role:           u.Role,
		Age:            u.Age,
		Gender:         u.Gender,
		Address:        u.Address,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		CreatedAt:      u.CreatedAt,
	}
}

func expenseFromRecord(r expenseRecord) models.Expense {
	status := r.Status
	if status == "" {
		status = string(models.StatusAssigned)
	}
	return models.Expense{
		ID:        r.ID,
		GroupID:   r.GroupID,
		PayerID:   r.PayerID,
		Amount:    r.Amount,
		Note:      r.Note,
		Status:    models.ExpenseStatus(status),
		CreatedAt: r.CreatedAt,
	}
}

func recordFromExpense(e models.Expense) expenseRecord {
	return expenseRecord{
		ID:        e.ID,
		GroupID:   e.GroupID,
		PayerID:   e.PayerID,
		Amount:    e.Amount,
		Note:      e.Note,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

func groupFromRecord(r groupRecord) models.Group {
	expenses := make([]models.Expense, 0, len(r.Expenses))
	for _, e := range r.Expenses {
		expenses = append(expenses, expenseFromRecord(e))
	}
	return models.Group{
		ID:          r.ID,
		Name:        r.Name,
		OwnerID:     r.OwnerID,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		MemberIDs:   append([]string(nil), r.Members...),
		Expenses:    expenses,
	}
}
