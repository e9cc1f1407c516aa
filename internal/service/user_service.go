// Package service implements the domain services: invariant enforcement and
// orchestration of the storage backend and the balance engine. Services hold
// no state across calls and return only the apperr error kinds.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/tallyhq/tally/internal/apperr"
	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/notify"
	"github.com/tallyhq/tally/internal/storage"
)

// UserService handles signup, authentication and profile management.
type UserService struct {
	store    storage.Store
	notifier notify.Notifier
}

// NewUserService creates a UserService with the given storage backend and
// notifier.
func NewUserService(store storage.Store, notifier notify.Notifier) *UserService {
	return &UserService{store: store, notifier: notifier}
}

// Signup registers a new account. The name is normalized, the password is
// stored as a salted digest, and the welcome email and admin notification
// are best-effort: their failure never fails the signup.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*models.UserProfile, error) {
	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           normalizeName(name),
		Email:          email,
		PasswordDigest: digest,
		Role:           "user",
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		slog.WarnContext(ctx, "signup failed", "email", email, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "user created", "user_id", user.ID, "email", user.Email)

	if err := s.notifier.SendWelcomeEmail(ctx, user.Email); err != nil {
		slog.WarnContext(ctx, "welcome email failed", "email", user.Email, "error", err)
	}
	if err := s.notifier.NotifyAdmin(ctx, "New signup: "+user.Email); err != nil {
		slog.WarnContext(ctx, "admin notification failed", "error", err)
	}

	return s.profile(ctx, user)
}

// Authenticate verifies the credentials and returns the profile. Unknown
// email and digest mismatch are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.UserProfile, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			slog.WarnContext(ctx, "login failed", "email", email)
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, user.PasswordDigest) {
		slog.WarnContext(ctx, "login failed", "email", email)
		return nil, apperr.ErrInvalidCredentials
	}
	slog.InfoContext(ctx, "login success", "email", email)
	return s.profile(ctx, user)
}

// GetProfile returns the user with current group memberships attached.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

// UpdateProfile applies the provided fields; omitted fields are untouched.
// Writing a value identical to the stored one is a valid no-op success.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update storage.UserUpdate) (*models.UserProfile, error) {
	if update.Name != nil {
		normalized := normalizeName(*update.Name)
		update.Name = &normalized
	}
	if err := s.store.UpdateUserFields(ctx, id, update); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "profile updated", "user_id", id)
	return s.GetProfile(ctx, id)
}

// UpdateAvatar stores the new avatar URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.UserProfile, error) {
	if err := s.store.UpdateUserFields(ctx, id, storage.UserUpdate{AvatarURL: &avatarURL}); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "avatar updated", "user_id", id)
	return s.GetProfile(ctx, id)
}

// ListAll returns all profiles, most recently created first. Memberships are
// attached per user; the fan-out is acceptable at expected user counts.
func (s *UserService) ListAll(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profile, err := s.profile(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// profile attaches the user's group summaries to the public view.
func (s *UserService) profile(ctx context.Context, user *models.User) (*models.UserProfile, error) {
	groups, err := s.store.ListGroupsForMember(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.GroupSummary, 0, len(groups))
	for i := range groups {
		summaries = append(summaries, summaryOf(&groups[i]))
	}
	return &models.UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Age:       user.Age,
		Gender:    user.Gender,
		Address:   user.Address,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		Groups:    summaries,
	}, nil
}

// normalizeName trims the name and capitalizes each whitespace-separated
// token, lowercasing the rest of each token.
func normalizeName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return strings.TrimSpace(name)
	}
	for i, field := range fields {
		runes := []rune(strings.ToLower(field))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
