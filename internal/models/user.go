package models

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name, normalized so each word is capitalized.
	Name string `json:"name"`

	// Email is unique across all users, compared case-insensitively.
	Email string `json:"email"`

	// PasswordDigest is the salted credential digest. It is never
	// serialized in API responses.
	PasswordDigest string `json:"-"`

	// Role is the account role. New signups get "user".
	Role string `json:"role"`

	// Optional profile fields. Nil means the field was never set.
	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Address   *string `json:"address,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile is the API-facing view of a user with group summaries attached.
type UserProfile struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      string         `json:"role"`
	Age       *int           `json:"age,omitempty"`
	Gender    *string        `json:"gender,omitempty"`
	Address   *string        `json:"address,omitempty"`
	Bio       *string        `json:"bio,omitempty"`
	AvatarURL *string        `json:"avatar_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Groups    []GroupSummary `json:"groups"`
}
