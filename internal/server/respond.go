package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tallyhq/tally/internal/apperr"
)

// errorResponse is the error body shape: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorResponse{Detail: detail})
}

// decodeJSON parses the request body into v, rejecting unknown content.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDomainError maps the closed domain error set 1:1 to status codes.
// Anything outside the set is an unexpected storage failure: logged with
// context and surfaced as a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, apperr.ErrGroupNotFound):
		respondError(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, apperr.ErrExpenseNotFound):
		respondError(w, http.StatusNotFound, "Expense not found")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, apperr.ErrGroupOwnership):
		respondError(w, http.StatusForbidden, "Only the group owner can add members")
	case errors.Is(err, apperr.ErrGroupMembership):
		respondError(w, http.StatusForbidden, "User must belong to the group")
	case errors.Is(err, apperr.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, apperr.ErrDuplicateGroupName):
		respondError(w, http.StatusBadRequest, "Group with this name already exists")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
