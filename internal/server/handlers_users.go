package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/storage"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Gender  *string `json:"gender"`
	Address *string `json:"address"`
	Bio     *string `json:"bio"`
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if name := strings.TrimSpace(req.Name); name == "" || len(name) > 100 {
		respondError(w, http.StatusBadRequest, "Name must be between 1 and 100 characters")
		return
	}
	if !validEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 128 {
		respondError(w, http.StatusBadRequest, "Password must be between 6 and 128 characters")
		return
	}

	profile, err := s.users.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(req.Email) || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	profile, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.users.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name == "" || len(name) > 100 {
			respondError(w, http.StatusBadRequest, "Name must be between 1 and 100 characters")
			return
		}
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 120) {
		respondError(w, http.StatusBadRequest, "Age must be between 0 and 120")
		return
	}
	if req.Gender != nil && len(*req.Gender) > 50 {
		respondError(w, http.StatusBadRequest, "Gender must be at most 50 characters")
		return
	}
	if req.Address != nil && len(*req.Address) > 255 {
		respondError(w, http.StatusBadRequest, "Address must be at most 255 characters")
		return
	}
	if req.Bio != nil && len(*req.Bio) > 500 {
		respondError(w, http.StatusBadRequest, "Bio must be at most 500 characters")
		return
	}

	profile, err := s.users.UpdateProfile(r.Context(), chi.URLParam(r, "userID"), storage.UserUpdate{
		Name:    req.Name,
		Age:     req.Age,
		Gender:  req.Gender,
		Address: req.Address,
		Bio:     req.Bio,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// allowedAvatarTypes are the accepted upload content types.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Avatar file is required")
		return
	}
	defer file.Close()

	if !allowedAvatarTypes[header.Header.Get("Content-Type")] {
		respondError(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	userID := chi.URLParam(r, "userID")
	avatarURL, err := s.avatars.Save(userID, header.Filename, file)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	profile, err := s.users.UpdateAvatar(r.Context(), userID, avatarURL)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
