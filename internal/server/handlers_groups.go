package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createGroupRequest struct {
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type addMemberRequest struct {
	RequesterID string `json:"requester_id"`
	UserEmail   string `json:"user_email"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OwnerID == "" {
		respondError(w, http.StatusBadRequest, "Owner id is required")
		return
	}
	if name := strings.TrimSpace(req.Name); name == "" || len(name) > 100 {
		respondError(w, http.StatusBadRequest, "Group name must be between 1 and 100 characters")
		return
	}
	if req.Description != nil && len(*req.Description) > 255 {
		respondError(w, http.StatusBadRequest, "Description must be at most 255 characters")
		return
	}

	detail, err := s.groups.Create(r.Context(), req.OwnerID, req.Name, req.Description)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	detail, err := s.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListUserGroups(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.groups.ListForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RequesterID == "" {
		respondError(w, http.StatusBadRequest, "Requester id is required")
		return
	}
	if !validEmail(req.UserEmail) {
		respondError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	detail, err := s.groups.AddMember(r.Context(), chi.URLParam(r, "groupID"), req.RequesterID, req.UserEmail)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}
