package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/service"
)

type addExpenseRequest struct {
	PayerEmail string               `json:"payer_email"`
	Amount     float64              `json:"amount"`
	Note       *string              `json:"note"`
	Status     models.ExpenseStatus `json:"status"`
}

type updateExpenseRequest struct {
	PayerEmail *string               `json:"payer_email"`
	Amount     *float64              `json:"amount"`
	Note       *string               `json:"note"`
	Status     *models.ExpenseStatus `json:"status"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(req.PayerEmail) {
		respondError(w, http.StatusBadRequest, "Invalid payer email")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}
	if req.Note != nil && len(*req.Note) > 255 {
		respondError(w, http.StatusBadRequest, "Note must be at most 255 characters")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid expense status")
		return
	}

	detail, err := s.expenses.Add(r.Context(), chi.URLParam(r, "groupID"), service.ExpenseInput{
		PayerEmail: req.PayerEmail,
		Amount:     req.Amount,
		Note:       req.Note,
		Status:     req.Status,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PayerEmail != nil && !validEmail(*req.PayerEmail) {
		respondError(w, http.StatusBadRequest, "Invalid payer email")
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}
	if req.Note != nil && len(*req.Note) > 255 {
		respondError(w, http.StatusBadRequest, "Note must be at most 255 characters")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid expense status")
		return
	}

	detail, err := s.expenses.Update(r.Context(),
		chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"),
		service.ExpenseUpdateInput{
			PayerEmail: req.PayerEmail,
			Amount:     req.Amount,
			Note:       req.Note,
			Status:     req.Status,
		})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	detail, err := s.expenses.Delete(r.Context(),
		chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}
