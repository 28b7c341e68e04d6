package http

import (
	"net/http"
	"strconv"

	"moneta/internal/core"
	"moneta/internal/form"
	"moneta/internal/view"
)

type accountDetail struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Summary      core.Summary       `json:"summary"`
	Transactions []core.Transaction `json:"transactions"`
	Pagination   view.Pagination    `json:"pagination"`
	Query        string             `json:"query,omitempty"`
}

// handleAccountDetail returns one account with its transactions projected
// through the shared transactions view.
func (s *Server) handleAccountDetail(w http.ResponseWriter, r *http.Request) {
	a, ok := s.svc.Account(r.PathValue("id"))
	if !ok {
		writeError(w, core.ErrAccountNotFound)
		return
	}

	s.viewMu.Lock()
	applyListParams(&s.txView.ListState, r)
	visible, page := s.txView.Visible(a.Transactions)
	query := s.txView.Query
	s.viewMu.Unlock()

	writeJSON(w, http.StatusOK, accountDetail{
		ID:           a.ID,
		Name:         a.Name,
		Summary:      core.Summarize(a),
		Transactions: visible,
		Pagination:   page,
		Query:        query,
	})
}

type transactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	desc, amount, typ, err := form.TransactionInput{
		Description: in.Description,
		Amount:      in.Amount,
		Type:        core.TransactionType(in.Type),
	}.Validate()
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := s.svc.AddTransaction(r.Context(), r.PathValue("id"), desc, amount, typ)
	if err != nil {
		writeError(w, err)
		return
	}

	s.closeForms()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	desc, amount, typ, err := form.TransactionInput{
		Description: in.Description,
		Amount:      in.Amount,
		Type:        core.TransactionType(in.Type),
	}.Validate()
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := s.svc.UpdateTransaction(r.Context(), r.PathValue("id"), r.PathValue("txID"), desc, amount, typ)
	if err != nil {
		writeError(w, err)
		return
	}

	s.closeForms()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	target, err := s.svc.RequestDeleteTransaction(r.PathValue("id"), r.PathValue("txID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "confirmation required",
			"target": target,
		})
		return
	}

	if err := s.svc.ConfirmDelete(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderTransactions(w http.ResponseWriter, r *http.Request) {
	var in reorderRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := s.svc.ReorderTransactions(r.Context(), r.PathValue("id"), in.MovedID, in.TargetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func atoiDefault(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
