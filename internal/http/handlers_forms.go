package http

import (
	"net/http"

	"moneta/internal/form"
)

type formState struct {
	Open          form.Modal `json:"open"`
	AccountID     string     `json:"account_id,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Editing       bool       `json:"editing"`
}

func (s *Server) currentFormState() formState {
	st := formState{Open: s.forms.Open()}
	switch st.Open {
	case form.ModalAccount:
		st.AccountID, st.Editing = s.forms.EditAccountID()
	case form.ModalTransaction:
		st.AccountID, st.TransactionID, st.Editing = s.forms.TransactionTarget()
	}
	return st
}

func (s *Server) handleGetForm(w http.ResponseWriter, _ *http.Request) {
	s.viewMu.Lock()
	st := s.currentFormState()
	s.viewMu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

type openFormRequest struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
}

// handleOpenAccountForm opens the account modal, in edit mode when an
// account id is given. An already open form is replaced.
func (s *Server) handleOpenAccountForm(w http.ResponseWriter, r *http.Request) {
	var in openFormRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	s.viewMu.Lock()
	s.forms.OpenAccountForm(in.AccountID)
	st := s.currentFormState()
	s.viewMu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleOpenTransactionForm(w http.ResponseWriter, r *http.Request) {
	var in openFormRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	s.viewMu.Lock()
	s.forms.OpenTransactionForm(in.AccountID, in.TransactionID)
	st := s.currentFormState()
	s.viewMu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCloseForm(w http.ResponseWriter, _ *http.Request) {
	s.closeForms()
	w.WriteHeader(http.StatusNoContent)
}

// closeForms clears the modal slot after a successful submission or an
// explicit dismissal.
func (s *Server) closeForms() {
	s.viewMu.Lock()
	s.forms.Close()
	s.viewMu.Unlock()
}
