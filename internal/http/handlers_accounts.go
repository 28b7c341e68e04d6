package http

import (
	"net/http"

	"moneta/internal/core"
	"moneta/internal/form"
	"moneta/internal/view"
)

type accountItem struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Summary core.Summary `json:"summary"`
}

type accountsPage struct {
	Accounts     []accountItem   `json:"accounts"`
	Pagination   view.Pagination `json:"pagination"`
	TotalBalance core.Money      `json:"total_balance"`
	SelectedID   string          `json:"selected_id,omitempty"`
	Query        string          `json:"query,omitempty"`
	Sort         view.SortConfig `json:"sort"`
}

// handleListAccounts projects the accounts list through the shared view
// state. Query parameters update the state before projection, so the list
// behaves like one session's list widget.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	book := s.svc.Book()

	s.viewMu.Lock()
	applyListParams(&s.accountsView.ListState, r)
	if key := view.SortKey(r.URL.Query().Get("sort")); key != "" {
		if dir := view.Direction(r.URL.Query().Get("dir")); dir == view.Asc || dir == view.Desc {
			if key.Valid() {
				s.accountsView.Sort = view.SortConfig{Key: key, Dir: dir}
			}
		} else {
			s.accountsView.ToggleSort(key)
		}
	}
	visible, page := s.accountsView.Visible(book.Accounts)
	query, sort := s.accountsView.Query, s.accountsView.Sort
	s.viewMu.Unlock()

	items := make([]accountItem, 0, len(visible))
	for _, a := range visible {
		items = append(items, accountItem{ID: a.ID, Name: a.Name, Summary: core.Summarize(a)})
	}

	writeJSON(w, http.StatusOK, accountsPage{
		Accounts:     items,
		Pagination:   page,
		TotalBalance: core.TotalBalance(book.Accounts),
		SelectedID:   book.SelectedAccountID,
		Query:        query,
		Sort:         sort,
	})
}

func applyListParams(st *view.ListState, r *http.Request) {
	q := r.URL.Query()
	if q.Has("q") {
		st.SetQuery(q.Get("q"))
	}
	if q.Has("page") {
		st.SetPage(atoiDefault(q.Get("page"), st.Page))
	}
	if q.Has("all") {
		st.SetShowAll(q.Get("all") == "true")
	}
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in form.AccountInput
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	name, err := in.Validate()
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := s.svc.AddAccount(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	s.closeForms()
	writeJSON(w, http.StatusCreated, accountItem{ID: a.ID, Name: a.Name, Summary: core.Summarize(a)})
}

func (s *Server) handleRenameAccount(w http.ResponseWriter, r *http.Request) {
	var in form.AccountInput
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	name, err := in.Validate()
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := s.svc.RenameAccount(r.Context(), r.PathValue("id"), name)
	if err != nil {
		writeError(w, err)
		return
	}

	s.closeForms()
	writeJSON(w, http.StatusOK, accountItem{ID: a.ID, Name: a.Name, Summary: core.Summarize(a)})
}

// handleDeleteAccount implements the two-step delete. Without confirm=true
// the deletion is staged and 409 returned with the target description;
// repeating the request with confirm=true applies it.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	target, err := s.svc.RequestDeleteAccount(id)
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

type reorderRequest struct {
	MovedID  string `json:"moved_id"`
	TargetID string `json:"target_id"`
}

func (s *Server) handleReorderAccounts(w http.ResponseWriter, r *http.Request) {
	var in reorderRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	s.svc.ReorderAccounts(r.Context(), in.MovedID, in.TargetID)
	w.WriteHeader(http.StatusNoContent)
}

type selectionRequest struct {
	AccountID string `json:"account_id"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, selectionRequest{AccountID: s.svc.SelectedAccountID()})
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var in selectionRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if changed := s.svc.SelectAccount(r.Context(), in.AccountID); changed {
		// A new detail view starts from a clean slate.
		s.viewMu.Lock()
		s.txView.Reset()
		s.viewMu.Unlock()
	}
	writeJSON(w, http.StatusOK, selectionRequest{AccountID: s.svc.SelectedAccountID()})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearSelection(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
