// Package view holds the per-list presentation state (search query, sort
// configuration, pagination) and derives visible projections from the
// domain model. Derivation is a fixed pure pipeline: filter, then sort,
// then paginate. No stage mutates its input; the only state the view
// touches is its own page number, which is clamped so it stays valid when
// the underlying collection shrinks.
package view

import (
	"strings"

	"moneta/internal/collection"
	"moneta/internal/core"
)

const DefaultPageSize = 5

type (
	SortKey   string
	Direction string
)

const (
	SortByName    SortKey = "name"
	SortByBalance SortKey = "balance"
	SortByIncome  SortKey = "income"
	SortByExpense SortKey = "expense"

	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByName, SortByBalance, SortByIncome, SortByExpense:
		return true
	}
	return false
}

// SortConfig is the active sort of the accounts list. The zero value means
// no sorting (insertion/drag order).
type SortConfig struct {
	Key SortKey
	Dir Direction
}

// ListState is the shared view state of a paginated, searchable list.
type ListState struct {
	Query    string
	Page     int
	ShowAll  bool
	PageSize int
}

func NewListState(pageSize int) ListState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ListState{Page: 1, PageSize: pageSize}
}

// SetQuery updates the search term. Changing the query resets to page 1.
func (s *ListState) SetQuery(q string) {
	if q == s.Query {
		return
	}
	s.Query = q
	s.Page = 1
}

func (s *ListState) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	s.Page = p
}

func (s *ListState) SetShowAll(all bool) {
	s.ShowAll = all
}

// Reset restores the initial state: empty query, page 1, pagination on.
func (s *ListState) Reset() {
	s.Query = ""
	s.Page = 1
	s.ShowAll = false
}

// Pagination describes the projected window returned by a view.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// AccountsView projects the accounts list: filter by name, optional sort by
// name/balance/income/expense, then paginate.
type AccountsView struct {
	ListState
	Sort SortConfig
}

func NewAccountsView(pageSize int) AccountsView {
	return AccountsView{ListState: NewListState(pageSize)}
}

// ToggleSort applies the list-header click semantics: selecting the active
// key flips its direction, selecting a new key resets to ascending.
func (v *AccountsView) ToggleSort(key SortKey) {
	if !key.Valid() {
		return
	}
	if v.Sort.Key == key {
		if v.Sort.Dir == Asc {
			v.Sort.Dir = Desc
		} else {
			v.Sort.Dir = Asc
		}
		return
	}
	v.Sort = SortConfig{Key: key, Dir: Asc}
}

// Visible derives the current window of accounts. The receiver's page is
// clamped to the last valid page as a side effect so subsequent requests
// see a consistent value.
func (v *AccountsView) Visible(accounts []core.Account) ([]core.Account, Pagination) {
	filtered := collection.Filter(accounts, v.Query, func(a core.Account) string { return a.Name })

	if v.Sort.Key.Valid() {
		filtered = collection.SortStable(filtered, accountLess(v.Sort))
	}

	pages := collection.PageCount(len(filtered), v.PageSize)
	v.Page = collection.ClampPage(v.Page, pages)

	page := Pagination{Page: v.Page, Pages: pages, Total: len(filtered)}
	if v.ShowAll {
		page.Page, page.Pages = 1, 1
		return filtered, page
	}
	return collection.Page(filtered, v.Page, v.PageSize), page
}

func accountLess(cfg SortConfig) func(a, b core.Account) bool {
	asc := cfg.Dir != Desc
	switch cfg.Key {
	case SortByName:
		return func(a, b core.Account) bool {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if asc {
				return an < bn
			}
			return bn < an
		}
	case SortByBalance:
		return numericLess(asc, func(a core.Account) int64 { return core.Summarize(a).Balance.Cents })
	case SortByIncome:
		return numericLess(asc, func(a core.Account) int64 { return core.Summarize(a).Income.Cents })
	default: // SortByExpense
		return numericLess(asc, func(a core.Account) int64 { return core.Summarize(a).Expense.Cents })
	}
}

func numericLess(asc bool, key func(core.Account) int64) func(a, b core.Account) bool {
	return func(a, b core.Account) bool {
		ka, kb := key(a), key(b)
		if asc {
			return ka < kb
		}
		return kb < ka
	}
}

// TransactionsView projects an account's transaction list: filter by
// description, then paginate. Transactions keep their stored order.
type TransactionsView struct {
	ListState
}

func NewTransactionsView(pageSize int) TransactionsView {
	return TransactionsView{ListState: NewListState(pageSize)}
}

// Visible derives the current window of transactions, clamping the page
// like AccountsView.Visible.
func (v *TransactionsView) Visible(txs []core.Transaction) ([]core.Transaction, Pagination) {
	filtered := collection.Filter(txs, v.Query, func(t core.Transaction) string { return t.Description })

	pages := collection.PageCount(len(filtered), v.PageSize)
	v.Page = collection.ClampPage(v.Page, pages)

	page := Pagination{Page: v.Page, Pages: pages, Total: len(filtered)}
	if v.ShowAll {
		page.Page, page.Pages = 1, 1
		return filtered, page
	}
	return collection.Page(filtered, v.Page, v.PageSize), page
}
