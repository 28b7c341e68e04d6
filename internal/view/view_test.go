package view

import (
	"reflect"
	"testing"

	"moneta/internal/core"
)

func acct(name string, income, expense int64) core.Account {
	a := core.Account{ID: core.NewID(), Name: name}
	if income > 0 {
		a.Transactions = append(a.Transactions, core.Transaction{
			ID: core.NewID(), Description: "in", Amount: core.Money{Cents: income}, Type: core.Income,
		})
	}
	if expense > 0 {
		a.Transactions = append(a.Transactions, core.Transaction{
			ID: core.NewID(), Description: "out", Amount: core.Money{Cents: expense}, Type: core.Expense,
		})
	}
	return a
}

func accountNames(items []core.Account) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Name
	}
	return out
}

func TestAccountsViewPipelineOrder(t *testing.T) {
	accounts := []core.Account{
		acct("Savings", 100, 0),
		acct("Checking", 300, 0),
		acct("savings old", 200, 0),
	}

	v := NewAccountsView(5)
	v.SetQuery("sav")
	v.ToggleSort(SortByIncome)

	got, page := v.Visible(accounts)
	// Filter first (drops Checking), then sort by income ascending.
	if want := []string{"Savings", "savings old"}; !reflect.DeepEqual(accountNames(got), want) {
		t.Fatalf("expected %v, got %v", want, accountNames(got))
	}
	if page.Total != 2 || page.Pages != 1 || page.Page != 1 {
		t.Fatalf("unexpected pagination %+v", page)
	}
}

func TestAccountsViewNameSortCaseInsensitive(t *testing.T) {
	accounts := []core.Account{acct("beta", 0, 0), acct("Alpha", 0, 0), acct("gamma", 0, 0)}

	v := NewAccountsView(5)
	v.ToggleSort(SortByName)
	got, _ := v.Visible(accounts)
	if want := []string{"Alpha", "beta", "gamma"}; !reflect.DeepEqual(accountNames(got), want) {
		t.Fatalf("asc: expected %v, got %v", want, accountNames(got))
	}

	// Same key again flips direction.
	v.ToggleSort(SortByName)
	got, _ = v.Visible(accounts)
	if want := []string{"gamma", "beta", "Alpha"}; !reflect.DeepEqual(accountNames(got), want) {
		t.Fatalf("desc: expected %v, got %v", want, accountNames(got))
	}

	// New key resets to ascending.
	v.ToggleSort(SortByBalance)
	if v.Sort.Key != SortByBalance || v.Sort.Dir != Asc {
		t.Fatalf("expected balance/asc, got %+v", v.Sort)
	}
}

func TestAccountsViewPageClampAfterShrink(t *testing.T) {
	var accounts []core.Account
	for i := 0; i < 12; i++ {
		accounts = append(accounts, acct("acc", 0, 0))
	}

	v := NewAccountsView(5)
	v.SetPage(3)
	if got, _ := v.Visible(accounts); len(got) != 2 {
		t.Fatalf("expected last page of 2, got %d", len(got))
	}

	// Collection shrinks below page 3; the view clamps to the last page.
	_, page := v.Visible(accounts[:6])
	if page.Page != 2 || page.Pages != 2 {
		t.Fatalf("expected clamp to page 2 of 2, got %+v", page)
	}

	// Empty collection still renders as page 1 of 1.
	_, page = v.Visible(nil)
	if page.Page != 1 || page.Pages != 1 || page.Total != 0 {
		t.Fatalf("expected page 1 of 1, got %+v", page)
	}
}

func TestSetQueryResetsPage(t *testing.T) {
	s := NewListState(5)
	s.SetPage(4)
	s.SetQuery("rent")
	if s.Page != 1 {
		t.Fatalf("expected page reset to 1, got %d", s.Page)
	}
	// Setting the same query again keeps the page.
	s.SetPage(2)
	s.SetQuery("rent")
	if s.Page != 2 {
		t.Fatalf("unchanged query must not reset the page, got %d", s.Page)
	}
}

func TestShowAllBypassesPagination(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 14; i++ {
		txs = append(txs, core.Transaction{ID: core.NewID(), Description: "t", Amount: core.Money{Cents: 1}, Type: core.Income})
	}

	v := NewTransactionsView(5)
	v.SetShowAll(true)
	got, page := v.Visible(txs)
	if len(got) != 14 {
		t.Fatalf("expected all 14, got %d", len(got))
	}
	if page.Pages != 1 || page.Total != 14 {
		t.Fatalf("unexpected pagination %+v", page)
	}
}

func TestTransactionsViewFilterClearRestoresFullList(t *testing.T) {
	txs := []core.Transaction{
		{ID: "1", Description: "rent", Amount: core.Money{Cents: 1}, Type: core.Expense},
		{ID: "2", Description: "salary", Amount: core.Money{Cents: 1}, Type: core.Income},
	}

	v := NewTransactionsView(5)
	v.SetQuery("zzz")
	if got, _ := v.Visible(txs); len(got) != 0 {
		t.Fatalf("expected zero matches, got %d", len(got))
	}

	v.SetQuery("")
	got, page := v.Visible(txs)
	if len(got) != 2 || page.Page != 1 {
		t.Fatalf("expected full list at page 1, got %d items page %d", len(got), page.Page)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	v := NewTransactionsView(5)
	v.SetQuery("x")
	v.SetPage(3)
	v.SetShowAll(true)
	v.Reset()
	if v.Query != "" || v.Page != 1 || v.ShowAll {
		t.Fatalf("reset incomplete: %+v", v.ListState)
	}
}
