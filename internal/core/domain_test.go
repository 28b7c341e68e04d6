package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: NewID(), Description: "rent", Amount: Money{Cents: 100}, Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Description: "  ", Amount: Money{Cents: 1}, Type: Income}, ErrEmptyDescription},
		{Transaction{Description: "a", Amount: Money{Cents: 0}, Type: Income}, ErrInvalidAmount},
		{Transaction{Description: "a", Amount: Money{Cents: -5}, Type: Income}, ErrInvalidAmount},
		{Transaction{Description: "a", Amount: Money{Cents: 1}, Type: "transfer"}, ErrInvalidType},
	}
	for i, tc := range cases {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	if err := (Account{Name: "Checking"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Account{Name: "   "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestNewTransactionAssignsIDAndDate(t *testing.T) {
	tx := NewTransaction("  coffee  ", Money{Cents: 350}, Expense)
	if tx.ID == "" {
		t.Fatalf("expected fresh id")
	}
	if tx.Date.IsZero() {
		t.Fatalf("expected creation date")
	}
	if tx.Description != "coffee" {
		t.Fatalf("expected trimmed description, got %q", tx.Description)
	}
}

func TestBookCloneIsDeep(t *testing.T) {
	b := Book{Accounts: []Account{{
		ID:           "a1",
		Name:         "Checking",
		Transactions: []Transaction{{ID: "t1", Description: "x", Amount: Money{Cents: 1}, Type: Income}},
	}}}

	c := b.Clone()
	c.Accounts[0].Transactions[0].Description = "mutated"
	if b.Accounts[0].Transactions[0].Description != "x" {
		t.Fatalf("clone aliased the transaction slice")
	}
}

func TestFindAccountAndTransaction(t *testing.T) {
	b := Book{Accounts: []Account{
		{ID: "a1", Transactions: []Transaction{{ID: "t1"}, {ID: "t2"}}},
		{ID: "a2"},
	}}
	if got := b.FindAccount("a2"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := b.FindAccount("missing"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := b.Accounts[0].FindTransaction("t2"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := b.Accounts[0].FindTransaction("nope"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
