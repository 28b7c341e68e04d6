package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"moneta/internal/core"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("store unavailable")
}

func sampleBook() core.Book {
	return core.Book{
		Accounts: []core.Account{
			{
				ID:   "a1",
				Name: "Checking",
				Transactions: []core.Transaction{
					{ID: "t1", Description: "salary", Amount: core.Money{Cents: 100000}, Date: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Type: core.Income},
					{ID: "t2", Description: "rent", Amount: core.Money{Cents: 20000}, Date: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Type: core.Expense},
				},
			},
			{ID: "a2", Name: "Savings", Transactions: []core.Transaction{}},
		},
		SelectedAccountID: "a2",
	}
}

func TestBookStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewBookStore(NewMemoryKV())

	book := sampleBook()
	if err := s.Save(ctx, book); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load(ctx)
	if len(got.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got.Accounts))
	}
	if got.Accounts[0].ID != "a1" || got.Accounts[1].ID != "a2" {
		t.Fatalf("account order not preserved: %v, %v", got.Accounts[0].ID, got.Accounts[1].ID)
	}
	if got.SelectedAccountID != "a2" {
		t.Fatalf("selection not preserved: %q", got.SelectedAccountID)
	}
	txs := got.Accounts[0].Transactions
	if len(txs) != 2 || txs[0].ID != "t1" || txs[1].ID != "t2" {
		t.Fatalf("transaction order not preserved: %+v", txs)
	}
	if txs[0].Amount.Cents != 100000 {
		t.Fatalf("amount lost in round trip: %d", txs[0].Amount.Cents)
	}
}

func TestBookStoreLoadDefaults(t *testing.T) {
	ctx := context.Background()

	// First run: nothing stored.
	s := NewBookStore(NewMemoryKV())
	got := s.Load(ctx)
	if got.Accounts == nil || len(got.Accounts) != 0 || got.SelectedAccountID != "" {
		t.Fatalf("expected empty book, got %+v", got)
	}

	// Unreadable store.
	got = NewBookStore(failingKV{}).Load(ctx)
	if len(got.Accounts) != 0 {
		t.Fatalf("expected empty book on read failure, got %+v", got)
	}

	// Corrupt payload.
	kv := NewMemoryKV()
	_ = kv.Set(ctx, KeyAccounts, "{not json")
	got = NewBookStore(kv).Load(ctx)
	if len(got.Accounts) != 0 {
		t.Fatalf("expected empty book on corrupt payload, got %+v", got)
	}
}

func TestBookStoreSelectionNull(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewBookStore(kv)

	book := sampleBook()
	book.SelectedAccountID = ""
	if err := s.Save(ctx, book); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, ok, _ := kv.Get(ctx, KeySelected)
	if !ok || raw != "null" {
		t.Fatalf("expected JSON null for empty selection, got %q", raw)
	}
}

func TestBookStoreDropsDanglingSelection(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Set(ctx, KeyAccounts, `[{"id":"a1","name":"Checking","transactions":[]}]`)
	_ = kv.Set(ctx, KeySelected, `"ghost"`)

	got := NewBookStore(kv).Load(ctx)
	if got.SelectedAccountID != "" {
		t.Fatalf("expected dangling selection dropped, got %q", got.SelectedAccountID)
	}
}

func TestBookStoreNormalizesNilTransactions(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Set(ctx, KeyAccounts, `[{"id":"a1","name":"Checking"}]`)

	got := NewBookStore(kv).Load(ctx)
	if got.Accounts[0].Transactions == nil {
		t.Fatalf("expected empty transaction slice, got nil")
	}
}
