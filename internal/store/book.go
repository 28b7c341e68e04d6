package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"moneta/internal/core"
)

// Storage keys. The accounts key holds the ordered account list as JSON;
// the selection key holds the selected account id as a JSON string, or
// JSON null when nothing is selected.
const (
	KeyAccounts = "moneta.accounts"
	KeySelected = "moneta.selected_account"
)

// BookStore persists the root collection through a KV. Reads are lenient:
// an absent key, an unreadable store, or corrupt JSON all fall back to the
// empty default so a session can always start.
type BookStore struct {
	kv KV
}

func NewBookStore(kv KV) *BookStore {
	return &BookStore{kv: kv}
}

// Load reads the root collection. It never fails: any read problem yields
// an empty book and a warning log.
func (s *BookStore) Load(ctx context.Context) core.Book {
	book := core.Book{Accounts: []core.Account{}}

	raw, ok, err := s.kv.Get(ctx, KeyAccounts)
	if err != nil {
		slog.WarnContext(ctx, "Reading accounts failed, starting empty", "key", KeyAccounts, "error", err)
		return book
	}
	if ok {
		var accounts []core.Account
		if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
			slog.WarnContext(ctx, "Stored accounts are not valid JSON, starting empty", "key", KeyAccounts, "error", err)
			return book
		}
		for i := range accounts {
			if accounts[i].Transactions == nil {
				accounts[i].Transactions = []core.Transaction{}
			}
		}
		book.Accounts = accounts
	}

	raw, ok, err = s.kv.Get(ctx, KeySelected)
	if err != nil || !ok {
		return book
	}
	var selected *string
	if err := json.Unmarshal([]byte(raw), &selected); err == nil && selected != nil {
		// A selection referencing a missing account is dropped on load.
		if book.FindAccount(*selected) >= 0 {
			book.SelectedAccountID = *selected
		}
	}
	return book
}

// Save mirrors the root collection to the KV. Both keys are written; the
// caller decides what a write failure means (in this app the in-memory
// state stays authoritative).
func (s *BookStore) Save(ctx context.Context, book core.Book) error {
	accounts := book.Accounts
	if accounts == nil {
		accounts = []core.Account{}
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyAccounts, string(raw)); err != nil {
		return err
	}

	selected := []byte("null")
	if book.SelectedAccountID != "" {
		if selected, err = json.Marshal(book.SelectedAccountID); err != nil {
			return err
		}
	}
	return s.kv.Set(ctx, KeySelected, string(selected))
}
