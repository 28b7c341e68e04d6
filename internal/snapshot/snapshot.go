// Package snapshot implements whole-dataset backup and restore. A snapshot
// is a JSON document holding the full root collection; import validates the
// structure before anything is replaced, so a rejected file never mutates
// state.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"moneta/internal/core"
)

// ErrIncorrectFormat rejects a document whose top-level shape is wrong:
// unparseable JSON, a missing accounts field, or accounts not an array.
var ErrIncorrectFormat = errors.New("incorrect format")

// Snapshot is the interchange shape of the root collection.
type Snapshot struct {
	Accounts          []core.Account `json:"accounts"`
	SelectedAccountID *string        `json:"selectedAccountId"`
}

// FromBook builds the snapshot of a book.
func FromBook(book core.Book) Snapshot {
	s := Snapshot{Accounts: book.Accounts}
	if s.Accounts == nil {
		s.Accounts = []core.Account{}
	}
	if book.SelectedAccountID != "" {
		id := book.SelectedAccountID
		s.SelectedAccountID = &id
	}
	return s
}

// Export serializes the full root collection. It must succeed whenever the
// book itself is readable, so it performs no validation.
func Export(book core.Book) ([]byte, error) {
	out, err := json.MarshalIndent(FromBook(book), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return out, nil
}

// Parse validates and decodes a snapshot document into a book.
//
// Structural rule: the document must be a JSON object with an `accounts`
// field holding an array. Anything else is ErrIncorrectFormat. Individual
// records are additionally hardened: a record missing an id gets a fresh
// one, nil transaction lists become empty, and a transaction with a blank
// description, non-positive amount, or unknown type rejects the whole
// document (no partial import).
func Parse(data []byte) (core.Book, error) {
	var probe struct {
		Accounts          json.RawMessage `json:"accounts"`
		SelectedAccountID *string         `json:"selectedAccountId"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return core.Book{}, ErrIncorrectFormat
	}
	if len(probe.Accounts) == 0 || !isArray(probe.Accounts) {
		return core.Book{}, ErrIncorrectFormat
	}

	var accounts []core.Account
	if err := json.Unmarshal(probe.Accounts, &accounts); err != nil {
		return core.Book{}, ErrIncorrectFormat
	}
	if accounts == nil {
		accounts = []core.Account{}
	}

	for i := range accounts {
		if accounts[i].ID == "" {
			accounts[i].ID = core.NewID()
		}
		if accounts[i].Transactions == nil {
			accounts[i].Transactions = []core.Transaction{}
		}
		if err := accounts[i].Validate(); err != nil {
			return core.Book{}, fmt.Errorf("%w: account %d: %v", ErrIncorrectFormat, i, err)
		}
		for j := range accounts[i].Transactions {
			tx := &accounts[i].Transactions[j]
			if tx.ID == "" {
				tx.ID = core.NewID()
			}
			if err := tx.Validate(); err != nil {
				return core.Book{}, fmt.Errorf("%w: account %d transaction %d: %v", ErrIncorrectFormat, i, j, err)
			}
		}
	}

	book := core.Book{Accounts: accounts}
	if probe.SelectedAccountID != nil && book.FindAccount(*probe.SelectedAccountID) >= 0 {
		book.SelectedAccountID = *probe.SelectedAccountID
	}
	return book, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
