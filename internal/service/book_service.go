// Package service owns the in-memory root collection and funnels every
// mutation through named intents. Each intent runs to completion under one
// mutex (the moral equivalent of the single-threaded event loop this
// design assumes), then mirrors the new state to storage and notifies the
// export queue. The in-memory book is the source of truth for the session;
// a failed mirror write is logged and otherwise ignored.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"moneta/internal/collection"
	"moneta/internal/core"
	"moneta/internal/snapshot"
	"moneta/internal/store"
)

var (
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNoPendingDelete      = errors.New("no pending delete")
)

// Publisher notifies the export worker after a completed mutation.
// Implemented by *amqp.Client; nil disables notification.
type Publisher interface {
	PublishExportRequest(ctx context.Context, reason string) error
}

// DeleteTarget identifies what a pending delete confirmation would remove.
type DeleteTarget struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id,omitempty"`
	Label         string `json:"label"`
}

// BookService is the application controller over the root collection.
type BookService struct {
	mu    sync.Mutex
	book  core.Book
	store *store.BookStore
	pub   Publisher

	pendingDelete *DeleteTarget
}

func New(st *store.BookStore, pub Publisher) *BookService {
	return &BookService{
		book:  core.Book{Accounts: []core.Account{}},
		store: st,
		pub:   pub,
	}
}

// Load replaces the in-memory book with the stored one. Called once at
// startup and again after a confirmed import.
func (s *BookService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = s.store.Load(ctx)
}

// Book returns a deep copy of the current root collection.
func (s *BookService) Book() core.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Clone()
}

// Accounts returns a deep copy of the account list.
func (s *BookService) Accounts() []core.Account {
	return s.Book().Accounts
}

// Account returns a deep copy of one account.
func (s *BookService) Account(id string) (core.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(id)
	if i < 0 {
		return core.Account{}, false
	}
	return s.book.Accounts[i].Clone(), true
}

// SelectedAccountID returns the current selection, empty when none.
func (s *BookService) SelectedAccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.SelectedAccountID
}

// AddAccount creates an empty account at the end of the list.
func (s *BookService) AddAccount(ctx context.Context, name string) (core.Account, error) {
	a := core.NewAccount(name)
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.book.Accounts = append(s.book.Accounts, a)
	s.commit(ctx, "account_created")
	return a.Clone(), nil
}

// RenameAccount replaces the account's name, preserving id and transactions.
func (s *BookService) RenameAccount(ctx context.Context, id, name string) (core.Account, error) {
	probe := core.Account{Name: name}
	if err := probe.Validate(); err != nil {
		return core.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(id)
	if i < 0 {
		return core.Account{}, core.ErrAccountNotFound
	}
	s.book.Accounts[i].Name = probe.Name
	s.commit(ctx, "account_renamed")
	return s.book.Accounts[i].Clone(), nil
}

// SelectAccount records the current selection. Selecting an id that does
// not exist clears the selection; reselecting the current id is a no-op.
// It reports whether the selection changed.
func (s *BookService) SelectAccount(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := id
	if s.book.FindAccount(id) < 0 {
		next = ""
	}
	if next == s.book.SelectedAccountID {
		return false
	}
	s.book.SelectedAccountID = next
	s.commit(ctx, "selection_changed")
	return true
}

// ClearSelection drops the current selection.
func (s *BookService) ClearSelection(ctx context.Context) {
	s.SelectAccount(ctx, "")
}

// ReorderAccounts relocates movedID to targetID's position in the full
// account list. Unknown ids make it a no-op.
func (s *BookService) ReorderAccounts(ctx context.Context, movedID, targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book.Accounts = collection.Move(s.book.Accounts, func(a core.Account) string { return a.ID }, movedID, targetID)
	s.commit(ctx, "accounts_reordered")
}

// AddTransaction appends a new transaction to the account.
func (s *BookService) AddTransaction(ctx context.Context, accountID, description string, amount core.Money, typ core.TransactionType) (core.Transaction, error) {
	tx := core.NewTransaction(description, amount, typ)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(accountID)
	if i < 0 {
		return core.Transaction{}, core.ErrAccountNotFound
	}
	s.book.Accounts[i].Transactions = append(s.book.Accounts[i].Transactions, tx)
	s.commit(ctx, "transaction_created")
	return tx, nil
}

// UpdateTransaction edits a transaction in place, preserving its id and
// creation date.
func (s *BookService) UpdateTransaction(ctx context.Context, accountID, txID, description string, amount core.Money, typ core.TransactionType) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(accountID)
	if i < 0 {
		return core.Transaction{}, core.ErrAccountNotFound
	}
	j := s.book.Accounts[i].FindTransaction(txID)
	if j < 0 {
		return core.Transaction{}, core.ErrTransactionNotFound
	}

	updated := s.book.Accounts[i].Transactions[j]
	updated.Description = description
	updated.Amount = amount
	updated.Type = typ
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.book.Accounts[i].Transactions[j] = updated
	s.commit(ctx, "transaction_updated")
	return updated, nil
}

// ReorderTransactions relocates a transaction within its account.
func (s *BookService) ReorderTransactions(ctx context.Context, accountID, movedID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(accountID)
	if i < 0 {
		return core.ErrAccountNotFound
	}
	s.book.Accounts[i].Transactions = collection.Move(
		s.book.Accounts[i].Transactions,
		func(t core.Transaction) string { return t.ID },
		movedID, targetID)
	s.commit(ctx, "transactions_reordered")
	return nil
}

// RequestDeleteAccount stages the deletion of an account and all its
// transactions. Nothing is mutated until ConfirmDelete.
func (s *BookService) RequestDeleteAccount(id string) (DeleteTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(id)
	if i < 0 {
		return DeleteTarget{}, core.ErrAccountNotFound
	}
	s.pendingDelete = &DeleteTarget{AccountID: id, Label: s.book.Accounts[i].Name}
	return *s.pendingDelete, nil
}

// RequestDeleteTransaction stages the deletion of a single transaction.
func (s *BookService) RequestDeleteTransaction(accountID, txID string) (DeleteTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.book.FindAccount(accountID)
	if i < 0 {
		return DeleteTarget{}, core.ErrAccountNotFound
	}
	j := s.book.Accounts[i].FindTransaction(txID)
	if j < 0 {
		return DeleteTarget{}, core.ErrTransactionNotFound
	}
	s.pendingDelete = &DeleteTarget{
		AccountID:     accountID,
		TransactionID: txID,
		Label:         s.book.Accounts[i].Transactions[j].Description,
	}
	return *s.pendingDelete, nil
}

// ConfirmDelete applies the staged deletion. Deleting the selected account
// clears the selection.
func (s *BookService) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete == nil {
		return ErrNoPendingDelete
	}
	target := *s.pendingDelete
	s.pendingDelete = nil

	i := s.book.FindAccount(target.AccountID)
	if i < 0 {
		// Deleted through another intent while staged.
		return core.ErrAccountNotFound
	}

	if target.TransactionID == "" {
		s.book.Accounts = append(s.book.Accounts[:i], s.book.Accounts[i+1:]...)
		if s.book.SelectedAccountID == target.AccountID {
			s.book.SelectedAccountID = ""
		}
		s.commit(ctx, "account_deleted")
		return nil
	}

	j := s.book.Accounts[i].FindTransaction(target.TransactionID)
	if j < 0 {
		return core.ErrTransactionNotFound
	}
	s.book.Accounts[i].Transactions = append(
		s.book.Accounts[i].Transactions[:j],
		s.book.Accounts[i].Transactions[j+1:]...)
	s.commit(ctx, "transaction_deleted")
	return nil
}

// DeclineDelete abandons the staged deletion; state is untouched.
func (s *BookService) DeclineDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = nil
}

// PendingDelete exposes the staged deletion, if any.
func (s *BookService) PendingDelete() (DeleteTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete == nil {
		return DeleteTarget{}, false
	}
	return *s.pendingDelete, true
}

// ExportSnapshot serializes the full root collection.
func (s *BookService) ExportSnapshot() ([]byte, error) {
	return snapshot.Export(s.Book())
}

// ImportSnapshot restores a snapshot. The document is validated first; a
// structurally bad file returns snapshot.ErrIncorrectFormat with no
// mutation. A valid file still requires confirmed=true because the import
// overwrites everything; the unconfirmed call is the "request" half of the
// destructive intent and also leaves state untouched.
func (s *BookService) ImportSnapshot(ctx context.Context, data []byte, confirmed bool) error {
	book, err := snapshot.Parse(data)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = book
	s.pendingDelete = nil
	s.commit(ctx, "snapshot_imported")
	return nil
}

// commit mirrors the book to storage and notifies the export queue.
// Callers must hold s.mu. Failures are logged, never propagated: the
// in-memory state already changed and stays authoritative.
func (s *BookService) commit(ctx context.Context, reason string) {
	if err := s.store.Save(ctx, s.book); err != nil {
		slog.WarnContext(ctx, "Mirroring book to storage failed, in-memory state kept",
			"reason", reason, "error", err)
	}
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishExportRequest(ctx, reason); err != nil {
		slog.WarnContext(ctx, "Publishing export request failed",
			"reason", reason, "error", err)
	}
}
