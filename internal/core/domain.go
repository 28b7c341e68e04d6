package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is a single dated income or expense record. The amount is
	// always strictly positive; the sign is carried by Type.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Date        time.Time       `json:"date"`
		Type        TransactionType `json:"type"`
	}

	// Account is a named container of transactions. The order of the
	// Transactions slice is user-controlled and significant.
	Account struct {
		ID           string        `json:"id"`
		Name         string        `json:"name"`
		Transactions []Transaction `json:"transactions"`
	}

	// Book is the root collection: every account in display order plus the
	// currently selected account id (empty when none). It is the sole unit
	// written to persistent storage.
	Book struct {
		Accounts          []Account
		SelectedAccountID string
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty account name")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// NewTransaction creates a transaction with a fresh id and the current
// timestamp as its creation date.
func NewTransaction(description string, amount Money, typ TransactionType) Transaction {
	return Transaction{
		ID:          NewID(),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Date:        time.Now().UTC(),
		Type:        typ,
	}
}

// NewAccount creates an empty account with a fresh id.
func NewAccount(name string) Account {
	return Account{
		ID:           NewID(),
		Name:         strings.TrimSpace(name),
		Transactions: []Transaction{},
	}
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

// Clone returns a deep copy so callers can hand out or mutate book state
// without aliasing the transaction slices.
func (b Book) Clone() Book {
	out := Book{
		Accounts:          make([]Account, len(b.Accounts)),
		SelectedAccountID: b.SelectedAccountID,
	}
	for i, a := range b.Accounts {
		out.Accounts[i] = a.Clone()
	}
	return out
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	txs := make([]Transaction, len(a.Transactions))
	copy(txs, a.Transactions)
	a.Transactions = txs
	return a
}

// FindAccount returns the index of the account with the given id, or -1.
func (b Book) FindAccount(id string) int {
	for i, a := range b.Accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// FindTransaction returns the index of the transaction with the given id
// within the account, or -1.
func (a Account) FindTransaction(id string) int {
	for i, t := range a.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}
