// Package form implements the create/edit workflow shared by accounts and
// transactions: a single modal slot, input validation, and the stale-target
// guarantee (closing a form always clears its edit target).
package form

import (
	"strings"

	"moneta/internal/core"
)

type Modal string

const (
	ModalNone        Modal = ""
	ModalAccount     Modal = "account"
	ModalTransaction Modal = "transaction"
)

// Controller owns the single modal slot. At most one form is open at a
// time; opening a form while another is open replaces it.
type Controller struct {
	open Modal

	// Edit targets; empty in create mode.
	accountID   string
	txAccountID string
	txID        string
}

func (c *Controller) Open() Modal { return c.open }

// OpenAccountForm opens the account form. An empty editID means create mode.
func (c *Controller) OpenAccountForm(editID string) {
	c.Close()
	c.open = ModalAccount
	c.accountID = editID
}

// OpenTransactionForm opens the transaction form for the given account.
// An empty editTxID means create mode.
func (c *Controller) OpenTransactionForm(accountID, editTxID string) {
	c.Close()
	c.open = ModalTransaction
	c.txAccountID = accountID
	c.txID = editTxID
}

// Close clears the modal slot and every edit target, whether the form was
// cancelled, dismissed, or submitted.
func (c *Controller) Close() {
	c.open = ModalNone
	c.accountID = ""
	c.txAccountID = ""
	c.txID = ""
}

// EditAccountID returns the account edit target, if any.
func (c *Controller) EditAccountID() (string, bool) {
	return c.accountID, c.open == ModalAccount && c.accountID != ""
}

// TransactionTarget returns the owning account and, in edit mode, the
// transaction edit target.
func (c *Controller) TransactionTarget() (accountID, txID string, editing bool) {
	if c.open != ModalTransaction {
		return "", "", false
	}
	return c.txAccountID, c.txID, c.txID != ""
}

// AccountInput is the raw account form submission.
type AccountInput struct {
	Name string
}

// Validate trims and checks the name. Returns the cleaned name.
func (in AccountInput) Validate() (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", core.ErrEmptyName
	}
	return name, nil
}

// TransactionInput is the raw transaction form submission. Amount arrives
// as entered, a decimal string.
type TransactionInput struct {
	Description string
	Amount      string
	Type        core.TransactionType
}

// Validate checks all fields and returns the cleaned values. The amount
// must parse as a positive finite decimal.
func (in TransactionInput) Validate() (description string, amount core.Money, typ core.TransactionType, err error) {
	description = strings.TrimSpace(in.Description)
	if description == "" {
		return "", core.Money{}, "", core.ErrEmptyDescription
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return "", core.Money{}, "", err
	}
	if !in.Type.Valid() {
		return "", core.Money{}, "", core.ErrInvalidType
	}
	return description, core.Money{Cents: cents}, in.Type, nil
}
