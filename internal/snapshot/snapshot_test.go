package snapshot

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"moneta/internal/core"
)

func sampleBook() core.Book {
	return core.Book{
		Accounts: []core.Account{
			{
				ID:   "a1",
				Name: "Checking",
				Transactions: []core.Transaction{
					{ID: "t1", Description: "salary", Amount: core.Money{Cents: 100000}, Date: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), Type: core.Income},
					{ID: "t2", Description: "rent", Amount: core.Money{Cents: 20000}, Date: time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), Type: core.Expense},
				},
			},
			{ID: "a2", Name: "Savings", Transactions: []core.Transaction{}},
		},
		SelectedAccountID: "a1",
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	book := sampleBook()

	data, err := Export(book)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(got, book) {
		t.Fatalf("round trip changed the book:\n got %+v\nwant %+v", got, book)
	}
}

func TestExportEmitsNullSelection(t *testing.T) {
	book := sampleBook()
	book.SelectedAccountID = ""

	data, err := Export(book)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(probe["selectedAccountId"]) != "null" {
		t.Fatalf("expected null selection, got %s", probe["selectedAccountId"])
	}
}

func TestParseRejectsBadStructure(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{broken`},
		{"missing accounts", `{"selectedAccountId": null}`},
		{"accounts not array", `{"accounts": "not-an-array"}`},
		{"accounts object", `{"accounts": {"id": "a1"}}`},
		{"accounts null", `{"accounts": null}`},
		{"top-level array", `[1, 2, 3]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); !errors.Is(err, ErrIncorrectFormat) {
				t.Fatalf("expected ErrIncorrectFormat, got %v", err)
			}
		})
	}
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"blank account name", `{"accounts": [{"id": "a1", "name": "  "}]}`},
		{"non-positive amount", `{"accounts": [{"id": "a1", "name": "A", "transactions": [{"id": "t1", "description": "x", "amount": 0, "type": "income"}]}]}`},
		{"unknown type", `{"accounts": [{"id": "a1", "name": "A", "transactions": [{"id": "t1", "description": "x", "amount": 1, "type": "transfer"}]}]}`},
		{"blank description", `{"accounts": [{"id": "a1", "name": "A", "transactions": [{"id": "t1", "description": " ", "amount": 1, "type": "income"}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); !errors.Is(err, ErrIncorrectFormat) {
				t.Fatalf("expected ErrIncorrectFormat, got %v", err)
			}
		})
	}
}

func TestParseNormalizesRecords(t *testing.T) {
	data := `{"accounts": [{"name": "Imported"}], "selectedAccountId": null}`

	got, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(got.Accounts))
	}
	if got.Accounts[0].ID == "" {
		t.Fatalf("expected fresh id for account without one")
	}
	if got.Accounts[0].Transactions == nil {
		t.Fatalf("expected empty transaction slice, got nil")
	}
}

func TestParseDropsDanglingSelection(t *testing.T) {
	data := `{"accounts": [{"id": "a1", "name": "A", "transactions": []}], "selectedAccountId": "ghost"}`

	got, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.SelectedAccountID != "" {
		t.Fatalf("expected dangling selection dropped, got %q", got.SelectedAccountID)
	}
}
