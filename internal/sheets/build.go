// Package sheets renders the account collection into a spreadsheet
// workbook and defines the port its backends implement: an .xlsx file, a
// Google spreadsheet, or an in-memory recorder for tests.
package sheets

import (
	"strconv"
	"strings"

	"moneta/internal/core"
)

// Sheet names in the host format allow at most 31 characters and forbid
// a handful of punctuation characters.
const MaxSheetNameLen = 31

const summarySheetName = "Summary"

// Build renders the workbook: one summary sheet with a row per account,
// then one sheet per account listing transactions with a running balance
// computed in stored order (adding on income, subtracting on expense).
func Build(accounts []core.Account) Workbook {
	summary := Sheet{
		Name:   summarySheetName,
		Header: []string{"Account", "Income", "Expense", "Balance"},
	}

	used := map[string]bool{strings.ToLower(summarySheetName): true}
	wb := Workbook{Sheets: []Sheet{summary}}

	for _, a := range accounts {
		s := core.Summarize(a)
		wb.Sheets[0].Rows = append(wb.Sheets[0].Rows, []any{
			a.Name, s.Income.Float64(), s.Expense.Float64(), s.Balance.Float64(),
		})

		sheet := Sheet{
			Name:   uniqueSheetName(a.Name, used),
			Header: []string{"Description", "Running Balance"},
		}
		var running int64
		for _, t := range a.Transactions {
			if t.Type == core.Income {
				running += t.Amount.Cents
			} else {
				running -= t.Amount.Cents
			}
			sheet.Rows = append(sheet.Rows, []any{
				t.Description, core.Money{Cents: running}.Float64(),
			})
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb
}

// SanitizeSheetName strips the characters the host format forbids in sheet
// names and truncates to the maximum length. An empty result falls back to
// "Sheet".
func SanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		out = "Sheet"
	}
	runes := []rune(out)
	if len(runes) > MaxSheetNameLen {
		out = string(runes[:MaxSheetNameLen])
	}
	return out
}

// uniqueSheetName sanitizes the name and, on a collision with an already
// used name, appends a numeric suffix while staying within the length cap.
func uniqueSheetName(name string, used map[string]bool) string {
	base := SanitizeSheetName(name)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		runes := []rune(base)
		if len(runes)+len(suffix) > MaxSheetNameLen {
			runes = runes[:MaxSheetNameLen-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
