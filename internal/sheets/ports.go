package sheets

import "context"

// Workbook is the rendered spreadsheet export, independent of the backend
// that will persist it.
type (
	Sheet struct {
		Name   string
		Header []string
		Rows   [][]any
	}

	Workbook struct {
		Sheets []Sheet
	}

	// Writer persists a rendered workbook to some spreadsheet backend.
	Writer interface {
		Write(ctx context.Context, wb Workbook) error
	}
)
