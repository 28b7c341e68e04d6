// Package xlsx persists workbooks as .xlsx files via excelize.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"moneta/internal/sheets"
)

// Encode writes the workbook in .xlsx format to w.
func Encode(wb sheets.Workbook, w io.Writer) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to the given path.
func Save(wb sheets.Workbook, path string) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func build(wb sheets.Workbook) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, sh := range wb.Sheets {
		if i == 0 {
			// Rename the default sheet instead of creating a new one.
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", sh.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sh.Name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", sh.Name, err)
			}
		}

		header := make([]any, len(sh.Header))
		for c, h := range sh.Header {
			header[c] = h
		}
		if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header of %q: %w", sh.Name, err)
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			cells := row
			if err := f.SetSheetRow(sh.Name, cell, &cells); err != nil {
				return nil, fmt.Errorf("write row %d of %q: %w", r+2, sh.Name, err)
			}
		}
	}
	return f, nil
}

// FileWriter implements sheets.Writer by writing timestamped .xlsx files
// into a directory.
type FileWriter struct {
	Dir string
}

func (fw *FileWriter) Write(ctx context.Context, wb sheets.Workbook) error {
	if err := os.MkdirAll(fw.Dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(fw.Dir, fmt.Sprintf("moneta-%s.xlsx", time.Now().Format("20060102-150405")))
	if err := Save(wb, path); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Workbook exported", "path", path, "sheets", len(wb.Sheets))
	return nil
}
