// Package memory records workbooks in process memory. Used in tests and as
// a writer of last resort when no export backend is configured.
package memory

import (
	"context"
	"sync"

	"moneta/internal/sheets"
)

type Recorder struct {
	mu  sync.Mutex
	wbs []sheets.Workbook
}

func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Write(_ context.Context, wb sheets.Workbook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wbs = append(r.wbs, wb)
	return nil
}

// Last returns the most recently written workbook.
func (r *Recorder) Last() (sheets.Workbook, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.wbs) == 0 {
		return sheets.Workbook{}, false
	}
	return r.wbs[len(r.wbs)-1], true
}

// Count returns how many workbooks have been written.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.wbs)
}
