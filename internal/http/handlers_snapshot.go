package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"moneta/internal/sheets"
	"moneta/internal/sheets/xlsx"
)

// 1 MiB is generous for a personal book.
const maxSnapshotBytes = 1 << 20

func (s *Server) handleExportSnapshot(w http.ResponseWriter, _ *http.Request) {
	data, err := s.svc.ExportSnapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="moneta-snapshot.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImportSnapshot restores an uploaded snapshot. A structurally bad
// document is rejected outright; a valid one without confirm=true returns
// 409 so the client can warn that the import replaces everything.
func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading request body failed"})
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := s.svc.ImportSnapshot(r.Context(), data, confirmed); err != nil {
		writeError(w, err)
		return
	}

	s.viewMu.Lock()
	s.accountsView.Reset()
	s.txView.Reset()
	s.forms.Close()
	s.viewMu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	wb := sheets.Build(s.svc.Accounts())

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="moneta-%s.xlsx"`, time.Now().Format("20060102")))
	if err := xlsx.Encode(wb, w); err != nil {
		// Headers are already gone; all we can do is log.
		writeError(w, err)
	}
}

// handleRequestExport enqueues a background export for the worker.
func (s *Server) handleRequestExport(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no export broker configured"})
		return
	}
	if err := s.publisher.PublishExportRequest(r.Context(), "manual"); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "enqueueing export failed"})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
