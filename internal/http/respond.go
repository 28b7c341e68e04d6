package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"moneta/internal/core"
	"moneta/internal/service"
	"moneta/internal/snapshot"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses. Validation failures
// are unprocessable input, a structurally bad snapshot is a bad request,
// and a missing confirmation is a conflict the client resolves by retrying
// with confirm=true.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, snapshot.ErrIncorrectFormat):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrConfirmationRequired):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNoPendingDelete):
		status = http.StatusConflict
	case errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrTransactionNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
