// Package worker renders spreadsheet exports in the background, decoupled
// from the interactive path. Requests arrive over AMQP after every
// completed mutation; a timer export runs as a safety net in case the
// broker drops messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/amqp"
	"moneta/internal/sheets"
	"moneta/internal/store"
)

// ExportWorker loads the stored book and writes it to every configured
// spreadsheet destination.
type ExportWorker struct {
	store   *store.BookStore
	writers []sheets.Writer
}

func NewExportWorker(st *store.BookStore, writers ...sheets.Writer) *ExportWorker {
	return &ExportWorker{store: st, writers: writers}
}

// HandleExportRequest processes a single export request message.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"reason", msg.Reason,
		"requested_at", msg.Timestamp)
	return w.Export(ctx)
}

// Export renders the current book once to all writers. It keeps going
// after a writer failure so one broken destination does not starve the
// others, and reports the first error at the end.
func (w *ExportWorker) Export(ctx context.Context) error {
	book := w.store.Load(ctx)
	wb := sheets.Build(book.Accounts)

	var firstErr error
	for _, wr := range w.writers {
		if err := wr.Write(ctx, wb); err != nil {
			slog.ErrorContext(ctx, "Spreadsheet write failed",
				"writer", fmt.Sprintf("%T", wr),
				"error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("write spreadsheet: %w", err)
			}
		}
	}
	return firstErr
}

// Run consumes export requests until the context is canceled. When
// interval is positive a ticker triggers an additional periodic export.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeExportRequests(ctx, w.HandleExportRequest)
	})

	if interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := w.Export(ctx); err != nil {
						slog.ErrorContext(ctx, "Periodic export failed", "error", err)
					}
				}
			}
		})
	}

	return g.Wait()
}
