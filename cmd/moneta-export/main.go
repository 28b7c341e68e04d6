// moneta-export renders the stored book to an xlsx file once and exits.
// Useful for cron jobs and for exporting without a running broker.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"moneta/internal/config"
	applog "moneta/internal/log"
	"moneta/internal/sheets"
	"moneta/internal/sheets/xlsx"
	"moneta/internal/store"
	"moneta/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentSheets})
	applog.SetDefault(logger)

	out := flag.String("out", "", "output file path (default: timestamped file in EXPORT_DIR)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteKV, err := store.NewSQLiteKV(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteKV.Close()

	ctx := context.Background()
	bookStore := store.NewBookStore(sqliteKV)

	if *out != "" {
		book := bookStore.Load(ctx)
		if err := xlsx.Save(sheets.Build(book.Accounts), *out); err != nil {
			logger.Error("Export failed", "error", err, "path", *out)
			os.Exit(1)
		}
		logger.Info("Export written", "path", *out)
		return
	}

	w := worker.NewExportWorker(bookStore, &xlsx.FileWriter{Dir: cfg.ExportDir})
	if err := w.Export(ctx); err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Export written", "dir", cfg.ExportDir)
}
