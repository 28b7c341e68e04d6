package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteKVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "moneta.db")
	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}
	defer kv.Close()

	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, ok, err := kv.Get(ctx, "k"); err != nil || !ok || v != "v1" {
		t.Fatalf("Get(k) = %q ok=%v err=%v", v, ok, err)
	}

	// Upsert overwrites.
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _, _ := kv.Get(ctx, "k"); v != "v2" {
		t.Fatalf("Get(k) after upsert = %q, want v2", v)
	}
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moneta.db")
	ctx := context.Background()

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}
	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	if v, ok, err := reopened.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("Get(k) after reopen = %q ok=%v err=%v", v, ok, err)
	}
}
