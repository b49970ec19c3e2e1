// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testPEM = "-----BEGIN CERTIFICATE-----\nMIIBszCCAVmgAwIBAgIU\n-----END CERTIFICATE-----\n"

func newTestStore(t *testing.T) *CertificateStore {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenCertificateStore(filepath.Join(dir, "certs"), filepath.Join(dir, "ledger", "certs.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCertificateStore_RequiresPaths(t *testing.T) {
	if _, err := OpenCertificateStore("", filepath.Join(t.TempDir(), "a.db")); err == nil {
		t.Error("Expected error for empty export dir")
	}
	if _, err := OpenCertificateStore(t.TempDir(), ""); err == nil {
		t.Error("Expected error for empty ledger path")
	}
}

func TestCertificateStore_Export(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Export("example.com", testPEM)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	wantPath := filepath.Join(store.Dir, "example.com.pem")
	if saved.Path != wantPath {
		t.Errorf("Path = %q, want %q", saved.Path, wantPath)
	}
	content, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}
	if string(content) != testPEM {
		t.Errorf("Exported content = %q, want verbatim PEM", content)
	}
	if len(saved.SHA256) != 64 {
		t.Errorf("SHA256 = %q, want 64 hex chars", saved.SHA256)
	}
	if saved.Size != int64(len(testPEM)) {
		t.Errorf("Size = %d, want %d", saved.Size, len(testPEM))
	}

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CommonName != "example.com" || got.SHA256 != saved.SHA256 {
		t.Errorf("Get = %+v, want %+v", got, saved)
	}
}

func TestCertificateStore_ExportNoValidation(t *testing.T) {
	store := newTestStore(t)

	// Not a PEM at all; exported as-is.
	saved, err := store.Export("odd", "garbage")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	content, _ := os.ReadFile(saved.Path)
	if string(content) != "garbage" {
		t.Errorf("content = %q", content)
	}

	if _, err := store.Export("empty", "  \n"); !errors.Is(err, ErrEmptyCertificate) {
		t.Errorf("Export(empty) error = %v, want ErrEmptyCertificate", err)
	}
}

func TestCertificateStore_SafeFileName(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Export("../../evil", testPEM)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(saved.Path) != store.Dir {
		t.Errorf("Exported outside the export dir: %q", saved.Path)
	}
}

func TestCertificateStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, cn := range []string{"a.example", "b.example", "c.example"} {
		if _, err := store.Export(cn, testPEM); err != nil {
			t.Fatalf("Export(%s) failed: %v", cn, err)
		}
	}

	all, err := store.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(all))
	}
	if all[0].CommonName != "c.example" || all[2].CommonName != "a.example" {
		t.Errorf("List order = %s, %s, %s", all[0].CommonName, all[1].CommonName, all[2].CommonName)
	}
	if !all[0].SavedAt.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("SavedAt = %v", all[0].SavedAt)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("List(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d entries", len(limited))
	}
}

func TestCertificateStore_ReexportOverwritesFile(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Export("example.com", "one")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	second, err := store.Export("example.com", "two")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if first.Path != second.Path {
		t.Errorf("paths differ: %q vs %q", first.Path, second.Path)
	}
	content, _ := os.ReadFile(second.Path)
	if string(content) != "two" {
		t.Errorf("content = %q, want latest export", content)
	}

	all, _ := store.List(0)
	if len(all) != 2 {
		t.Errorf("ledger has %d entries, want 2", len(all))
	}
}

func TestCertificateStore_Forget(t *testing.T) {
	store := newTestStore(t)
	saved, err := store.Export("example.com", testPEM)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if err := store.Forget(saved.ID); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	if _, err := store.Get(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Forget error = %v, want ErrNotFound", err)
	}
	if err := store.Forget(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Forget error = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(saved.Path); err != nil {
		t.Errorf("exported file should remain: %v", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("my host"); got != "my_host.pem" {
		t.Errorf("FileName = %q", got)
	}
}
